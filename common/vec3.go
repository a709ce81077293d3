package common

import "math"

// Vec3 is a float64 world-space vector. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

var (
	Zero3  = Vec3{}
	UnitX  = Vec3{X: 1}
	UnitY  = Vec3{Y: 1}
	UnitZ  = Vec3{Z: 1}
	Down3  = Vec3{Y: -1}
	Up3    = UnitY
	OneVec = Vec3{X: 1, Y: 1, Z: 1}
)

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSq() float64 {
	return v.Dot(v)
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSq())
}

// Normalize returns the unit vector, or zero for a zero-length input.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < epsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// PlanarDistance is the XZ distance between two points.
func (v Vec3) PlanarDistance(o Vec3) float64 {
	return math.Hypot(v.X-o.X, v.Z-o.Z)
}

func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Length()
}

func (v Vec3) IsZero() bool {
	return v.LengthSq() < epsilon*epsilon
}
