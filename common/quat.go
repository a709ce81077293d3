package common

import "math"

// Quat is a unit rotation quaternion. Rotations follow the Y-up convention
// where a positive yaw turns +Z toward +X.
type Quat struct {
	W, X, Y, Z float64
}

func IdentityQuat() Quat {
	return Quat{W: 1}
}

func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normalize()
	s, c := math.Sincos(angle / 2)
	return Quat{W: c, X: a.X * s, Y: a.Y * s, Z: a.Z * s}
}

// QuatFromYaw builds a rotation about world up.
func QuatFromYaw(yaw float64) Quat {
	return QuatFromAxisAngle(UnitY, yaw)
}

// QuatFromEuler composes yaw(Y) * pitch(X) * roll(Z).
func QuatFromEuler(pitch, yaw, roll float64) Quat {
	return QuatFromAxisAngle(UnitY, yaw).
		Mul(QuatFromAxisAngle(UnitX, pitch)).
		Mul(QuatFromAxisAngle(UnitZ, roll))
}

// LookRotation returns the rotation whose forward (+Z) axis points along dir,
// keeping world up as the reference. A zero dir yields identity.
func LookRotation(dir Vec3) Quat {
	if dir.IsZero() {
		return IdentityQuat()
	}
	d := dir.Normalize()
	yaw := math.Atan2(d.X, d.Z)
	pitch := -math.Atan2(d.Y, math.Hypot(d.X, d.Z))
	return QuatFromAxisAngle(UnitY, yaw).Mul(QuatFromAxisAngle(UnitX, pitch))
}

// LookAt is LookRotation from one point toward another.
func LookAt(from, to Vec3) Quat {
	return LookRotation(to.Sub(from))
}

// Mul composes rotations; the result applies o first, then q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

func (q Quat) Conjugate() Quat {
	return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

func (q Quat) Dot(o Quat) float64 {
	return q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
}

func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.Dot(q))
	if l < epsilon {
		return IdentityQuat()
	}
	inv := 1 / l
	return Quat{W: q.W * inv, X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

func (q Quat) Forward() Vec3 { return q.Rotate(UnitZ) }
func (q Quat) Right() Vec3   { return q.Rotate(UnitX) }
func (q Quat) Up() Vec3      { return q.Rotate(UnitY) }

// Yaw is the heading of the forward axis about world up.
func (q Quat) Yaw() float64 {
	f := q.Forward()
	return math.Atan2(f.X, f.Z)
}

// Angle is the rotation angle separating q and o, in [0, Pi].
func (q Quat) Angle(o Quat) float64 {
	d := math.Abs(q.Normalize().Dot(o.Normalize()))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// Slerp interpolates along the shortest arc from a to b.
func Slerp(a, b Quat, t float64) Quat {
	cos := a.Dot(b)
	if cos < 0 {
		b = Quat{W: -b.W, X: -b.X, Y: -b.Y, Z: -b.Z}
		cos = -cos
	}
	if cos > 0.9995 {
		return Quat{
			W: Lerp(a.W, b.W, t),
			X: Lerp(a.X, b.X, t),
			Y: Lerp(a.Y, b.Y, t),
			Z: Lerp(a.Z, b.Z, t),
		}.Normalize()
	}
	theta := math.Acos(cos)
	sin := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sin
	wb := math.Sin(t*theta) / sin
	return Quat{
		W: a.W*wa + b.W*wb,
		X: a.X*wa + b.X*wb,
		Y: a.Y*wa + b.Y*wb,
		Z: a.Z*wa + b.Z*wb,
	}
}
