package common

// AABB is an axis-aligned box described by its center and half extents.
type AABB struct {
	Center Vec3
	Half   Vec3
}

func BoxAt(center, half Vec3) AABB {
	return AABB{Center: center, Half: half}
}

func (b AABB) Min() Vec3 { return b.Center.Sub(b.Half) }
func (b AABB) Max() Vec3 { return b.Center.Add(b.Half) }

// Overlaps reports strict overlap on every axis; touching faces do not count.
func (b AABB) Overlaps(o AABB) bool {
	const skin = 1e-7
	return b.Center.X-b.Half.X < o.Center.X+o.Half.X-skin && o.Center.X-o.Half.X < b.Center.X+b.Half.X-skin &&
		b.Center.Y-b.Half.Y < o.Center.Y+o.Half.Y-skin && o.Center.Y-o.Half.Y < b.Center.Y+b.Half.Y-skin &&
		b.Center.Z-b.Half.Z < o.Center.Z+o.Half.Z-skin && o.Center.Z-o.Half.Z < b.Center.Z+b.Half.Z-skin
}

// ContainsXZ reports whether the point's planar projection is inside the box footprint.
func (b AABB) ContainsXZ(p Vec3) bool {
	return p.X >= b.Center.X-b.Half.X && p.X <= b.Center.X+b.Half.X &&
		p.Z >= b.Center.Z-b.Half.Z && p.Z <= b.Center.Z+b.Half.Z
}

// RayHit returns the entry distance of a ray against the box using the slab
// test. dir must be normalized.
func (b AABB) RayHit(origin, dir Vec3, maxDist float64) (float64, bool) {
	min, max := b.Min(), b.Max()
	tmin, tmax := 0.0, maxDist
	axes := [3][4]float64{
		{origin.X, dir.X, min.X, max.X},
		{origin.Y, dir.Y, min.Y, max.Y},
		{origin.Z, dir.Z, min.Z, max.Z},
	}
	for _, a := range axes {
		o, d, lo, hi := a[0], a[1], a[2], a[3]
		if d > -epsilon && d < epsilon {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
