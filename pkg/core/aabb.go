package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from its minimum and maximum corners
func NewAABB(lo, hi Vec3) AABB {
	return AABB{Min: lo, Max: hi}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	lo := points[0]
	hi := points[0]

	for _, point := range points[1:] {
		lo.X = math.Min(lo.X, point.X)
		lo.Y = math.Min(lo.Y, point.Y)
		lo.Z = math.Min(lo.Z, point.Z)

		hi.X = math.Max(hi.X, point.X)
		hi.Y = math.Max(hi.Y, point.Y)
		hi.Z = math.Max(hi.Z, point.Z)
	}

	return AABB{Min: lo, Max: hi}
}

// Hit tests if a ray intersects with this AABB using the slab method.
// The per-axis entry/exit interval is intersected with [tMin, tMax]; an empty
// intersection is a miss.
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		invD := 1.0 / ray.Direction.Axis(axis)
		origin := ray.Origin.Axis(axis)

		t0 := (aabb.Min.Axis(axis) - origin) * invD
		t1 := (aabb.Max.Axis(axis) - origin) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}

		// NaN (zero direction with the origin on a slab plane) leaves the interval untouched
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax <= tMin {
			return false
		}
	}
	return true
}

// Union returns an AABB that encloses both boxes
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: NewVec3(
			math.Min(aabb.Min.X, other.Min.X),
			math.Min(aabb.Min.Y, other.Min.Y),
			math.Min(aabb.Min.Z, other.Min.Z),
		),
		Max: NewVec3(
			math.Max(aabb.Max.X, other.Max.X),
			math.Max(aabb.Max.Y, other.Max.Y),
			math.Max(aabb.Max.Z, other.Max.Z),
		),
	}
}

// Corners returns the 8 corners of the box
func (aabb AABB) Corners() [8]Vec3 {
	var corners [8]Vec3
	for i := 0; i < 8; i++ {
		corner := aabb.Min
		if i&1 != 0 {
			corner.X = aabb.Max.X
		}
		if i&2 != 0 {
			corner.Y = aabb.Max.Y
		}
		if i&4 != 0 {
			corner.Z = aabb.Max.Z
		}
		corners[i] = corner
	}
	return corners
}
