package geometry

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// Hittable is anything a ray can be intersected with and bounded by a box.
// Implementations are immutable after construction and safe for concurrent use;
// the sampler belongs to the calling worker.
type Hittable interface {
	// Hit returns the nearest intersection with tMin < t <= tMax
	Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool)

	// BoundingBox returns a box enclosing the object over the shutter interval [time0, time1]
	BoundingBox(time0, time1 float64) core.AABB
}

var inf = math.Inf(1)

// boxPadding keeps flat objects from producing zero-thickness boxes the slab test would reject
const boxPadding = 0.0001

// padBox widens any axis thinner than boxPadding
func padBox(box core.AABB) core.AABB {
	half := boxPadding / 2
	if box.Max.X-box.Min.X < boxPadding {
		box.Min.X -= half
		box.Max.X += half
	}
	if box.Max.Y-box.Min.Y < boxPadding {
		box.Min.Y -= half
		box.Max.Y += half
	}
	if box.Max.Z-box.Min.Z < boxPadding {
		box.Min.Z -= half
		box.Max.Z += half
	}
	return box
}
