package geometry

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// Translate moves a hittable by a fixed offset
type Translate struct {
	Object Hittable
	Offset core.Vec3
}

// NewTranslate wraps object so it appears moved by offset
func NewTranslate(object Hittable, offset core.Vec3) *Translate {
	return &Translate{Object: object, Offset: offset}
}

// Hit moves the ray into object space and intersects. Translation leaves t unchanged,
// so the world point is taken from the original ray.
func (tr *Translate) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	moved := core.NewRayAt(ray.Origin.Subtract(tr.Offset), ray.Direction, ray.Time)

	hit, ok := tr.Object.Hit(moved, tMin, tMax, sampler)
	if !ok {
		return nil, false
	}

	// Direction is unchanged, so the normal and face orientation carry over as is
	hit.Point = ray.At(hit.T)
	return hit, true
}

// BoundingBox shifts the wrapped object's box
func (tr *Translate) BoundingBox(time0, time1 float64) core.AABB {
	box := tr.Object.BoundingBox(time0, time1)
	return core.NewAABB(box.Min.Add(tr.Offset), box.Max.Add(tr.Offset))
}

// RotateY rotates a hittable about the world Y axis
type RotateY struct {
	Object   Hittable
	Degrees  float64
	sinTheta float64
	cosTheta float64
}

// NewRotateY wraps object so it appears rotated by degrees about Y
func NewRotateY(object Hittable, degrees float64) *RotateY {
	radians := degrees * math.Pi / 180
	return &RotateY{
		Object:   object,
		Degrees:  degrees,
		sinTheta: math.Sin(radians),
		cosTheta: math.Cos(radians),
	}
}

// toObject applies the inverse rotation
func (r *RotateY) toObject(v core.Vec3) core.Vec3 {
	return core.NewVec3(
		r.cosTheta*v.X-r.sinTheta*v.Z,
		v.Y,
		r.sinTheta*v.X+r.cosTheta*v.Z,
	)
}

// toWorld applies the rotation
func (r *RotateY) toWorld(v core.Vec3) core.Vec3 {
	return core.NewVec3(
		r.cosTheta*v.X+r.sinTheta*v.Z,
		v.Y,
		-r.sinTheta*v.X+r.cosTheta*v.Z,
	)
}

// Hit rotates the ray into object space, intersects, and rotates the normal back.
// Rotation preserves t, so the world point is taken from the original ray.
// The wrapped object's front-face flag is kept; rotation does not change which side was hit.
func (r *RotateY) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	rotated := core.NewRayAt(r.toObject(ray.Origin), r.toObject(ray.Direction), ray.Time)

	hit, ok := r.Object.Hit(rotated, tMin, tMax, sampler)
	if !ok {
		return nil, false
	}

	hit.Point = ray.At(hit.T)
	hit.Normal = r.toWorld(hit.Normal)
	return hit, true
}

// BoundingBox rotates the 8 corners of the wrapped box and takes their envelope
func (r *RotateY) BoundingBox(time0, time1 float64) core.AABB {
	corners := r.Object.BoundingBox(time0, time1).Corners()
	for i, corner := range corners {
		corners[i] = r.toWorld(corner)
	}
	return core.NewAABBFromPoints(corners[:]...)
}
