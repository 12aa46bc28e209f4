package geometry

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// Box is an axis-aligned box made of six rectangles
type Box struct {
	Min, Max core.Vec3
	sides    *HittableList
}

// NewBox creates a box between two opposite corners
func NewBox(p0, p1 core.Vec3, mat material.Material) *Box {
	lo := core.NewVec3(min(p0.X, p1.X), min(p0.Y, p1.Y), min(p0.Z, p1.Z))
	hi := core.NewVec3(max(p0.X, p1.X), max(p0.Y, p1.Y), max(p0.Z, p1.Z))

	sides := NewHittableList(
		NewXYRect(lo.X, hi.X, lo.Y, hi.Y, hi.Z, mat),
		NewXYRect(lo.X, hi.X, lo.Y, hi.Y, lo.Z, mat),
		NewXZRect(lo.X, hi.X, lo.Z, hi.Z, hi.Y, mat),
		NewXZRect(lo.X, hi.X, lo.Z, hi.Z, lo.Y, mat),
		NewYZRect(lo.Y, hi.Y, lo.Z, hi.Z, hi.X, mat),
		NewYZRect(lo.Y, hi.Y, lo.Z, hi.Z, lo.X, mat),
	)

	return &Box{Min: lo, Max: hi, sides: sides}
}

// Hit returns the nearest face hit
func (b *Box) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return b.sides.Hit(ray, tMin, tMax, sampler)
}

// BoundingBox returns the box itself
func (b *Box) BoundingBox(time0, time1 float64) core.AABB {
	return padBox(core.NewAABB(b.Min, b.Max))
}
