package geometry

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// HittableList tests every object in order and keeps the nearest hit
type HittableList struct {
	Objects []Hittable
}

// NewHittableList creates a list from the given objects
func NewHittableList(objects ...Hittable) *HittableList {
	return &HittableList{Objects: objects}
}

// Hit returns the nearest hit over all objects, shrinking tMax as hits are found
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestSoFar := tMax

	for _, object := range l.Objects {
		if hit, ok := object.Hit(ray, tMin, closestSoFar, sampler); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}

	return closest, closest != nil
}

// BoundingBox returns the union of all object boxes; an empty list has an empty box
func (l *HittableList) BoundingBox(time0, time1 float64) core.AABB {
	if len(l.Objects) == 0 {
		return core.AABB{}
	}
	box := l.Objects[0].BoundingBox(time0, time1)
	for _, object := range l.Objects[1:] {
		box = box.Union(object.BoundingBox(time0, time1))
	}
	return box
}
