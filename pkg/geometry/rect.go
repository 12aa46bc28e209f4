package geometry

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// RectPlane selects which axis an AARect is perpendicular to
type RectPlane int

const (
	PlaneXY RectPlane = iota // perpendicular to Z
	PlaneXZ                  // perpendicular to Y
	PlaneYZ                  // perpendicular to X
)

// AARect is an axis-aligned rectangle spanning [A0,A1]×[B0,B1] on its two free axes
// at coordinate K on the fixed axis. Its outward normal points along +fixed axis.
type AARect struct {
	Plane          RectPlane
	A0, A1, B0, B1 float64
	K              float64
	Material       material.Material
}

// NewXYRect creates a rectangle in the plane z=k
func NewXYRect(x0, x1, y0, y1, k float64, mat material.Material) *AARect {
	return &AARect{Plane: PlaneXY, A0: x0, A1: x1, B0: y0, B1: y1, K: k, Material: mat}
}

// NewXZRect creates a rectangle in the plane y=k
func NewXZRect(x0, x1, z0, z1, k float64, mat material.Material) *AARect {
	return &AARect{Plane: PlaneXZ, A0: x0, A1: x1, B0: z0, B1: z1, K: k, Material: mat}
}

// NewYZRect creates a rectangle in the plane x=k
func NewYZRect(y0, y1, z0, z1, k float64, mat material.Material) *AARect {
	return &AARect{Plane: PlaneYZ, A0: y0, A1: y1, B0: z0, B1: z1, K: k, Material: mat}
}

// axes returns the indices of the two free axes and the fixed axis
func (r *AARect) axes() (a, b, k int) {
	switch r.Plane {
	case PlaneXZ:
		return 0, 2, 1
	case PlaneYZ:
		return 1, 2, 0
	default:
		return 0, 1, 2
	}
}

// Hit intersects the rectangle's plane and checks the free coordinates are in bounds
func (r *AARect) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	a, b, k := r.axes()

	dk := ray.Direction.Axis(k)
	if dk == 0 {
		return nil, false
	}
	t := (r.K - ray.Origin.Axis(k)) / dk
	if t <= tMin || t > tMax {
		return nil, false
	}

	pa := ray.Origin.Axis(a) + t*ray.Direction.Axis(a)
	pb := ray.Origin.Axis(b) + t*ray.Direction.Axis(b)
	if pa < r.A0 || pa > r.A1 || pb < r.B0 || pb > r.B1 {
		return nil, false
	}

	hit := &material.HitRecord{
		T:        t,
		Point:    ray.At(t),
		UV:       core.NewVec2((pa-r.A0)/(r.A1-r.A0), (pb-r.B0)/(r.B1-r.B0)),
		Material: r.Material,
	}
	hit.SetFaceNormal(ray, fromAxes(a, b, k, 0, 0, 1))
	return hit, true
}

// BoundingBox returns the rectangle's box, padded along the fixed axis
func (r *AARect) BoundingBox(time0, time1 float64) core.AABB {
	a, b, k := r.axes()
	return padBox(core.NewAABB(
		fromAxes(a, b, k, r.A0, r.B0, r.K),
		fromAxes(a, b, k, r.A1, r.B1, r.K),
	))
}

// fromAxes builds a vector from values given per axis index
func fromAxes(a, b, k int, va, vb, vk float64) core.Vec3 {
	var components [3]float64
	components[a] = va
	components[b] = vb
	components[k] = vk
	return core.NewVec3(components[0], components[1], components[2])
}
