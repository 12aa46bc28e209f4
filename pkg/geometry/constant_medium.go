package geometry

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// ConstantMedium is a homogeneous participating medium (fog, smoke) filling a closed boundary
type ConstantMedium struct {
	Boundary      Hittable
	Density       float64
	PhaseFunction material.Material
}

// NewConstantMedium fills boundary with a medium of the given density and albedo
func NewConstantMedium(boundary Hittable, density float64, albedo core.Vec3) *ConstantMedium {
	return &ConstantMedium{
		Boundary:      boundary,
		Density:       density,
		PhaseFunction: material.NewIsotropic(albedo),
	}
}

// NewTexturedConstantMedium fills boundary with a medium whose albedo comes from a texture
func NewTexturedConstantMedium(boundary Hittable, density float64, albedo material.Texture) *ConstantMedium {
	return &ConstantMedium{
		Boundary:      boundary,
		Density:       density,
		PhaseFunction: material.NewTexturedIsotropic(albedo),
	}
}

// Hit finds the [tEnter, tExit] span inside the boundary and samples a free path
// -ln(1-ξ)/density along it. A path longer than the span passes through.
// Density <= 0 never scatters; infinite density scatters at tEnter.
func (m *ConstantMedium) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	if m.Density <= 0 {
		return nil, false
	}

	enter, ok := m.Boundary.Hit(ray, math.Inf(-1), math.Inf(1), sampler)
	if !ok {
		return nil, false
	}
	exit, ok := m.Boundary.Hit(ray, enter.T+0.0001, math.Inf(1), sampler)
	if !ok {
		return nil, false
	}

	tEnter := math.Max(enter.T, tMin)
	tExit := math.Min(exit.T, tMax)
	if tEnter >= tExit {
		return nil, false
	}
	if tEnter < 0 {
		tEnter = 0
	}

	rayLength := ray.Direction.Length()
	distanceInside := (tExit - tEnter) * rayLength
	hitDistance := -math.Log(1-sampler.Get1D()) / m.Density
	if hitDistance > distanceInside {
		return nil, false
	}

	t := tEnter + hitDistance/rayLength
	if t <= tMin {
		return nil, false
	}

	return &material.HitRecord{
		T:         t,
		Point:     ray.At(t),
		Normal:    core.NewVec3(1, 0, 0), // arbitrary
		FrontFace: true,                  // arbitrary
		Material:  m.PhaseFunction,
	}, true
}

// BoundingBox returns the boundary's box
func (m *ConstantMedium) BoundingBox(time0, time1 float64) core.AABB {
	return m.Boundary.BoundingBox(time0, time1)
}
