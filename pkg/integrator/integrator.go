package integrator

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance carried back along a camera ray
	RayColor(ray core.Ray, sampler core.Sampler) core.Vec3
}

// Background supplies the radiance of rays that escape the scene
type Background interface {
	Radiance(ray core.Ray, sampler core.Sampler) core.Vec3
}

// FlatBackground returns the same color in every direction
type FlatBackground struct {
	Color core.Vec3
}

// NewFlatBackground creates a uniform background
func NewFlatBackground(color core.Vec3) *FlatBackground {
	return &FlatBackground{Color: color}
}

// Radiance returns the background color
func (b *FlatBackground) Radiance(ray core.Ray, sampler core.Sampler) core.Vec3 {
	return b.Color
}

// SkyBoxBackground looks escaped rays up on a skybox by direction
type SkyBoxBackground struct {
	Sky *geometry.SkyBox
}

// NewSkyBoxBackground creates a background from a skybox cube
func NewSkyBoxBackground(sky *geometry.SkyBox) *SkyBoxBackground {
	return &SkyBoxBackground{Sky: sky}
}

// Radiance returns the emission of the face the direction points at.
// The ray's origin is ignored: the environment does not parallax.
func (b *SkyBoxBackground) Radiance(ray core.Ray, sampler core.Sampler) core.Vec3 {
	hit, ok := b.Sky.Lookup(ray.Direction, ray.Time, sampler)
	if !ok {
		return core.Vec3{}
	}
	return hit.Material.Emitted(hit.UV, hit.Point)
}
