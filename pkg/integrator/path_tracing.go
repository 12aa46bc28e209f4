package integrator

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// hitEpsilon keeps scattered rays from re-hitting the surface they leave
const hitEpsilon = 0.001

// PathTracingIntegrator implements fixed-depth unidirectional path tracing.
// Every bounce follows the material's single scattered ray; there is no light
// sampling and no Russian roulette, so MaxDepth alone bounds the recursion.
type PathTracingIntegrator struct {
	world      geometry.Hittable
	background Background
	maxDepth   int
}

// NewPathTracingIntegrator creates a new path tracing integrator over world
func NewPathTracingIntegrator(world geometry.Hittable, background Background, maxDepth int) *PathTracingIntegrator {
	if background == nil {
		background = NewFlatBackground(core.Vec3{})
	}
	return &PathTracingIntegrator{
		world:      world,
		background: background,
		maxDepth:   maxDepth,
	}
}

// RayColor traces ray with the configured depth limit
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, sampler core.Sampler) core.Vec3 {
	return pt.Trace(ray, pt.maxDepth, sampler)
}

// Trace returns the radiance along ray with at most depth bounces.
// Running out of depth contributes black.
func (pt *PathTracingIntegrator) Trace(ray core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := pt.world.Hit(ray, hitEpsilon, math.Inf(1), sampler)
	if !isHit {
		return pt.background.Radiance(ray, sampler)
	}

	emitted := hit.Material.Emitted(hit.UV, hit.Point)

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return emitted
	}

	incoming := pt.Trace(scatter.Scattered, depth-1, sampler)
	return emitted.Add(scatter.Attenuation.MultiplyVec(incoming))
}
