package material

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	nonEmissive
	Albedo   core.Vec3 // Metal color
	Fuzzness float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzzness float64) *Metal {
	if fuzzness > 1.0 {
		fuzzness = 1.0
	}
	if fuzzness < 0.0 {
		fuzzness = 0.0
	}
	return &Metal{Albedo: albedo, Fuzzness: fuzzness}
}

// Scatter mirrors the ray about the normal and perturbs it inside a sphere of radius Fuzzness.
// Rays perturbed into the surface are absorbed.
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := rayIn.Direction.Normalize().Reflect(hit.Normal)
	direction := reflected.Add(core.RandomInUnitSphere(sampler).Multiply(m.Fuzzness))

	scattered := core.NewRayAt(hit.Point, direction, rayIn.Time)
	return ScatterResult{
		Scattered:   scattered,
		Attenuation: m.Albedo,
	}, direction.Dot(hit.Normal) > 0
}
