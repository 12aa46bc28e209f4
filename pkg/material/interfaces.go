package material

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Material decides how light leaves a surface: by emission, by scattering, or both
type Material interface {
	// Scatter returns the scattered ray and its attenuation, or false if the ray is absorbed
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)

	// Emitted returns the light emitted at a surface point
	Emitted(uv core.Vec2, point core.Vec3) core.Vec3
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray, originating at the hit point
	Attenuation core.Vec3 // Per-channel color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit surface normal, always facing against the incoming ray
	T         float64   // Parameter t along the ray
	UV        core.Vec2 // Surface parametrization at the hit
	FrontFace bool      // Whether the ray hit the outward-facing side
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// nonEmissive gives scattering materials a black Emitted
type nonEmissive struct{}

// Emitted returns black
func (nonEmissive) Emitted(uv core.Vec2, point core.Vec3) core.Vec3 {
	return core.Vec3{}
}
