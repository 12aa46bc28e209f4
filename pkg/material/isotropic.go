package material

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Isotropic scatters uniformly in every direction; it is the phase function of constant media
type Isotropic struct {
	nonEmissive
	Albedo Texture
}

// NewIsotropic creates an isotropic material with a solid color
func NewIsotropic(albedo core.Vec3) *Isotropic {
	return &Isotropic{Albedo: NewSolidColor(albedo)}
}

// NewTexturedIsotropic creates an isotropic material with a texture
func NewTexturedIsotropic(albedo Texture) *Isotropic {
	return &Isotropic{Albedo: albedo}
}

// Scatter picks a random direction inside the unit sphere
func (i *Isotropic) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{
		Scattered:   core.NewRayAt(hit.Point, core.RandomInUnitSphere(sampler), rayIn.Time),
		Attenuation: i.Albedo.Evaluate(hit.UV, hit.Point),
	}, true
}
