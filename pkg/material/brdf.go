package material

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// BRDF scatters uniformly over the hemisphere and reads its attenuation from a lobe
// texture indexed by the half-vector between the incoming and scattered directions
type BRDF struct {
	nonEmissive
	Lobe Texture
}

// NewBRDF creates a BRDF material from a lobe texture
func NewBRDF(lobe Texture) *BRDF {
	return &BRDF{Lobe: lobe}
}

// Scatter samples the hemisphere and looks the lobe up at
// u = normal·half·0.5 + 0.5, v = incoming·half
func (b *BRDF) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	direction := core.RandomInHemisphere(hit.Normal, sampler)
	if direction.NearZero() {
		direction = hit.Normal
	}

	half := rayIn.Direction.Add(direction).Normalize()
	u := hit.Normal.Dot(half)*0.5 + 0.5
	v := rayIn.Direction.Normalize().Dot(half)

	return ScatterResult{
		Scattered:   core.NewRayAt(hit.Point, direction, rayIn.Time),
		Attenuation: b.Lobe.Evaluate(core.NewVec2(u, v), hit.Point),
	}, true
}
