package material

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// DiffuseLight emits its texture and never scatters
type DiffuseLight struct {
	Emit Texture
}

// NewDiffuseLight creates a light with a solid emission color
func NewDiffuseLight(emission core.Vec3) *DiffuseLight {
	return &DiffuseLight{Emit: NewSolidColor(emission)}
}

// NewTexturedDiffuseLight creates a light whose emission comes from a texture
func NewTexturedDiffuseLight(emit Texture) *DiffuseLight {
	return &DiffuseLight{Emit: emit}
}

// Scatter never scatters
func (l *DiffuseLight) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emitted returns the texture value at (u, v)
func (l *DiffuseLight) Emitted(uv core.Vec2, point core.Vec3) core.Vec3 {
	return l.Emit.Evaluate(uv, point)
}

// Sky is the emissive material of a skybox face
type Sky struct {
	Emit Texture
}

// NewSky creates a sky face from a texture
func NewSky(emit Texture) *Sky {
	return &Sky{Emit: emit}
}

// NewSkyColor creates a uniformly colored sky face
func NewSkyColor(color core.Vec3) *Sky {
	return &Sky{Emit: NewSolidColor(color)}
}

// Scatter never scatters
func (s *Sky) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emitted looks the texture up at (v, u): face rects parametrize the cube the other way round
func (s *Sky) Emitted(uv core.Vec2, point core.Vec3) core.Vec3 {
	return s.Emit.Evaluate(core.NewVec2(uv.Y, uv.X), point)
}
