package geometry

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// Skybox face order for NewSkyBox. The camera of a cube map looks down -z,
// so the front image sits on the z = -1 face.
const (
	SkyBack   = iota // z = +1
	SkyFront         // z = -1
	SkyTop           // y = +1
	SkyBottom        // y = -1
	SkyRight         // x = +1
	SkyLeft          // x = -1
)

// SkyBox is the closed cube [-1,1]³ whose faces carry emissive sky materials
type SkyBox struct {
	sides *HittableList
}

// NewSkyBox creates the cube from six face materials indexed by SkyBack..SkyLeft
func NewSkyBox(faces [6]material.Material) *SkyBox {
	return &SkyBox{
		sides: NewHittableList(
			NewXYRect(-1, 1, -1, 1, 1, faces[SkyBack]),
			NewXYRect(-1, 1, -1, 1, -1, faces[SkyFront]),
			NewXZRect(-1, 1, -1, 1, 1, faces[SkyTop]),
			NewXZRect(-1, 1, -1, 1, -1, faces[SkyBottom]),
			NewYZRect(-1, 1, -1, 1, 1, faces[SkyRight]),
			NewYZRect(-1, 1, -1, 1, -1, faces[SkyLeft]),
		),
	}
}

// Hit intersects the faces of the cube
func (s *SkyBox) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return s.sides.Hit(ray, tMin, tMax, sampler)
}

// Lookup intersects a ray with the given direction cast from the coordinate origin.
// The environment is sampled by direction only; the caller's position never matters.
func (s *SkyBox) Lookup(direction core.Vec3, time float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return s.sides.Hit(core.NewRayAt(core.Vec3{}, direction, time), 0.001, inf, sampler)
}

// BoundingBox returns the unit cube
func (s *SkyBox) BoundingBox(time0, time1 float64) core.AABB {
	return padBox(core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1)))
}
