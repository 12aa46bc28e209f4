package geometry

import (
	"fmt"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// MeshVertex is one entry of a flat vertex soup; every 3 consecutive vertices form a triangle
type MeshVertex struct {
	Position core.Vec3
	Normal   core.Vec3 // zero when the source has no normal
	TexCoord core.Vec2
}

// MeshTransform is applied to a mesh as scale (per vertex), then rotation about Y, then translation
type MeshTransform struct {
	Scale     core.Vec3
	RotateY   float64 // degrees
	Translate core.Vec3
}

// IdentityMeshTransform leaves the mesh where the file put it
func IdentityMeshTransform() MeshTransform {
	return MeshTransform{Scale: core.NewVec3(1, 1, 1)}
}

// TriangleMesh is a BVH over a mesh's triangles wrapped in its rotate/translate transform
type TriangleMesh struct {
	object    Hittable
	bvh       *BVH
	Triangles int // triangles in the tree
	Skipped   int // zero-area triangles dropped while building
}

// NewTriangleMesh builds a mesh from a vertex soup. Zero-area triangles are dropped;
// an empty soup, a length that is not a multiple of 3, or a mesh with no usable
// triangle is an error, so no BVH is ever built from nothing.
func NewTriangleMesh(vertices []MeshVertex, mat material.Material, transform MeshTransform) (*TriangleMesh, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("mesh has no vertices")
	}
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("mesh vertex count %d is not a multiple of 3", len(vertices))
	}

	scale := transform.Scale
	if scale == (core.Vec3{}) {
		scale = core.NewVec3(1, 1, 1)
	}
	// Normals transform by the inverse scale to stay perpendicular under non-uniform scaling
	normalScale := core.NewVec3(1/scale.X, 1/scale.Y, 1/scale.Z)

	triangles := make([]Hittable, 0, len(vertices)/3)
	skipped := 0
	for i := 0; i < len(vertices); i += 3 {
		a, b, c := vertices[i], vertices[i+1], vertices[i+2]
		p0 := a.Position.MultiplyVec(scale)
		p1 := b.Position.MultiplyVec(scale)
		p2 := c.Position.MultiplyVec(scale)

		var tri *Triangle
		if a.Normal.NearZero() || b.Normal.NearZero() || c.Normal.NearZero() {
			tri = NewTriangle(p0, p1, p2, mat)
		} else {
			tri = NewSmoothTriangle(p0, p1, p2,
				a.Normal.MultiplyVec(normalScale).Normalize(),
				b.Normal.MultiplyVec(normalScale).Normalize(),
				c.Normal.MultiplyVec(normalScale).Normalize(),
				a.TexCoord, b.TexCoord, c.TexCoord, mat)
		}

		if tri.IsDegenerate() {
			skipped++
			continue
		}
		triangles = append(triangles, tri)
	}

	if len(triangles) == 0 {
		return nil, fmt.Errorf("mesh has no non-degenerate triangles (%d skipped)", skipped)
	}

	bvh := NewBVH(triangles, 0, 1)
	var object Hittable = bvh
	if transform.RotateY != 0 {
		object = NewRotateY(object, transform.RotateY)
	}
	if transform.Translate != (core.Vec3{}) {
		object = NewTranslate(object, transform.Translate)
	}

	return &TriangleMesh{
		object:    object,
		bvh:       bvh,
		Triangles: len(triangles),
		Skipped:   skipped,
	}, nil
}

// Hit intersects the transformed tree
func (m *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return m.object.Hit(ray, tMin, tMax, sampler)
}

// BoundingBox returns the transformed tree's box
func (m *TriangleMesh) BoundingBox(time0, time1 float64) core.AABB {
	return m.object.BoundingBox(time0, time1)
}

// Stats returns the statistics of the mesh's internal tree
func (m *TriangleMesh) Stats() BVHStats {
	return m.bvh.Stats()
}
