package geometry

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// Triangle is a one-sided triangle: rays arriving from behind the face
// (against the winding order v0 -> v1 -> v2) do not hit it
type Triangle struct {
	V0, V1, V2 core.Vec3
	E1, E2     core.Vec3 // V1-V0 and V2-V0
	Normal     core.Vec3 // normalize(E1 × E2)
	Area       float64
	Material   material.Material

	// Optional per-vertex shading data
	hasVertexData bool
	N0, N1, N2    core.Vec3
	T0, T1, T2    core.Vec2
}

// NewTriangle creates a flat-shaded triangle
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	e1 := v1.Subtract(v0)
	e2 := v2.Subtract(v0)
	cross := e1.Cross(e2)
	return &Triangle{
		V0: v0, V1: v1, V2: v2,
		E1: e1, E2: e2,
		Normal:   cross.Normalize(),
		Area:     cross.Length() / 2,
		Material: mat,
	}
}

// NewSmoothTriangle creates a triangle that interpolates per-vertex normals and texture coordinates
func NewSmoothTriangle(v0, v1, v2, n0, n1, n2 core.Vec3, t0, t1, t2 core.Vec2, mat material.Material) *Triangle {
	tri := NewTriangle(v0, v1, v2, mat)
	tri.hasVertexData = true
	tri.N0, tri.N1, tri.N2 = n0, n1, n2
	tri.T0, tri.T1, tri.T2 = t0, t1, t2
	return tri
}

// IsDegenerate reports whether the triangle has (numerically) zero area
func (tri *Triangle) IsDegenerate() bool {
	return tri.Area < 1e-12
}

// Hit uses the Möller–Trumbore algorithm. A determinant <= 0 (back face or degenerate)
// is rejected outright.
func (tri *Triangle) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	pvec := ray.Direction.Cross(tri.E2)
	det := tri.E1.Dot(pvec)
	if det <= 0 {
		return nil, false
	}

	tvec := ray.Origin.Subtract(tri.V0)
	u := tvec.Dot(pvec)
	if u < 0 || u > det {
		return nil, false
	}

	qvec := tvec.Cross(tri.E1)
	v := ray.Direction.Dot(qvec)
	if v < 0 || u+v > det {
		return nil, false
	}

	invDet := 1 / det
	t := tri.E2.Dot(qvec) * invDet
	if t <= tMin || t >= tMax {
		return nil, false
	}
	u *= invDet
	v *= invDet
	w := 1 - u - v

	hit := &material.HitRecord{
		T:        t,
		Point:    ray.At(t),
		UV:       core.NewVec2(u, v),
		Material: tri.Material,
	}

	outwardNormal := tri.Normal
	if tri.hasVertexData {
		smooth := tri.N0.Multiply(w).Add(tri.N1.Multiply(u)).Add(tri.N2.Multiply(v))
		if !smooth.NearZero() {
			outwardNormal = smooth.Normalize()
		}
		hit.UV = core.NewVec2(
			w*tri.T0.X+u*tri.T1.X+v*tri.T2.X,
			w*tri.T0.Y+u*tri.T1.Y+v*tri.T2.Y,
		)
	}
	hit.SetFaceNormal(ray, outwardNormal)

	return hit, true
}

// BoundingBox returns the padded box around the three vertices
func (tri *Triangle) BoundingBox(time0, time1 float64) core.AABB {
	return padBox(core.NewAABBFromPoints(tri.V0, tri.V1, tri.V2))
}
