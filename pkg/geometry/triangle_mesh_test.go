package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func flatVertices(points ...core.Vec3) []MeshVertex {
	vertices := make([]MeshVertex, len(points))
	for i, p := range points {
		vertices[i] = MeshVertex{Position: p}
	}
	return vertices
}

func TestNewTriangleMesh_Errors(t *testing.T) {
	tests := []struct {
		name     string
		vertices []MeshVertex
	}{
		{"Empty", nil},
		{"Not a multiple of three", flatVertices(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 0))},
		{"All degenerate", flatVertices(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), core.NewVec3(2, 2, 2))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTriangleMesh(tt.vertices, testMaterial, IdentityMeshTransform()); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestNewTriangleMesh_SkipsDegenerate(t *testing.T) {
	vertices := flatVertices(
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 1), core.NewVec3(0, 1, 1),
	)

	mesh, err := NewTriangleMesh(vertices, testMaterial, IdentityMeshTransform())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if mesh.Triangles != 2 || mesh.Skipped != 1 {
		t.Errorf("Expected 2 triangles and 1 skipped, got %d and %d", mesh.Triangles, mesh.Skipped)
	}
	if stats := mesh.Stats(); stats.Primitives != 2 {
		t.Errorf("Expected 2 primitives in the tree, got %d", stats.Primitives)
	}
}

func TestNewTriangleMesh_ScaleAndTranslate(t *testing.T) {
	vertices := flatVertices(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))
	mesh, err := NewTriangleMesh(vertices, testMaterial, MeshTransform{
		Scale:     core.NewVec3(2, 2, 2),
		Translate: core.NewVec3(0, 0, -5),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// (1.2, 0.5) lies inside the scaled triangle but outside the original
	hit, ok := mesh.Hit(core.NewRay(core.NewVec3(1.2, 0.5, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil)
	if !ok {
		t.Fatal("Expected hit on the scaled triangle")
	}
	if math.Abs(hit.T-5) > 1e-9 {
		t.Errorf("Expected t=5, got %f", hit.T)
	}
	if !hit.FrontFace {
		t.Error("Expected front-face hit")
	}
}

func TestNewTriangleMesh_Rotation(t *testing.T) {
	vertices := flatVertices(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))
	mesh, err := NewTriangleMesh(vertices, testMaterial, MeshTransform{
		Scale:     core.NewVec3(2, 2, 2),
		RotateY:   180,
		Translate: core.NewVec3(0, 0, -5),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// After a half turn the triangle spans negative x and faces -z
	if _, ok := mesh.Hit(core.NewRay(core.NewVec3(-0.5, 0.5, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil); ok {
		t.Error("Expected the turned-away side to be culled")
	}

	hit, ok := mesh.Hit(core.NewRay(core.NewVec3(-0.5, 0.5, -10), core.NewVec3(0, 0, 1)), 0.001, math.Inf(1), nil)
	if !ok {
		t.Fatal("Expected hit from behind the original orientation")
	}
	if math.Abs(hit.T-5) > 1e-9 {
		t.Errorf("Expected t=5, got %f", hit.T)
	}
	if hit.Normal.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("Expected normal (0,0,-1), got %v", hit.Normal)
	}
}

func TestNewTriangleMesh_NonUniformScaleNormals(t *testing.T) {
	// A triangle in the plane x + y = 1 with matching vertex normals
	n := core.NewVec3(1, 1, 0).Normalize()
	vertices := []MeshVertex{
		{Position: core.NewVec3(1, 0, 0), Normal: n},
		{Position: core.NewVec3(0, 1, 0), Normal: n},
		{Position: core.NewVec3(1, 0, 1), Normal: n},
	}

	mesh, err := NewTriangleMesh(vertices, testMaterial, MeshTransform{Scale: core.NewVec3(2, 1, 1)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Scaled plane is x/2 + y = 1 with normal along (0.5, 1, 0)
	expected := core.NewVec3(0.5, 1, 0).Normalize()
	centroid := core.NewVec3(4.0/3, 1.0/3, 1.0/3)
	origin := centroid.Add(expected.Multiply(5))

	hit, ok := mesh.Hit(core.NewRay(origin, expected.Negate()), 0.001, math.Inf(1), nil)
	if !ok {
		t.Fatal("Expected hit on the scaled triangle")
	}
	if hit.Normal.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected normal %v, got %v", expected, hit.Normal)
	}
}
