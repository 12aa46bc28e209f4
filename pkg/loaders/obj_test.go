package loaders

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func TestParseOBJ_SmoothTexturedTriangle(t *testing.T) {
	source := `# a single triangle
o tri
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 2
usemtl ignored
f 1/1/1 2/2/1 3/3/1
`
	vertices, err := parseOBJ(strings.NewReader(source), "tri.obj")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(vertices) != 3 {
		t.Fatalf("Expected 3 vertices, got %d", len(vertices))
	}

	expectedUV := []core.Vec2{core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(0, 1)}
	for i, vertex := range vertices {
		if vertex.Normal != core.NewVec3(0, 0, 1) {
			t.Errorf("Vertex %d: expected normalized normal (0,0,1), got %v", i, vertex.Normal)
		}
		if vertex.TexCoord != expectedUV[i] {
			t.Errorf("Vertex %d: expected uv %v, got %v", i, expectedUV[i], vertex.TexCoord)
		}
	}
	if vertices[1].Position != core.NewVec3(1, 0, 0) {
		t.Errorf("Expected second position (1,0,0), got %v", vertices[1].Position)
	}
}

func TestParseOBJ_QuadFanWithFaceNormals(t *testing.T) {
	source := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	vertices, err := parseOBJ(strings.NewReader(source), "quad.obj")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(vertices) != 6 {
		t.Fatalf("Expected two triangles, got %d vertices", len(vertices))
	}

	// Second triangle of the fan is (0, 2, 3)
	expected := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 0), core.NewVec3(0, 1, 0)}
	for i, position := range expected {
		if vertices[3+i].Position != position {
			t.Errorf("Fan vertex %d: expected %v, got %v", i, position, vertices[3+i].Position)
		}
	}
	for i, vertex := range vertices {
		if vertex.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-12 {
			t.Errorf("Vertex %d: expected face normal (0,0,1), got %v", i, vertex.Normal)
		}
	}
}

func TestParseOBJ_NegativeIndices(t *testing.T) {
	source := `v 5 5 5
v 0 0 0
v 0 0 1
v 0 1 0
f -3 -2 -1
`
	vertices, err := parseOBJ(strings.NewReader(source), "neg.obj")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if vertices[0].Position != (core.Vec3{}) || vertices[2].Position != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected negative indices to count from the end, got %v", vertices)
	}
	// (0,0,1)-(0,0,0) x (0,1,0)-(0,0,0) points along -x
	if n := vertices[0].Normal; math.Abs(n.X+1) > 1e-12 {
		t.Errorf("Expected normal (-1,0,0), got %v", n)
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"Index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 5\n", "[bad.obj: 4]"},
		{"Short vertex", "v 1 2\n", "[bad.obj: 1]"},
		{"Bad number", "v 0 0 0\nv 1 x 0\n", "[bad.obj: 2]"},
		{"Too few face vertices", "v 0 0 0\nv 1 0 0\nf 1 2\n", "[bad.obj: 3]"},
		{"Zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "[bad.obj: 4]"},
		{"Missing normal", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//1 2//1 3//1\n", "[bad.obj: 4]"},
		{"No faces", "v 0 0 0\n", "no faces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseOBJ(strings.NewReader(tt.source), "bad.obj")
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestLoadOBJ_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	vertices, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	if len(vertices) != 3 {
		t.Errorf("Expected 3 vertices, got %d", len(vertices))
	}

	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("Expected error for a missing file")
	}
}
