package scene

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func TestBuiltin_AllBuild(t *testing.T) {
	// Without assets, optional meshes are skipped and optional images render as the debug color
	assets := t.TempDir()
	for _, name := range BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			desc, err := Builtin(name, 42)
			if err != nil {
				t.Fatalf("Builtin failed: %v", err)
			}
			if desc.Name != name {
				t.Errorf("Expected description name %q, got %q", name, desc.Name)
			}

			s, err := Build(desc, BuildOptions{AssetDir: assets, Seed: 42})
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if s.Objects == 0 || s.Config.Width <= 0 || s.Config.Height <= 0 {
				t.Errorf("Unexpected scene: %d objects at %dx%d", s.Objects, s.Config.Width, s.Config.Height)
			}

			// The camera looks at something or at the background without failing
			ray := core.NewRay(s.Camera.LookFrom, s.Camera.LookAt.Subtract(s.Camera.LookFrom))
			if hit, ok := s.World.Hit(ray, 0.001, math.Inf(1), core.NewSeededSampler(1)); ok && hit.Material == nil {
				t.Error("Expected every visible surface to carry a material")
			}
		})
	}
}

func TestBuiltin_Unknown(t *testing.T) {
	if _, err := Builtin("teapot", 1); err == nil {
		t.Error("Expected an error for an unknown scene")
	}
}

func TestBuiltin_RandomSpheresIsSeeded(t *testing.T) {
	a, _ := Builtin("random-spheres", 5)
	b, _ := Builtin("random-spheres", 5)
	c, _ := Builtin("random-spheres", 6)

	if !reflect.DeepEqual(a, b) {
		t.Error("Expected identical descriptions for identical seeds")
	}
	if reflect.DeepEqual(a, c) {
		t.Error("Expected different seeds to place spheres differently")
	}

	// Ground, up to 22x22 small spheres and the three large ones
	if n := len(a.Objects); n < 4 || n > 1+22*22+3 {
		t.Errorf("Unexpected object count %d", n)
	}
	for _, object := range a.Objects[1 : len(a.Objects)-3] {
		if object.Radius != 0.2 {
			t.Fatalf("Expected small spheres of radius 0.2, got %v", object.Radius)
		}
		center := object.Center.Vec()
		if center.Subtract(core.NewVec3(4, 0.2, 0)).Length() <= 0.9 {
			t.Fatalf("Sphere at %v overlaps the large metal sphere", center)
		}
	}
}

func TestBuiltin_CornellBoxWithMesh(t *testing.T) {
	assets := t.TempDir()
	if err := os.MkdirAll(filepath.Join(assets, "models"), 0o755); err != nil {
		t.Fatal(err)
	}
	tetrahedron := "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 0 0 1\nf 1 3 2\nf 1 2 4\nf 1 4 3\nf 2 3 4\n"
	if err := os.WriteFile(filepath.Join(assets, "models", "bunny2.obj"), []byte(tetrahedron), 0o644); err != nil {
		t.Fatal(err)
	}

	desc, err := Builtin("cornell-box", 1)
	if err != nil {
		t.Fatal(err)
	}
	withMesh, err := Build(desc, BuildOptions{AssetDir: assets})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	withoutMesh, err := Build(desc, BuildOptions{AssetDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if withMesh.Objects != withoutMesh.Objects+1 {
		t.Errorf("Expected the mesh to add one object: %d vs %d", withMesh.Objects, withoutMesh.Objects)
	}
}

func TestDescription_JSON(t *testing.T) {
	desc, err := Builtin("final", 3)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "final.json")
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadDescription(path)
	if err != nil {
		t.Fatalf("LoadDescription failed: %v", err)
	}
	if !reflect.DeepEqual(desc, loaded) {
		t.Error("Expected the loaded description to match the written one")
	}
}

func TestLoadDescription_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadDescription(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected an error for a missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"name": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDescription(bad); err == nil {
		t.Error("Expected an error for a mistyped field")
	}
}
