package scene

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// testDescription is a red sphere at the origin seen from +z against a flat background
func testDescription() *Description {
	return &Description{
		Name:       "test",
		Camera:     CameraDescription{LookFrom: Triple{0, 0, 5}},
		Render:     RenderDescription{Width: 20, AspectRatio: 2, SamplesPerPixel: 4, MaxDepth: 3},
		Background: triple(0.5, 0.5, 0.5),
		Materials: map[string]MaterialDescription{
			"red": lambertian(1, 0, 0),
		},
		Objects: []ObjectDescription{sphere("red", 0, 0, 0, 1)},
	}
}

func TestBuild_Basic(t *testing.T) {
	s, err := Build(testDescription(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if s.Name != "test" || s.Objects != 1 {
		t.Errorf("Expected scene 'test' with 1 object, got %q with %d", s.Name, s.Objects)
	}
	if s.Config.Width != 20 || s.Config.Height != 10 {
		t.Errorf("Expected 20x10, got %dx%d", s.Config.Width, s.Config.Height)
	}
	if s.Config.SamplesPerPixel != 4 || s.Config.MaxDepth != 3 {
		t.Errorf("Expected spp 4 and depth 3, got %d and %d", s.Config.SamplesPerPixel, s.Config.MaxDepth)
	}
	if s.Camera.AspectRatio != 2 || s.Camera.VFov != defaultVFov {
		t.Errorf("Expected aspect 2 and vfov %v, got %v and %v", defaultVFov, s.Camera.AspectRatio, s.Camera.VFov)
	}
	if s.Camera.Up != core.NewVec3(0, 1, 0) || s.Camera.Time0 != 0 || s.Camera.Time1 != 1 {
		t.Errorf("Unexpected camera defaults: up %v, shutter [%v, %v]", s.Camera.Up, s.Camera.Time0, s.Camera.Time1)
	}

	hit, ok := s.World.Hit(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil)
	if !ok || math.Abs(hit.T-4) > 1e-9 {
		t.Fatalf("Expected to hit the sphere at t=4, got %v %v", hit, ok)
	}
	if _, ok := hit.Material.(*material.Lambertian); !ok {
		t.Errorf("Expected a lambertian material, got %T", hit.Material)
	}

	if got := s.Background.Radiance(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), nil); got != core.NewVec3(0.5, 0.5, 0.5) {
		t.Errorf("Expected gray background, got %v", got)
	}
}

func TestBuild_Defaults(t *testing.T) {
	desc := &Description{
		Materials: map[string]MaterialDescription{"glass": {Type: "dielectric"}},
		Objects:   []ObjectDescription{sphere("glass", 0, 0, 0, 1)},
	}
	s, err := Build(desc, BuildOptions{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if s.Config.Width != 400 || s.Config.Height != 225 {
		t.Errorf("Expected the default 400x225, got %dx%d", s.Config.Width, s.Config.Height)
	}
	if s.Config.SamplesPerPixel != 100 || s.Config.MaxDepth != 50 {
		t.Errorf("Expected default spp 100 and depth 50, got %d and %d", s.Config.SamplesPerPixel, s.Config.MaxDepth)
	}
	if got := s.Background.Radiance(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), nil); got != (core.Vec3{}) {
		t.Errorf("Expected a black background, got %v", got)
	}

	hit, ok := s.World.Hit(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil)
	if !ok {
		t.Fatal("Expected to hit the sphere")
	}
	if dielectric, ok := hit.Material.(*material.Dielectric); !ok || dielectric.RefractiveIndex != defaultIOR {
		t.Errorf("Expected a dielectric with ior %v, got %#v", defaultIOR, hit.Material)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(d *Description)
		contains string
	}{
		{"No objects", func(d *Description) { d.Objects = nil }, "no objects"},
		{"Unknown material", func(d *Description) { d.Objects[0].Material = "blue" }, `objects[0]: unknown material "blue"`},
		{"Missing material", func(d *Description) { d.Objects[0].Material = "" }, "sphere needs a material"},
		{"Unknown object type", func(d *Description) { d.Objects[0].Type = "torus" }, `unknown object type "torus"`},
		{"Unknown material type", func(d *Description) {
			d.Materials["red"] = MaterialDescription{Type: "velvet"}
		}, `material "red": unknown material type "velvet"`},
		{"Unknown texture", func(d *Description) {
			d.Materials["red"] = texturedLambertian("missing")
		}, `unknown texture "missing"`},
		{"Unknown texture type", func(d *Description) {
			d.Textures = map[string]TextureDescription{"wood": {Type: "wood"}}
		}, `texture "wood": unknown texture type "wood"`},
		{"Material without color", func(d *Description) {
			d.Materials["red"] = MaterialDescription{Type: "lambertian"}
		}, "lambertian needs a color or a texture"},
		{"Sphere without radius", func(d *Description) { d.Objects[0].Radius = 0 }, "positive radius"},
		{"Degenerate triangle", func(d *Description) {
			d.Objects = append(d.Objects, ObjectDescription{
				Type: "triangle", Material: "red", Vertices: &[3]Triple{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}},
			})
		}, "objects[1]: triangle has zero area"},
		{"Rect without bounds", func(d *Description) {
			d.Objects = append(d.Objects, ObjectDescription{Type: "xy_rect", Material: "red"})
		}, "xy_rect needs bounds"},
		{"Medium without boundary", func(d *Description) {
			d.Objects = append(d.Objects, ObjectDescription{Type: "medium", Density: 1, Color: triple(1, 1, 1)})
		}, "medium needs a boundary"},
		{"Empty group", func(d *Description) {
			d.Objects = append(d.Objects, ObjectDescription{Type: "group"})
		}, "objects[1]: group has no children"},
		{"Nested error", func(d *Description) {
			d.Objects = append(d.Objects, ObjectDescription{Type: "group", Children: []ObjectDescription{
				sphere("red", 0, 0, 0, 1), sphere("nope", 0, 0, 0, 1),
			}})
		}, `objects[1]: children[1]: unknown material "nope"`},
		{"Missing required mesh", func(d *Description) {
			d.Objects = append(d.Objects, ObjectDescription{Type: "mesh", Material: "red", Path: "missing.obj"})
		}, "objects[1]"},
		{"Missing required image", func(d *Description) {
			d.Textures = map[string]TextureDescription{"photo": {Type: "image", Path: "missing.png"}}
		}, `texture "photo"`},
		{"Unknown skybox texture", func(d *Description) {
			d.SkyBox = &SkyBoxDescription{Front: "sky"}
		}, `skybox: unknown texture`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := testDescription()
			tt.modify(desc)
			_, err := Build(desc, BuildOptions{AssetDir: t.TempDir()})
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing %q, got %q", tt.contains, err.Error())
			}
		})
	}
}

func TestBuild_Transforms(t *testing.T) {
	desc := testDescription()
	// A unit box at the origin turned 90 degrees and moved 10 units along x
	b := box("red", triple(0, 0, 0), triple(1, 1, 2))
	b.RotateY = 90
	b.Translate = triple(10, 0, 0)
	desc.Objects = []ObjectDescription{b}

	s, err := Build(desc, BuildOptions{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Rotating by 90 degrees maps the box's z extent [0, 2] onto x [0, 2]
	hit, ok := s.World.Hit(core.NewRay(core.NewVec3(11.5, 0.5, 10), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil)
	if !ok {
		t.Fatal("Expected to hit the transformed box")
	}
	if math.Abs(hit.Point.Z) > 1e-9 {
		t.Errorf("Expected the hit on the z=0 face, got %v", hit.Point)
	}
	if _, ok := s.World.Hit(core.NewRay(core.NewVec3(0.5, 0.5, 10), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil); ok {
		t.Error("Expected the untransformed location to be empty")
	}
}

func TestBuild_GroupsAndMedia(t *testing.T) {
	desc := testDescription()
	boundary := box("", triple(-1, -1, -1), triple(1, 1, 1))
	boundary.Translate = triple(0, 10, 0)
	desc.Objects = append(desc.Objects,
		ObjectDescription{Type: "group", BVH: true, Children: []ObjectDescription{
			sphere("red", 5, 0, 0, 1),
			sphere("red", -5, 0, 0, 1),
		}},
		ObjectDescription{Type: "medium", Boundary: &boundary, Density: math.Inf(1), Color: triple(1, 1, 1)},
	)
	desc.BVH = true

	s, err := Build(desc, BuildOptions{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.Objects != 3 {
		t.Errorf("Expected 3 top-level objects, got %d", s.Objects)
	}
	if _, ok := s.World.(*geometry.BVH); !ok {
		t.Errorf("Expected a BVH world, got %T", s.World)
	}

	if _, ok := s.World.Hit(core.NewRay(core.NewVec3(-5, 0, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil); !ok {
		t.Error("Expected to hit a sphere in the group")
	}

	// An infinitely dense medium scatters where the ray enters its boundary
	sampler := core.NewSeededSampler(42)
	hit, ok := s.World.Hit(core.NewRay(core.NewVec3(0, 10, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), sampler)
	if !ok || math.Abs(hit.T-4) > 1e-9 {
		t.Fatalf("Expected a medium hit at t=4, got %v %v", hit, ok)
	}
	if _, ok := hit.Material.(*material.Isotropic); !ok {
		t.Errorf("Expected an isotropic phase function, got %T", hit.Material)
	}
}

func TestBuild_Meshes(t *testing.T) {
	dir := t.TempDir()
	obj := "v -1 -1 0\nv 1 -1 0\nv 0 1 0\nf 1 2 3\n"
	if err := os.MkdirAll(filepath.Join(dir, "models"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "models", "tri.obj"), []byte(obj), 0o644); err != nil {
		t.Fatal(err)
	}

	desc := testDescription()
	desc.Objects = []ObjectDescription{
		meshObject("models/tri.obj", "red", triple(0, 0, -3), 0, 2),
		meshObject("models/absent.obj", "red", nil, 0, 1),
	}

	s, err := Build(desc, BuildOptions{AssetDir: dir})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.Objects != 1 {
		t.Errorf("Expected the optional missing mesh to be skipped, got %d objects", s.Objects)
	}

	// Scaled by 2 and pushed back to z=-3
	hit, ok := s.World.Hit(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil)
	if !ok || math.Abs(hit.T-8) > 1e-9 {
		t.Fatalf("Expected to hit the mesh at t=8, got %v %v", hit, ok)
	}
	if _, ok := s.World.Hit(core.NewRay(core.NewVec3(1.5, -1.5, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil); !ok {
		t.Error("Expected the scaled triangle to cover (1.5, -1.5)")
	}
}

func TestBuild_OptionalImage(t *testing.T) {
	desc := testDescription()
	desc.Textures = map[string]TextureDescription{
		"photo": {Type: "image", Path: "missing.png", Optional: true},
	}
	desc.Materials["red"] = texturedLambertian("photo")

	s, err := Build(desc, BuildOptions{AssetDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	hit, ok := s.World.Hit(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil)
	if !ok {
		t.Fatal("Expected to hit the sphere")
	}
	albedo := hit.Material.(*material.Lambertian).Albedo.Evaluate(hit.UV, hit.Point)
	if albedo != core.NewVec3(0, 1, 1) {
		t.Errorf("Expected the cyan debug color, got %v", albedo)
	}
}

func TestBuild_SkyBox(t *testing.T) {
	s, err := Build(skybox(nil), BuildOptions{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, ok := s.Background.(*integrator.SkyBoxBackground); !ok {
		t.Fatalf("Expected a skybox background, got %T", s.Background)
	}

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"Up", core.NewVec3(0, 1, 0), core.NewVec3(0.45, 0.65, 1.00)},
		{"Down", core.NewVec3(0, -1, 0), core.NewVec3(0.30, 0.30, 0.30)},
		{"Sideways", core.NewVec3(1, 0.1, 0), core.NewVec3(0.85, 0.90, 1.00)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The origin is far outside the cube; only the direction matters
			ray := core.NewRay(core.NewVec3(100, 50, -30), tt.direction)
			if got := s.Background.Radiance(ray, nil); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestBuild_SkyBoxFaces(t *testing.T) {
	desc := testDescription()
	desc.Background = nil
	desc.Textures = map[string]TextureDescription{}
	faces := []struct {
		name      string
		direction core.Vec3
	}{
		{"front", core.NewVec3(0, 0, -1)},
		{"back", core.NewVec3(0, 0, 1)},
		{"top", core.NewVec3(0, 1, 0)},
		{"bottom", core.NewVec3(0, -1, 0)},
		{"right", core.NewVec3(1, 0, 0)},
		{"left", core.NewVec3(-1, 0, 0)},
	}
	for i, face := range faces {
		desc.Textures[face.name] = TextureDescription{Type: "solid", Color: triple(float64(i+1)/10, 0, 0)}
	}
	desc.SkyBox = &SkyBoxDescription{Front: "front", Back: "back", Top: "top", Bottom: "bottom", Right: "right", Left: "left"}

	s, err := Build(desc, BuildOptions{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i, face := range faces {
		t.Run(face.name, func(t *testing.T) {
			expected := core.NewVec3(float64(i+1)/10, 0, 0)
			if got := s.Background.Radiance(core.NewRay(core.Vec3{}, face.direction), nil); got != expected {
				t.Errorf("Expected %v, got %v", expected, got)
			}
		})
	}
}

func TestBuild_NoiseIsSeeded(t *testing.T) {
	build := func(seed int64) core.Vec3 {
		desc := testDescription()
		desc.Textures = map[string]TextureDescription{"noise": {Type: "noise", Scale: 4}}
		desc.Materials["red"] = texturedLambertian("noise")
		s, err := Build(desc, BuildOptions{Seed: seed})
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		hit, ok := s.World.Hit(core.NewRay(core.NewVec3(0.3, 0.2, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil)
		if !ok {
			t.Fatal("Expected to hit the sphere")
		}
		return hit.Material.(*material.Lambertian).Albedo.Evaluate(hit.UV, hit.Point)
	}

	if build(7) != build(7) {
		t.Error("Expected identical noise for identical seeds")
	}
}

func TestScene_SetImageSize(t *testing.T) {
	s, err := Build(testDescription(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	s.SetImageSize(300, 1.5)
	if s.Config.Width != 300 || s.Config.Height != 200 || s.Camera.AspectRatio != 1.5 {
		t.Errorf("Expected 300x200 at 1.5, got %dx%d at %v", s.Config.Width, s.Config.Height, s.Camera.AspectRatio)
	}

	// A zero aspect ratio keeps the current one
	s.SetImageSize(60, 0)
	if s.Config.Width != 60 || s.Config.Height != 40 {
		t.Errorf("Expected 60x40, got %dx%d", s.Config.Width, s.Config.Height)
	}
}

func TestScene_NewRaytracer(t *testing.T) {
	desc := testDescription()
	desc.Render = RenderDescription{Width: 8, AspectRatio: 2, SamplesPerPixel: 1, MaxDepth: 2}
	s, err := Build(desc, BuildOptions{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	framebuffer, stats := s.NewRaytracer(nil).Render()
	if framebuffer.Width != 8 || framebuffer.Height != 4 {
		t.Errorf("Expected an 8x4 framebuffer, got %dx%d", framebuffer.Width, framebuffer.Height)
	}
	if stats.TotalPixels != 32 {
		t.Errorf("Expected 32 pixels, got %d", stats.TotalPixels)
	}
}
