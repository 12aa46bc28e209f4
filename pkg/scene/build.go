package scene

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"sort"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/loaders"
	"github.com/df07/go-weekend-raytracer/pkg/log"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

var logger = log.New("scene")

// Defaults for fields a description leaves unset
const (
	defaultAspectRatio = 16.0 / 9.0
	defaultVFov        = 40.0
	defaultIOR         = 1.5
)

// Scene is a built description: immutable geometry plus everything needed to render it
type Scene struct {
	Name       string
	World      geometry.Hittable
	Background integrator.Background
	Camera     renderer.CameraConfig
	Config     renderer.Config
	Objects    int // top-level objects, after optional ones were skipped
}

// BuildOptions controls how a description is turned into a scene
type BuildOptions struct {
	AssetDir string // base for relative image and mesh paths
	Seed     int64  // seeds the Perlin generators of noise textures
}

// SetImageSize changes the output resolution, keeping the camera's aspect ratio in sync
func (s *Scene) SetImageSize(width int, aspectRatio float64) {
	if aspectRatio <= 0 {
		aspectRatio = s.Camera.AspectRatio
	}
	s.Config.Width = width
	s.Config.Height = imageHeight(width, aspectRatio)
	s.Camera.AspectRatio = aspectRatio
}

// NewRaytracer wires the scene into a path tracing integrator and camera
func (s *Scene) NewRaytracer(renderLogger log.Logger) *renderer.Raytracer {
	pathTracer := integrator.NewPathTracingIntegrator(s.World, s.Background, s.Config.MaxDepth)
	return renderer.NewRaytracer(pathTracer, renderer.NewCamera(s.Camera), s.Config, renderLogger)
}

type builder struct {
	opts      BuildOptions
	random    *rand.Rand
	textures  map[string]material.Texture
	materials map[string]material.Material
	time0     float64
	time1     float64
}

// Build resolves the description's names, loads its assets and assembles the world.
// It fails on unknown names or types, missing required fields, unreadable assets and
// an empty object list.
func Build(desc *Description, opts BuildOptions) (*Scene, error) {
	config, aspectRatio := renderConfig(desc.Render)
	camera := cameraConfig(desc.Camera, aspectRatio)

	b := &builder{
		opts:      opts,
		random:    rand.New(rand.NewSource(opts.Seed)),
		textures:  make(map[string]material.Texture),
		materials: make(map[string]material.Material),
		time0:     camera.Time0,
		time1:     camera.Time1,
	}

	if err := b.buildTextures(desc.Textures); err != nil {
		return nil, err
	}
	if err := b.buildMaterials(desc.Materials); err != nil {
		return nil, err
	}
	objects, err := b.buildObjects(desc.Objects, "objects")
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("scene %q has no objects", desc.Name)
	}
	background, err := b.buildBackground(desc)
	if err != nil {
		return nil, err
	}

	var world geometry.Hittable
	if desc.BVH {
		bvh := geometry.NewBVH(objects, b.time0, b.time1)
		stats := bvh.Stats()
		logger.Debugf("scene %s: BVH over %d objects, %d nodes, depth %d", desc.Name, stats.Primitives, stats.Nodes, stats.MaxDepth)
		world = bvh
	} else {
		world = geometry.NewHittableList(objects...)
	}

	logger.Infof("built scene %s: %d objects, %d materials, %d textures",
		desc.Name, len(objects), len(b.materials), len(b.textures))
	return &Scene{
		Name:       desc.Name,
		World:      world,
		Background: background,
		Camera:     camera,
		Config:     config,
		Objects:    len(objects),
	}, nil
}

func imageHeight(width int, aspectRatio float64) int {
	height := int(float64(width) / aspectRatio)
	if height < 1 {
		height = 1
	}
	return height
}

func renderConfig(render RenderDescription) (renderer.Config, float64) {
	config := renderer.DefaultConfig()
	aspectRatio := render.AspectRatio
	if aspectRatio <= 0 {
		aspectRatio = defaultAspectRatio
	}
	if render.Width > 0 {
		config.Width = render.Width
	}
	config.Height = imageHeight(config.Width, aspectRatio)
	if render.SamplesPerPixel > 0 {
		config.SamplesPerPixel = render.SamplesPerPixel
	}
	if render.MaxDepth > 0 {
		config.MaxDepth = render.MaxDepth
	}
	return config, aspectRatio
}

// cameraConfig fills in the defaults: up is +y, a 40 degree field of view and a
// shutter open over [0, 1] when no interval is given
func cameraConfig(camera CameraDescription, aspectRatio float64) renderer.CameraConfig {
	config := renderer.CameraConfig{
		LookFrom:      camera.LookFrom.Vec(),
		LookAt:        camera.LookAt.Vec(),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          camera.VFov,
		AspectRatio:   aspectRatio,
		Aperture:      camera.Aperture,
		FocusDistance: camera.FocusDistance,
		Time0:         camera.Time0,
		Time1:         camera.Time1,
	}
	if camera.Up != nil {
		config.Up = camera.Up.Vec()
	}
	if config.VFov <= 0 {
		config.VFov = defaultVFov
	}
	if config.Time0 == 0 && config.Time1 == 0 {
		config.Time1 = 1
	}
	return config
}

// sortedKeys gives textures a stable build order so noise generators are reproducible per seed
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (b *builder) assetPath(path string) string {
	if filepath.IsAbs(path) || b.opts.AssetDir == "" {
		return path
	}
	return filepath.Join(b.opts.AssetDir, path)
}

func (b *builder) buildTextures(textures map[string]TextureDescription) error {
	for _, name := range sortedKeys(textures) {
		texture, err := b.buildTexture(name, textures[name])
		if err != nil {
			return fmt.Errorf("texture %q: %w", name, err)
		}
		b.textures[name] = texture
	}
	return nil
}

func (b *builder) buildTexture(name string, desc TextureDescription) (material.Texture, error) {
	switch desc.Type {
	case "solid":
		if desc.Color == nil {
			return nil, fmt.Errorf("solid texture needs a color")
		}
		return material.NewSolidColor(desc.Color.Vec()), nil

	case "checker":
		if desc.Odd == nil || desc.Even == nil {
			return nil, fmt.Errorf("checker texture needs odd and even colors")
		}
		return material.NewCheckerColors(desc.Odd.Vec(), desc.Even.Vec()), nil

	case "image":
		if desc.Path == "" {
			return nil, fmt.Errorf("image texture needs a path")
		}
		image, err := loaders.LoadImage(b.assetPath(desc.Path))
		if err != nil {
			if desc.Optional {
				logger.Warningf("texture %s: %v; rendering it as the debug color", name, err)
				return material.NewImageTexture(0, 0, nil), nil
			}
			return nil, err
		}
		return image.Texture(), nil

	case "noise":
		scale := desc.Scale
		if scale == 0 {
			scale = 1
		}
		return material.NewNoiseTexture(scale, b.random), nil

	case "perlin_brdf":
		scale := desc.Scale
		if scale == 0 {
			scale = 1
		}
		base := core.NewVec3(1, 1, 1)
		if desc.Color != nil {
			base = desc.Color.Vec()
		}
		return material.NewPerlinBRDFTexture(scale, base, b.random), nil

	default:
		return nil, fmt.Errorf("unknown texture type %q", desc.Type)
	}
}

func (b *builder) buildMaterials(materials map[string]MaterialDescription) error {
	for _, name := range sortedKeys(materials) {
		mat, err := b.buildMaterial(materials[name])
		if err != nil {
			return fmt.Errorf("material %q: %w", name, err)
		}
		b.materials[name] = mat
	}
	return nil
}

// albedo resolves a material's color source, preferring a named texture
func (b *builder) albedo(desc MaterialDescription) (material.Texture, error) {
	if desc.Texture != "" {
		return b.texture(desc.Texture)
	}
	if desc.Color == nil {
		return nil, fmt.Errorf("%s needs a color or a texture", desc.Type)
	}
	return material.NewSolidColor(desc.Color.Vec()), nil
}

func (b *builder) texture(name string) (material.Texture, error) {
	texture, ok := b.textures[name]
	if !ok {
		return nil, fmt.Errorf("unknown texture %q", name)
	}
	return texture, nil
}

func (b *builder) buildMaterial(desc MaterialDescription) (material.Material, error) {
	switch desc.Type {
	case "lambertian", "diffuse_light", "sky", "brdf", "isotropic":
		albedo, err := b.albedo(desc)
		if err != nil {
			return nil, err
		}
		solid := desc.Texture == ""
		switch desc.Type {
		case "lambertian":
			if solid {
				return material.NewLambertian(desc.Color.Vec()), nil
			}
			return material.NewTexturedLambertian(albedo), nil
		case "diffuse_light":
			if solid {
				return material.NewDiffuseLight(desc.Color.Vec()), nil
			}
			return material.NewTexturedDiffuseLight(albedo), nil
		case "sky":
			if solid {
				return material.NewSkyColor(desc.Color.Vec()), nil
			}
			return material.NewSky(albedo), nil
		case "brdf":
			return material.NewBRDF(albedo), nil
		default:
			return material.NewTexturedIsotropic(albedo), nil
		}

	case "metal":
		if desc.Color == nil {
			return nil, fmt.Errorf("metal needs a color")
		}
		return material.NewMetal(desc.Color.Vec(), desc.Fuzz), nil

	case "dielectric":
		ior := desc.IOR
		if ior == 0 {
			ior = defaultIOR
		}
		return material.NewDielectric(ior), nil

	default:
		return nil, fmt.Errorf("unknown material type %q", desc.Type)
	}
}

func (b *builder) buildBackground(desc *Description) (integrator.Background, error) {
	if desc.SkyBox != nil {
		names := [6]string{
			geometry.SkyBack:   desc.SkyBox.Back,
			geometry.SkyFront:  desc.SkyBox.Front,
			geometry.SkyTop:    desc.SkyBox.Top,
			geometry.SkyBottom: desc.SkyBox.Bottom,
			geometry.SkyRight:  desc.SkyBox.Right,
			geometry.SkyLeft:   desc.SkyBox.Left,
		}
		var faces [6]material.Material
		for i, name := range names {
			texture, err := b.texture(name)
			if err != nil {
				return nil, fmt.Errorf("skybox: %w", err)
			}
			faces[i] = material.NewSky(texture)
		}
		if desc.Background != nil {
			logger.Debugf("scene %s: skybox replaces the flat background", desc.Name)
		}
		return integrator.NewSkyBoxBackground(geometry.NewSkyBox(faces)), nil
	}

	if desc.Background != nil {
		return integrator.NewFlatBackground(desc.Background.Vec()), nil
	}
	return integrator.NewFlatBackground(core.Vec3{}), nil
}

func (b *builder) buildObjects(objects []ObjectDescription, where string) ([]geometry.Hittable, error) {
	hittables := make([]geometry.Hittable, 0, len(objects))
	for i, object := range objects {
		hittable, err := b.buildObject(object, fmt.Sprintf("%s[%d]", where, i), true)
		if err != nil {
			return nil, err
		}
		if hittable != nil {
			hittables = append(hittables, hittable)
		}
	}
	return hittables, nil
}

// material resolves an object's material. Medium boundaries may leave it empty.
func (b *builder) material(object ObjectDescription, required bool) (material.Material, error) {
	if object.Material == "" {
		if required {
			return nil, fmt.Errorf("%s needs a material", object.Type)
		}
		return nil, nil
	}
	mat, ok := b.materials[object.Material]
	if !ok {
		return nil, fmt.Errorf("unknown material %q", object.Material)
	}
	return mat, nil
}

// buildObject returns nil without an error for an optional mesh whose file is missing
func (b *builder) buildObject(object ObjectDescription, where string, materialRequired bool) (geometry.Hittable, error) {
	hittable, err := b.buildShape(object, where, materialRequired)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	if hittable == nil || object.Type == "mesh" {
		return hittable, nil
	}

	if object.RotateY != 0 {
		hittable = geometry.NewRotateY(hittable, object.RotateY)
	}
	if object.Translate != nil {
		hittable = geometry.NewTranslate(hittable, object.Translate.Vec())
	}
	return hittable, nil
}

func (b *builder) buildShape(object ObjectDescription, where string, materialRequired bool) (geometry.Hittable, error) {
	switch object.Type {
	case "medium":
		return b.buildMedium(object)
	case "group":
		return b.buildGroup(object)
	}

	mat, err := b.material(object, materialRequired)
	if err != nil {
		return nil, err
	}

	switch object.Type {
	case "sphere", "inner_sphere":
		if object.Center == nil || object.Radius <= 0 {
			return nil, fmt.Errorf("%s needs a center and a positive radius", object.Type)
		}
		if object.Type == "inner_sphere" {
			return geometry.NewInnerSphere(object.Center.Vec(), object.Radius, mat), nil
		}
		return geometry.NewSphere(object.Center.Vec(), object.Radius, mat), nil

	case "moving_sphere":
		if object.Center == nil || object.Center1 == nil || object.Radius <= 0 {
			return nil, fmt.Errorf("moving_sphere needs center, center1 and a positive radius")
		}
		time0, time1 := object.Time0, object.Time1
		if time0 == time1 {
			time0, time1 = b.time0, b.time1
		}
		return geometry.NewMovingSphere(object.Center.Vec(), object.Center1.Vec(), time0, time1, object.Radius, mat), nil

	case "triangle":
		if object.Vertices == nil {
			return nil, fmt.Errorf("triangle needs three vertices")
		}
		v := object.Vertices
		triangle := geometry.NewTriangle(v[0].Vec(), v[1].Vec(), v[2].Vec(), mat)
		if triangle.IsDegenerate() {
			return nil, fmt.Errorf("triangle has zero area")
		}
		return triangle, nil

	case "xy_rect", "xz_rect", "yz_rect":
		if object.Bounds == nil {
			return nil, fmt.Errorf("%s needs bounds", object.Type)
		}
		r := object.Bounds
		switch object.Type {
		case "xy_rect":
			return geometry.NewXYRect(r[0], r[1], r[2], r[3], object.K, mat), nil
		case "xz_rect":
			return geometry.NewXZRect(r[0], r[1], r[2], r[3], object.K, mat), nil
		default:
			return geometry.NewYZRect(r[0], r[1], r[2], r[3], object.K, mat), nil
		}

	case "box":
		if object.Min == nil || object.Max == nil {
			return nil, fmt.Errorf("box needs min and max corners")
		}
		return geometry.NewBox(object.Min.Vec(), object.Max.Vec(), mat), nil

	case "mesh":
		return b.buildMesh(object, mat, where)

	default:
		return nil, fmt.Errorf("unknown object type %q", object.Type)
	}
}

func (b *builder) buildMesh(object ObjectDescription, mat material.Material, where string) (geometry.Hittable, error) {
	if object.Path == "" {
		return nil, fmt.Errorf("mesh needs a path")
	}
	vertices, err := loaders.LoadMesh(b.assetPath(object.Path))
	if err != nil {
		if object.Optional {
			logger.Warningf("%s: skipping optional mesh: %v", where, err)
			return nil, nil
		}
		return nil, err
	}

	transform := geometry.IdentityMeshTransform()
	if object.Scale != nil {
		transform.Scale = object.Scale.Vec()
	}
	transform.RotateY = object.RotateY
	if object.Translate != nil {
		transform.Translate = object.Translate.Vec()
	}

	mesh, err := geometry.NewTriangleMesh(vertices, mat, transform)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", object.Path, err)
	}
	stats := mesh.Stats()
	logger.Debugf("%s: mesh %s with %d triangles (%d degenerate skipped), BVH depth %d",
		where, object.Path, mesh.Triangles, mesh.Skipped, stats.MaxDepth)
	return mesh, nil
}

func (b *builder) buildMedium(object ObjectDescription) (geometry.Hittable, error) {
	if object.Boundary == nil {
		return nil, fmt.Errorf("medium needs a boundary")
	}
	boundary, err := b.buildObject(*object.Boundary, "boundary", false)
	if err != nil {
		return nil, err
	}
	if boundary == nil {
		return nil, fmt.Errorf("medium boundary was skipped")
	}

	if object.Texture != "" {
		texture, err := b.texture(object.Texture)
		if err != nil {
			return nil, err
		}
		return geometry.NewTexturedConstantMedium(boundary, object.Density, texture), nil
	}
	if object.Color == nil {
		return nil, fmt.Errorf("medium needs a color or a texture")
	}
	return geometry.NewConstantMedium(boundary, object.Density, object.Color.Vec()), nil
}

func (b *builder) buildGroup(object ObjectDescription) (geometry.Hittable, error) {
	children, err := b.buildObjects(object.Children, "children")
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("group has no children")
	}
	if object.BVH {
		return geometry.NewBVH(children, b.time0, b.time1), nil
	}
	return geometry.NewHittableList(children...), nil
}
