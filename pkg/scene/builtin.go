package scene

import (
	"fmt"
	"math/rand"
)

type builtin struct {
	name    string
	summary string
	create  func(random *rand.Rand) *Description
}

var builtins = []builtin{
	{"random-spheres", "Ground checker with a field of random matte, metal and glass spheres", randomSpheres},
	{"showcase", "Glass shell, BRDF dragon, glass bunny and textured cow on a mirror floor", showcase},
	{"two-perlin-spheres", "Two marble spheres textured with Perlin turbulence", twoPerlinSpheres},
	{"earth", "A globe textured with an equirectangular earth map", earth},
	{"simple-light", "Marble spheres lit by an emissive sphere and rectangle", simpleLight},
	{"cornell-box", "Cornell box with two rotated boxes and a fuzzy metal bunny", cornellBox},
	{"cornell-smoke", "Cornell box with the two boxes replaced by smoke and fog", cornellSmoke},
	{"final", "Box field, volumes, motion blur, noise and an instanced sphere cluster", finalScene},
	{"skybox", "Three spheres under a colored environment cube", skybox},
}

// BuiltinNames returns the names accepted by Builtin, in listing order
func BuiltinNames() []string {
	names := make([]string, len(builtins))
	for i, b := range builtins {
		names[i] = b.name
	}
	return names
}

// Builtin returns the named demo description. Random placements are drawn from seed.
func Builtin(name string, seed int64) (*Description, error) {
	for _, b := range builtins {
		if b.name == name {
			desc := b.create(rand.New(rand.NewSource(seed)))
			desc.Name = name
			return desc, nil
		}
	}
	return nil, fmt.Errorf("unknown scene %q", name)
}

func skyBlue() *Triple {
	return triple(0.70, 0.80, 1.00)
}

func randomRange(random *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*random.Float64()
}

func lambertian(r, g, b float64) MaterialDescription {
	return MaterialDescription{Type: "lambertian", Color: triple(r, g, b)}
}

func texturedLambertian(texture string) MaterialDescription {
	return MaterialDescription{Type: "lambertian", Texture: texture}
}

func metal(r, g, b, fuzz float64) MaterialDescription {
	return MaterialDescription{Type: "metal", Color: triple(r, g, b), Fuzz: fuzz}
}

func glass() MaterialDescription {
	return MaterialDescription{Type: "dielectric", IOR: 1.5}
}

func light(intensity float64) MaterialDescription {
	return MaterialDescription{Type: "diffuse_light", Color: triple(intensity, intensity, intensity)}
}

func sphere(mat string, x, y, z, radius float64) ObjectDescription {
	return ObjectDescription{Type: "sphere", Material: mat, Center: triple(x, y, z), Radius: radius}
}

func rect(kind, mat string, a0, a1, b0, b1, k float64) ObjectDescription {
	return ObjectDescription{Type: kind, Material: mat, Bounds: &[4]float64{a0, a1, b0, b1}, K: k}
}

func box(mat string, lo, hi *Triple) ObjectDescription {
	return ObjectDescription{Type: "box", Material: mat, Min: lo, Max: hi}
}

func meshObject(path, mat string, translate *Triple, rotateY, scale float64) ObjectDescription {
	return ObjectDescription{
		Type:      "mesh",
		Material:  mat,
		Path:      path,
		Scale:     triple(scale, scale, scale),
		RotateY:   rotateY,
		Translate: translate,
		Optional:  true,
	}
}

func randomSpheres(random *rand.Rand) *Description {
	desc := &Description{
		Camera: CameraDescription{
			LookFrom: Triple{13, 2, 3},
			VFov:     20,
			Aperture: 0.1,
		},
		Render:     RenderDescription{Width: 1280, SamplesPerPixel: 100, MaxDepth: 50},
		Background: skyBlue(),
		Textures: map[string]TextureDescription{
			"checker": {Type: "checker", Odd: triple(0.2, 0.3, 0.1), Even: triple(0.9, 0.9, 0.9)},
		},
		Materials: map[string]MaterialDescription{
			"ground": texturedLambertian("checker"),
			"glass":  glass(),
			"brown":  lambertian(0.4, 0.2, 0.1),
			"bronze": metal(0.7, 0.6, 0.5, 0),
		},
		Objects: []ObjectDescription{sphere("ground", 0, -1000, 0, 1000)},
		BVH:     true,
	}

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMaterial := random.Float64()
			center := Triple{float64(a) + 0.9*random.Float64(), 0.2, float64(b) + 0.9*random.Float64()}
			if center.Vec().Subtract(Triple{4, 0.2, 0}.Vec()).Length() <= 0.9 {
				continue
			}

			name := fmt.Sprintf("sphere-%d-%d", a, b)
			switch {
			case chooseMaterial < 0.8:
				desc.Materials[name] = lambertian(
					random.Float64()*random.Float64(),
					random.Float64()*random.Float64(),
					random.Float64()*random.Float64(),
				)
				center1 := center
				center1[1] += randomRange(random, 0, 0.5)
				desc.Objects = append(desc.Objects, ObjectDescription{
					Type: "moving_sphere", Material: name,
					Center: &center, Center1: &center1, Time0: 0, Time1: 1, Radius: 0.2,
				})
			case chooseMaterial < 0.95:
				desc.Materials[name] = metal(
					randomRange(random, 0.5, 1),
					randomRange(random, 0.5, 1),
					randomRange(random, 0.5, 1),
					randomRange(random, 0, 0.5),
				)
				desc.Objects = append(desc.Objects, sphere(name, center[0], center[1], center[2], 0.2))
			default:
				desc.Objects = append(desc.Objects, sphere("glass", center[0], center[1], center[2], 0.2))
			}
		}
	}

	desc.Objects = append(desc.Objects,
		sphere("glass", 0, 1, 0, 1),
		sphere("brown", -4, 1, 0, 1),
		sphere("bronze", 4, 1, 0, 1),
	)
	return desc
}

func showcase(random *rand.Rand) *Description {
	return &Description{
		Camera:     CameraDescription{LookFrom: Triple{7, 3, 0}, VFov: 75},
		Render:     RenderDescription{Width: 1280, SamplesPerPixel: 100, MaxDepth: 25},
		Background: skyBlue(),
		Textures: map[string]TextureDescription{
			"spot":   {Type: "image", Path: "models/spot_texture.png", Optional: true},
			"marble": {Type: "perlin_brdf", Scale: 4},
		},
		Materials: map[string]MaterialDescription{
			"glass":  glass(),
			"mirror": metal(0.6, 0.6, 0.6, 0),
			"brdf":   {Type: "brdf", Texture: "marble"},
			"spot":   texturedLambertian("spot"),
		},
		Objects: []ObjectDescription{
			sphere("glass", 3, 1, 3, 0.8),
			{Type: "inner_sphere", Material: "glass", Center: triple(3, 1, 3), Radius: 0.6},
			meshObject("models/bunny4.obj", "glass", triple(4, 0, 0), 0, 0.4),
			rect("xz_rect", "mirror", -30, 30, -30, 30, 0),
			meshObject("models/dragon2.obj", "brdf", triple(-0.5, 0, -3), 80, 0.5),
			meshObject("models/spot_triangulated_good.obj", "spot", triple(0, 1, 5), -60, 1.5),
		},
		BVH: true,
	}
}

// perlinGround returns a marble texture and the "marble" material that uses it
func perlinGround(scale float64) (map[string]TextureDescription, map[string]MaterialDescription) {
	textures := map[string]TextureDescription{"noise": {Type: "noise", Scale: scale}}
	materials := map[string]MaterialDescription{"marble": texturedLambertian("noise")}
	return textures, materials
}

func twoPerlinSpheres(random *rand.Rand) *Description {
	textures, materials := perlinGround(4)
	return &Description{
		Camera:     CameraDescription{LookFrom: Triple{13, 2, 3}, VFov: 20},
		Background: skyBlue(),
		Textures:   textures,
		Materials:  materials,
		Objects: []ObjectDescription{
			sphere("marble", 0, -1000, 0, 1000),
			sphere("marble", 0, 2, 0, 2),
		},
	}
}

func earth(random *rand.Rand) *Description {
	return &Description{
		Camera:     CameraDescription{LookFrom: Triple{0, 0, 12}, VFov: 20},
		Background: skyBlue(),
		Textures: map[string]TextureDescription{
			"earth": {Type: "image", Path: "earthmap.jpg", Optional: true},
		},
		Materials: map[string]MaterialDescription{
			"earth": texturedLambertian("earth"),
		},
		Objects: []ObjectDescription{sphere("earth", 0, 0, 0, 2)},
	}
}

func simpleLight(random *rand.Rand) *Description {
	textures, materials := perlinGround(4)
	materials["light"] = light(4)
	return &Description{
		Camera: CameraDescription{
			LookFrom: Triple{26, 3, 6},
			LookAt:   Triple{0, 2, 0},
			VFov:     20,
		},
		Render:    RenderDescription{SamplesPerPixel: 400},
		Textures:  textures,
		Materials: materials,
		Objects: []ObjectDescription{
			sphere("marble", 0, -1000, 0, 1000),
			sphere("marble", 0, 2, 0, 2),
			sphere("light", 0, 7, 0, 2),
			rect("xy_rect", "light", 3, 5, 1, 3, -2),
		},
	}
}

// cornellCamera looks into the open side of the 555-unit box
var cornellCamera = CameraDescription{
	LookFrom: Triple{278, 278, -800},
	LookAt:   Triple{278, 278, 0},
	VFov:     40,
}

func cornellWalls(lightIntensity float64) map[string]MaterialDescription {
	return map[string]MaterialDescription{
		"red":   lambertian(0.65, 0.05, 0.05),
		"white": lambertian(0.73, 0.73, 0.73),
		"green": lambertian(0.12, 0.45, 0.15),
		"light": light(lightIntensity),
	}
}

func cornellShell(lamp ObjectDescription) []ObjectDescription {
	return []ObjectDescription{
		rect("yz_rect", "green", 0, 555, 0, 555, 555),
		rect("yz_rect", "red", 0, 555, 0, 555, 0),
		lamp,
		rect("xz_rect", "white", 0, 555, 0, 555, 555),
		rect("xz_rect", "white", 0, 555, 0, 555, 0),
		rect("xy_rect", "white", 0, 555, 0, 555, 555),
	}
}

func tallBox() ObjectDescription {
	b := box("white", triple(0, 0, 0), triple(165, 330, 165))
	b.RotateY = 15
	b.Translate = triple(265, 0, 295)
	return b
}

func shortBox() ObjectDescription {
	b := box("white", triple(0, 0, 0), triple(165, 165, 165))
	b.RotateY = -18
	b.Translate = triple(130, 0, 65)
	return b
}

func cornellBox(random *rand.Rand) *Description {
	materials := cornellWalls(15)
	materials["brushed"] = metal(0.8, 0.8, 0.9, 1.0)

	objects := cornellShell(rect("xz_rect", "light", 213, 343, 227, 332, 554))
	objects = append(objects,
		tallBox(),
		shortBox(),
		meshObject("models/bunny2.obj", "brushed", triple(380, 300, 340), 0, 20),
	)
	return &Description{
		Camera:    cornellCamera,
		Render:    RenderDescription{Width: 600, AspectRatio: 1, SamplesPerPixel: 200},
		Materials: materials,
		Objects:   objects,
		BVH:       true,
	}
}

func cornellSmoke(random *rand.Rand) *Description {
	tall, short := tallBox(), shortBox()
	objects := cornellShell(rect("xz_rect", "light", 113, 443, 127, 432, 554))
	objects = append(objects,
		ObjectDescription{Type: "medium", Boundary: &tall, Density: 0.01, Color: triple(0, 0, 0)},
		ObjectDescription{Type: "medium", Boundary: &short, Density: 0.01, Color: triple(1, 1, 1)},
	)
	return &Description{
		Camera:    cornellCamera,
		Render:    RenderDescription{Width: 600, AspectRatio: 1, SamplesPerPixel: 200},
		Materials: cornellWalls(7),
		Objects:   objects,
	}
}

func finalScene(random *rand.Rand) *Description {
	const boxesPerSide = 20
	boxes := ObjectDescription{Type: "group", BVH: true}
	for i := 0; i < boxesPerSide; i++ {
		for j := 0; j < boxesPerSide; j++ {
			const w = 100.0
			x0 := -1000.0 + float64(i)*w
			z0 := -1000.0 + float64(j)*w
			y1 := randomRange(random, 1, 101)
			boxes.Children = append(boxes.Children, box("ground", triple(x0, 0, z0), triple(x0+w, y1, z0+w)))
		}
	}

	cluster := ObjectDescription{Type: "group", BVH: true, RotateY: 15, Translate: triple(-100, 270, 395)}
	for j := 0; j < 1000; j++ {
		cluster.Children = append(cluster.Children, sphere("white",
			randomRange(random, 0, 165), randomRange(random, 0, 165), randomRange(random, 0, 165), 10))
	}

	subsurface := sphere("glass", 360, 150, 145, 70)
	fog := sphere("", 0, 0, 0, 5000)
	return &Description{
		Camera: CameraDescription{
			LookFrom: Triple{478, 278, -600},
			LookAt:   Triple{278, 278, 0},
			VFov:     40,
		},
		Render: RenderDescription{Width: 800, AspectRatio: 1, SamplesPerPixel: 100},
		Textures: map[string]TextureDescription{
			"earth": {Type: "image", Path: "earthmap.jpg", Optional: true},
			"noise": {Type: "noise", Scale: 0.1},
		},
		Materials: map[string]MaterialDescription{
			"ground":  lambertian(0.48, 0.83, 0.53),
			"light":   light(7),
			"orange":  lambertian(0.7, 0.3, 0.1),
			"glass":   glass(),
			"brushed": metal(0.8, 0.8, 0.9, 1.0),
			"earth":   texturedLambertian("earth"),
			"marble":  texturedLambertian("noise"),
			"white":   lambertian(0.73, 0.73, 0.73),
		},
		Objects: []ObjectDescription{
			boxes,
			rect("xz_rect", "light", 123, 423, 147, 412, 554),
			{
				Type: "moving_sphere", Material: "orange",
				Center: triple(400, 400, 200), Center1: triple(430, 400, 200), Time0: 0, Time1: 1, Radius: 50,
			},
			sphere("glass", 260, 150, 45, 50),
			sphere("brushed", 0, 150, 145, 50),
			subsurface,
			{Type: "medium", Boundary: &subsurface, Density: 0.2, Color: triple(0.2, 0.4, 0.9)},
			{Type: "medium", Boundary: &fog, Density: 0.0001, Color: triple(1, 1, 1)},
			sphere("earth", 400, 200, 400, 100),
			sphere("marble", 220, 280, 300, 80),
			cluster,
		},
	}
}

func skybox(random *rand.Rand) *Description {
	return &Description{
		Camera: CameraDescription{LookFrom: Triple{13, 2, 3}, VFov: 20},
		SkyBox: &SkyBoxDescription{
			Front: "horizon", Back: "horizon", Left: "horizon", Right: "horizon",
			Top: "zenith", Bottom: "nadir",
		},
		Textures: map[string]TextureDescription{
			"horizon": {Type: "solid", Color: triple(0.85, 0.90, 1.00)},
			"zenith":  {Type: "solid", Color: triple(0.45, 0.65, 1.00)},
			"nadir":   {Type: "solid", Color: triple(0.30, 0.30, 0.30)},
			"checker": {Type: "checker", Odd: triple(0.2, 0.3, 0.1), Even: triple(0.9, 0.9, 0.9)},
		},
		Materials: map[string]MaterialDescription{
			"ground": texturedLambertian("checker"),
			"glass":  glass(),
			"brown":  lambertian(0.4, 0.2, 0.1),
			"bronze": metal(0.7, 0.6, 0.5, 0),
		},
		Objects: []ObjectDescription{
			sphere("ground", 0, -1000, 0, 1000),
			sphere("glass", 0, 1, 0, 1),
			sphere("brown", -4, 1, 0, 1),
			sphere("bronze", 4, 1, 0, 1),
		},
	}
}
