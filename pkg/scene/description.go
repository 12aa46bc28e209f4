package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Triple is an (x, y, z) point, offset or RGB color
type Triple [3]float64

// Vec converts the triple to a vector
func (t Triple) Vec() core.Vec3 {
	return core.NewVec3(t[0], t[1], t[2])
}

func triple(x, y, z float64) *Triple {
	return &Triple{x, y, z}
}

// Description is a complete scene as a plain value: camera, render settings,
// background and the named textures and materials the objects refer to
type Description struct {
	Name       string                         `json:"name"`
	Summary    string                         `json:"summary,omitempty"`
	Camera     CameraDescription              `json:"camera"`
	Render     RenderDescription              `json:"render"`
	Background *Triple                        `json:"background,omitempty"`
	SkyBox     *SkyBoxDescription             `json:"skybox,omitempty"`
	Textures   map[string]TextureDescription  `json:"textures,omitempty"`
	Materials  map[string]MaterialDescription `json:"materials"`
	Objects    []ObjectDescription            `json:"objects"`
	BVH        bool                           `json:"bvh,omitempty"` // wrap the top-level objects in a BVH
}

// CameraDescription places the camera. Zero values take the defaults applied by Build.
type CameraDescription struct {
	LookFrom      Triple  `json:"lookFrom"`
	LookAt        Triple  `json:"lookAt"`
	Up            *Triple `json:"up,omitempty"`
	VFov          float64 `json:"vfov,omitempty"`
	Aperture      float64 `json:"aperture,omitempty"`
	FocusDistance float64 `json:"focusDistance,omitempty"`
	Time0         float64 `json:"time0,omitempty"`
	Time1         float64 `json:"time1,omitempty"`
}

// RenderDescription holds the image settings a scene was composed for
type RenderDescription struct {
	Width           int     `json:"width,omitempty"`
	AspectRatio     float64 `json:"aspectRatio,omitempty"`
	SamplesPerPixel int     `json:"samplesPerPixel,omitempty"`
	MaxDepth        int     `json:"maxDepth,omitempty"`
}

// SkyBoxDescription names the texture shown on each face of the environment cube
type SkyBoxDescription struct {
	Front  string `json:"front"`
	Back   string `json:"back"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	Top    string `json:"top"`
	Bottom string `json:"bottom"`
}

// TextureDescription is one of solid, checker, image, noise or perlin_brdf
type TextureDescription struct {
	Type     string  `json:"type"`
	Color    *Triple `json:"color,omitempty"`    // solid, perlin_brdf base
	Odd      *Triple `json:"odd,omitempty"`      // checker
	Even     *Triple `json:"even,omitempty"`     // checker
	Path     string  `json:"path,omitempty"`     // image, relative to the asset directory
	Scale    float64 `json:"scale,omitempty"`    // noise frequency, perlin_brdf lobe exponent
	Optional bool    `json:"optional,omitempty"` // a missing image renders as the cyan debug texture
}

// MaterialDescription is one of lambertian, metal, dielectric, diffuse_light, sky, brdf or isotropic.
// Color and Texture are alternatives; Texture wins when both are set.
type MaterialDescription struct {
	Type    string  `json:"type"`
	Color   *Triple `json:"color,omitempty"`
	Texture string  `json:"texture,omitempty"`
	Fuzz    float64 `json:"fuzz,omitempty"`
	IOR     float64 `json:"ior,omitempty"`
}

// ObjectDescription is a primitive, mesh, medium or group. Only the fields of the
// chosen type are read. RotateY (degrees) is applied before Translate.
type ObjectDescription struct {
	Type     string `json:"type"`
	Material string `json:"material,omitempty"`

	// sphere, inner_sphere, moving_sphere
	Center  *Triple `json:"center,omitempty"`
	Center1 *Triple `json:"center1,omitempty"`
	Radius  float64 `json:"radius,omitempty"`
	Time0   float64 `json:"time0,omitempty"`
	Time1   float64 `json:"time1,omitempty"`

	// triangle
	Vertices *[3]Triple `json:"vertices,omitempty"`

	// xy_rect, xz_rect, yz_rect: the two free-axis ranges and the fixed coordinate
	Bounds *[4]float64 `json:"bounds,omitempty"`
	K      float64     `json:"k,omitempty"`

	// box
	Min *Triple `json:"min,omitempty"`
	Max *Triple `json:"max,omitempty"`

	// mesh
	Path     string  `json:"path,omitempty"`
	Scale    *Triple `json:"scale,omitempty"`
	Optional bool    `json:"optional,omitempty"` // a missing mesh file skips the object

	// medium
	Boundary *ObjectDescription `json:"boundary,omitempty"`
	Density  float64            `json:"density,omitempty"`
	Color    *Triple            `json:"color,omitempty"`
	Texture  string             `json:"texture,omitempty"` // replaces Color when set

	// group
	Children []ObjectDescription `json:"children,omitempty"`
	BVH      bool                `json:"bvh,omitempty"`

	RotateY   float64 `json:"rotateY,omitempty"`
	Translate *Triple `json:"translate,omitempty"`
}

// LoadDescription reads a JSON scene file
func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	var desc Description
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, err)
	}
	return &desc, nil
}
