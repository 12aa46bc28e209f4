package loaders

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/log"
)

var logger = log.New("loaders")

// LoadMesh reads a triangle soup from a Wavefront OBJ or PLY file, chosen by extension
func LoadMesh(path string) ([]geometry.MeshVertex, error) {
	start := time.Now()

	var (
		vertices []geometry.MeshVertex
		err      error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		vertices, err = LoadOBJ(path)
	case ".ply":
		vertices, err = LoadPLY(path)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q for %s", ext, path)
	}
	if err != nil {
		return nil, err
	}

	bounds := MeshBounds(vertices)
	logger.Infof("loaded %s: %d triangles in %s, bounds %v - %v",
		filepath.Base(path), len(vertices)/3, time.Since(start), bounds.Min, bounds.Max)
	return vertices, nil
}

// MeshBounds returns the axis-aligned envelope of the vertex positions
func MeshBounds(vertices []geometry.MeshVertex) r3.Box {
	if len(vertices) == 0 {
		return r3.Box{}
	}

	box := r3.Box{Min: toR3(vertices[0].Position), Max: toR3(vertices[0].Position)}
	for _, vertex := range vertices[1:] {
		p := toR3(vertex.Position)
		box.Min = r3.Vec{X: math.Min(box.Min.X, p.X), Y: math.Min(box.Min.Y, p.Y), Z: math.Min(box.Min.Z, p.Z)}
		box.Max = r3.Vec{X: math.Max(box.Max.X, p.X), Y: math.Max(box.Max.Y, p.Y), Z: math.Max(box.Max.Z, p.Z)}
	}
	return box
}

// faceNormal returns the unit normal of a counter-clockwise triangle, or the zero vector
// when the triangle has no area
func faceNormal(tri r3.Triangle) r3.Vec {
	return unitOrZero(r3.Cross(r3.Sub(tri[1], tri[0]), r3.Sub(tri[2], tri[0])))
}

func unitOrZero(v r3.Vec) r3.Vec {
	if r3.Norm(v) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(v)
}

// polygonVertex is one corner of a face before triangulation
type polygonVertex struct {
	position  r3.Vec
	normal    r3.Vec
	texCoord  core.Vec2
	hasNormal bool
}

// triangulate fans a convex polygon into triangles (0, k, k+1). Corners without a
// normal get the face normal, so texture coordinates survive into smooth triangles.
func triangulate(polygon []polygonVertex, out []geometry.MeshVertex) []geometry.MeshVertex {
	for k := 1; k+1 < len(polygon); k++ {
		corners := [3]polygonVertex{polygon[0], polygon[k], polygon[k+1]}
		normal := faceNormal(r3.Triangle{corners[0].position, corners[1].position, corners[2].position})

		for _, corner := range corners {
			n := corner.normal
			if !corner.hasNormal {
				n = normal
			}
			out = append(out, geometry.MeshVertex{
				Position: fromR3(corner.position),
				Normal:   fromR3(n),
				TexCoord: corner.texCoord,
			})
		}
	}
	return out
}

func toR3(v core.Vec3) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func fromR3(v r3.Vec) core.Vec3 {
	return core.NewVec3(v.X, v.Y, v.Z)
}
