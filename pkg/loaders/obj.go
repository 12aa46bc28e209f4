package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// LoadOBJ reads the faces of a Wavefront OBJ file as a triangle soup.
// Polygons are fan-triangulated; materials, groups and smoothing groups are ignored.
func LoadOBJ(path string) ([]geometry.MeshVertex, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	return parseOBJ(file, path)
}

// objData holds the coordinate lists faces index into
type objData struct {
	positions []r3.Vec
	normals   []r3.Vec
	texCoords []core.Vec2
}

func parseOBJ(r io.Reader, name string) ([]geometry.MeshVertex, error) {
	var data objData
	var vertices []geometry.MeshVertex

	lineNum := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "v":
			v, err := parseOBJVec3(lineTokens)
			if err != nil {
				return nil, objError(name, lineNum, err)
			}
			data.positions = append(data.positions, v)
		case "vn":
			v, err := parseOBJVec3(lineTokens)
			if err != nil {
				return nil, objError(name, lineNum, err)
			}
			data.normals = append(data.normals, unitOrZero(v))
		case "vt":
			v, err := parseOBJVec2(lineTokens)
			if err != nil {
				return nil, objError(name, lineNum, err)
			}
			data.texCoords = append(data.texCoords, v)
		case "f":
			polygon, err := data.parseFace(lineTokens)
			if err != nil {
				return nil, objError(name, lineNum, err)
			}
			vertices = triangulate(polygon, vertices)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	if len(vertices) == 0 {
		return nil, fmt.Errorf("%s: no faces found", name)
	}
	return vertices, nil
}

// parseFace resolves the v, v/vt, v//vn and v/vt/vn corners of a face line
func (d *objData) parseFace(lineTokens []string) ([]polygonVertex, error) {
	if len(lineTokens) < 4 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected at least 3 vertices; got %d`, len(lineTokens)-1)
	}

	polygon := make([]polygonVertex, 0, len(lineTokens)-1)
	for arg, token := range lineTokens[1:] {
		indexTokens := strings.Split(token, "/")
		if indexTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		var corner polygonVertex
		index, err := selectFaceCoordIndex(indexTokens[0], len(d.positions))
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %w", arg, err)
		}
		corner.position = d.positions[index]

		if len(indexTokens) > 1 && indexTokens[1] != "" {
			index, err = selectFaceCoordIndex(indexTokens[1], len(d.texCoords))
			if err != nil {
				return nil, fmt.Errorf("could not parse tex coord for face argument %d: %w", arg, err)
			}
			corner.texCoord = d.texCoords[index]
		}

		if len(indexTokens) > 2 && indexTokens[2] != "" {
			index, err = selectFaceCoordIndex(indexTokens[2], len(d.normals))
			if err != nil {
				return nil, fmt.Errorf("could not parse normal coord for face argument %d: %w", arg, err)
			}
			corner.normal = d.normals[index]
			corner.hasNormal = true
		}

		polygon = append(polygon, corner)
	}
	return polygon, nil
}

// selectFaceCoordIndex turns a 1-based (or negative, counted from the end) OBJ index
// into an offset into a coordinate list of length coordListLen
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.Atoi(indexToken)
	if err != nil {
		return -1, err
	}

	offset := index - 1
	if index < 0 {
		offset = coordListLen + index
	}
	if index == 0 || offset < 0 || offset >= coordListLen {
		return -1, fmt.Errorf("index %d out of bounds (%d entries)", index, coordListLen)
	}
	return offset, nil
}

func parseOBJVec3(lineTokens []string) (r3.Vec, error) {
	if len(lineTokens) < 4 {
		return r3.Vec{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	var coords [3]float64
	for i := range coords {
		value, err := strconv.ParseFloat(lineTokens[i+1], 64)
		if err != nil {
			return r3.Vec{}, err
		}
		coords[i] = value
	}
	return r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

func parseOBJVec2(lineTokens []string) (core.Vec2, error) {
	if len(lineTokens) < 3 {
		return core.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	u, err := strconv.ParseFloat(lineTokens[1], 64)
	if err != nil {
		return core.Vec2{}, err
	}
	v, err := strconv.ParseFloat(lineTokens[2], 64)
	if err != nil {
		return core.Vec2{}, err
	}
	return core.NewVec2(u, v), nil
}

func objError(name string, line int, err error) error {
	return fmt.Errorf("[%s: %d] %w", name, line, err)
}
