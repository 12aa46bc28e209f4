package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string // Scalar type, or the item type of a list
	IsList   bool
	ListType string // For list properties, the type of the count
}

// PLYElement is an element declaration with its properties in file order
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "ascii", "binary_little_endian" or "binary_big_endian"
	Version  string
	Elements []PLYElement
}

// LoadPLY reads the faces of a PLY file as a triangle soup. Vertex normals (nx, ny, nz)
// and texture coordinates (u/v, s/t or texture_u/texture_v) are used when present;
// polygons are fan-triangulated.
func LoadPLY(path string) ([]geometry.MeshVertex, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	vertices, err := parsePLY(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vertices, nil
}

func parsePLY(r *bufio.Reader) ([]geometry.MeshVertex, error) {
	header, err := parsePLYHeader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		values = &asciiPLYReader{r: r}
	case "binary_little_endian":
		values = &binaryPLYReader{r: r, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryPLYReader{r: r, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %s", header.Format)
	}

	var points []polygonVertex
	var vertices []geometry.MeshVertex
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			points, err = readPLYVertices(values, element)
		case "face":
			vertices, err = readPLYFaces(values, element, points, vertices)
		default:
			err = skipPLYElement(values, element)
		}
		if err != nil {
			return nil, err
		}
	}

	if len(vertices) == 0 {
		return nil, fmt.Errorf("no faces found")
	}
	return vertices, nil
}

// parsePLYHeader reads up to and including end_header, leaving r at the first data byte
func parsePLYHeader(r *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := r.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic number")
	}

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("header ended before end_header: %w", err)
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			return header, nil
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line: %q", strings.TrimSpace(line))
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("property declared before any element")
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			element := &header.Elements[len(header.Elements)-1]
			element.Properties = append(element.Properties, prop)
		}
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) >= 4 && parts[0] == "list" {
		return PLYProperty{IsList: true, ListType: parts[1], Type: parts[2], Name: parts[3]}, nil
	}
	if len(parts) >= 2 && parts[0] != "list" {
		return PLYProperty{Type: parts[0], Name: parts[1]}, nil
	}
	return PLYProperty{}, fmt.Errorf("invalid property definition: %v", parts)
}

func readPLYVertices(values plyValueReader, element PLYElement) ([]polygonVertex, error) {
	points := make([]polygonVertex, element.Count)
	for i := range points {
		var p polygonVertex
		for _, prop := range element.Properties {
			if prop.IsList {
				if err := skipPLYList(values, prop); err != nil {
					return nil, fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}

			value, err := values.read(prop.Type)
			if err != nil {
				return nil, fmt.Errorf("vertex %d, property %s: %w", i, prop.Name, err)
			}
			switch prop.Name {
			case "x":
				p.position.X = value
			case "y":
				p.position.Y = value
			case "z":
				p.position.Z = value
			case "nx":
				p.normal.X = value
				p.hasNormal = true
			case "ny":
				p.normal.Y = value
				p.hasNormal = true
			case "nz":
				p.normal.Z = value
				p.hasNormal = true
			case "u", "s", "texture_u":
				p.texCoord.X = value
			case "v", "t", "texture_v":
				p.texCoord.Y = value
			}
		}
		if p.hasNormal {
			p.normal = unitOrZero(p.normal)
		}
		points[i] = p
	}
	return points, nil
}

func readPLYFaces(values plyValueReader, element PLYElement, points []polygonVertex, out []geometry.MeshVertex) ([]geometry.MeshVertex, error) {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			isIndices := prop.IsList && (prop.Name == "vertex_indices" || prop.Name == "vertex_index")
			if !isIndices {
				if err := skipPLYProperty(values, prop); err != nil {
					return nil, fmt.Errorf("face %d: %w", i, err)
				}
				continue
			}

			count, err := readPLYListCount(values, prop)
			if err != nil {
				return nil, fmt.Errorf("face %d: %w", i, err)
			}

			polygon := make([]polygonVertex, count)
			for k := range polygon {
				value, err := values.read(prop.Type)
				if err != nil {
					return nil, fmt.Errorf("face %d: failed to read index: %w", i, err)
				}
				index, ok := plyInteger(value)
				if !ok || index < 0 || index >= len(points) {
					return nil, fmt.Errorf("face %d: vertex index %v out of bounds (%d vertices)", i, value, len(points))
				}
				polygon[k] = points[index]
			}
			out = triangulate(polygon, out)
		}
	}
	return out, nil
}

func skipPLYElement(values plyValueReader, element PLYElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			if err := skipPLYProperty(values, prop); err != nil {
				return fmt.Errorf("%s %d: %w", element.Name, i, err)
			}
		}
	}
	return nil
}

func skipPLYProperty(values plyValueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipPLYList(values, prop)
	}
	_, err := values.read(prop.Type)
	return err
}

func skipPLYList(values plyValueReader, prop PLYProperty) error {
	count, err := readPLYListCount(values, prop)
	if err != nil {
		return err
	}
	for k := 0; k < count; k++ {
		if _, err := values.read(prop.Type); err != nil {
			return err
		}
	}
	return nil
}

// Lists longer than this are treated as corrupt rather than allocated
const maxPLYListLength = 1 << 16

func readPLYListCount(values plyValueReader, prop PLYProperty) (int, error) {
	value, err := values.read(prop.ListType)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s count: %w", prop.Name, err)
	}
	count, ok := plyInteger(value)
	if !ok || count < 0 || count > maxPLYListLength {
		return 0, fmt.Errorf("invalid %s count %v", prop.Name, value)
	}
	return count, nil
}

// plyInteger converts a value read as float64 back to an int, rejecting NaN,
// infinities, fractions and values beyond the int32 range
func plyInteger(value float64) (int, bool) {
	if value != math.Trunc(value) || math.Abs(value) > math.MaxInt32 {
		return 0, false
	}
	return int(value), true
}

// plyValueReader reads one scalar of a PLY type from the body
type plyValueReader interface {
	read(typ string) (float64, error)
}

// asciiPLYReader reads whitespace-separated values, line by line
type asciiPLYReader struct {
	r      *bufio.Reader
	tokens []string
}

func (a *asciiPLYReader) read(typ string) (float64, error) {
	for len(a.tokens) == 0 {
		line, err := a.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return 0, fmt.Errorf("unexpected end of data: %w", err)
		}
		a.tokens = strings.Fields(line)
	}

	token := a.tokens[0]
	a.tokens = a.tokens[1:]
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", typ, token)
	}
	return value, nil
}

// binaryPLYReader decodes fixed-size values in the file's byte order
type binaryPLYReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryPLYReader) read(typ string) (float64, error) {
	size, err := plyTypeSize(typ)
	if err != nil {
		return 0, err
	}
	data := b.buf[:size]
	if _, err := io.ReadFull(b.r, data); err != nil {
		return 0, fmt.Errorf("unexpected end of data: %w", err)
	}

	switch typ {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	default:
		return math.Float64frombits(b.order.Uint64(data)), nil
	}
}

func plyTypeSize(typ string) (int, error) {
	switch typ {
	case "char", "int8", "uchar", "uint8":
		return 1, nil
	case "short", "int16", "ushort", "uint16":
		return 2, nil
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4, nil
	case "double", "float64":
		return 8, nil
	default:
		return 0, fmt.Errorf("unsupported PLY type: %s", typ)
	}
}
