package material

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Texture provides spatially-varying colors for materials
type Texture interface {
	// Evaluate returns color at given UV coordinates and 3D point.
	// UV is used for image textures, point for procedural textures.
	Evaluate(uv core.Vec2, point core.Vec3) core.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color texture
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *SolidColor) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	return s.Color
}

// CheckerTexture alternates between two textures in a 3D sine lattice
type CheckerTexture struct {
	Odd  Texture
	Even Texture
}

// NewCheckerTexture creates a checker texture from two textures
func NewCheckerTexture(odd, even Texture) *CheckerTexture {
	return &CheckerTexture{Odd: odd, Even: even}
}

// NewCheckerColors creates a checker texture from two solid colors
func NewCheckerColors(odd, even core.Vec3) *CheckerTexture {
	return NewCheckerTexture(NewSolidColor(odd), NewSolidColor(even))
}

// Evaluate selects odd or even by the sign of sin(10x)·sin(10y)·sin(10z)
func (c *CheckerTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	sines := math.Sin(10*point.X) * math.Sin(10*point.Y) * math.Sin(10*point.Z)
	if sines < 0 {
		return c.Odd.Evaluate(uv, point)
	}
	return c.Even.Evaluate(uv, point)
}
