package material

import (
	"math"
	"math/rand"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

const perlinPointCount = 256

// Perlin is a gradient-noise generator over a 256-entry lattice of random unit vectors
type Perlin struct {
	gradients [perlinPointCount]core.Vec3
	permX     [perlinPointCount]int
	permY     [perlinPointCount]int
	permZ     [perlinPointCount]int
}

// NewPerlin builds the lattice from the given generator
func NewPerlin(random *rand.Rand) *Perlin {
	p := &Perlin{}
	for i := range p.gradients {
		p.gradients[i] = core.NewVec3(
			2*random.Float64()-1,
			2*random.Float64()-1,
			2*random.Float64()-1,
		).Normalize()
	}
	p.permX = perlinPermutation(random)
	p.permY = perlinPermutation(random)
	p.permZ = perlinPermutation(random)
	return p
}

func perlinPermutation(random *rand.Rand) [perlinPointCount]int {
	var perm [perlinPointCount]int
	for i := range perm {
		perm[i] = i
	}
	for i := perlinPointCount - 1; i > 0; i-- {
		target := random.Intn(i + 1)
		perm[i], perm[target] = perm[target], perm[i]
	}
	return perm
}

// Noise returns smoothed gradient noise in roughly [-1, 1]
func (p *Perlin) Noise(point core.Vec3) float64 {
	fx, fy, fz := math.Floor(point.X), math.Floor(point.Y), math.Floor(point.Z)
	u, v, w := point.X-fx, point.Y-fy, point.Z-fz
	i, j, k := int(fx), int(fy), int(fz)

	// Hermite smoothing
	uu := u * u * (3 - 2*u)
	vv := v * v * (3 - 2*v)
	ww := w * w * (3 - 2*w)

	accum := 0.0
	for di := 0; di < 2; di++ {
		for dj := 0; dj < 2; dj++ {
			for dk := 0; dk < 2; dk++ {
				gradient := p.gradients[p.permX[(i+di)&255]^p.permY[(j+dj)&255]^p.permZ[(k+dk)&255]]
				weight := core.NewVec3(u-float64(di), v-float64(dj), w-float64(dk))

				fi, fj, fk := float64(di), float64(dj), float64(dk)
				accum += (fi*uu + (1-fi)*(1-uu)) *
					(fj*vv + (1-fj)*(1-vv)) *
					(fk*ww + (1-fk)*(1-ww)) *
					gradient.Dot(weight)
			}
		}
	}
	return accum
}

// Turbulence sums depth octaves of noise with halving weights
func (p *Perlin) Turbulence(point core.Vec3, depth int) float64 {
	accum := 0.0
	weight := 1.0
	for i := 0; i < depth; i++ {
		accum += weight * p.Noise(point)
		weight *= 0.5
		point = point.Multiply(2)
	}
	return math.Abs(accum)
}

const turbulenceDepth = 7

// NoiseTexture is a gray marble pattern driven by Perlin turbulence
type NoiseTexture struct {
	Noise *Perlin
	Scale float64
}

// NewNoiseTexture creates a marble texture with the given frequency scale
func NewNoiseTexture(scale float64, random *rand.Rand) *NoiseTexture {
	return &NoiseTexture{Noise: NewPerlin(random), Scale: scale}
}

// Evaluate returns 0.5·(1 + sin(scale·z + 10·turb(p))) as a gray level
func (n *NoiseTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	gray := 0.5 * (1 + math.Sin(n.Scale*point.Z+10*n.Noise.Turbulence(point, turbulenceDepth)))
	return core.NewVec3(gray, gray, gray)
}

// PerlinBRDFTexture is a lobe table for the BRDF material.
// U (normal·half remapped to [0,1]) drives a specular lobe and V (incoming·half) a
// Fresnel-like rim, both over a Perlin marble base evaluated at the hit point.
type PerlinBRDFTexture struct {
	Noise *Perlin
	Scale float64
	Base  core.Vec3
}

// NewPerlinBRDFTexture creates a BRDF lobe texture with the given lobe exponent and marble scale
func NewPerlinBRDFTexture(scale float64, base core.Vec3, random *rand.Rand) *PerlinBRDFTexture {
	return &PerlinBRDFTexture{Noise: NewPerlin(random), Scale: scale, Base: base}
}

// Evaluate returns the lobe value, clamped to [0,1] per channel
func (t *PerlinBRDFTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	marble := 0.5 * (1 + math.Sin(t.Scale*point.Z+10*t.Noise.Turbulence(point, turbulenceDepth)))
	specular := math.Pow(clamp01(uv.X), t.Scale)
	rim := math.Pow(1-clamp01(math.Abs(uv.Y)), 5)

	diffuse := t.Base.Multiply(0.25 + 0.75*marble)
	highlight := 0.5*specular + 0.3*rim
	c := diffuse.Multiply(0.5 + 0.5*specular).
		Add(core.NewVec3(highlight, highlight, highlight))
	return core.NewVec3(clamp01(c.X), clamp01(c.Y), clamp01(c.Z))
}
