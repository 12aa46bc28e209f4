package geometry

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
	inverted bool
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// NewInnerSphere creates a sphere whose outward normal points toward its center.
// Nested inside a dielectric sphere it models the inner wall of a hollow glass shell.
func NewInnerSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	s := NewSphere(center, radius, mat)
	s.inverted = true
	return s
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return hitSphere(ray, tMin, tMax, s.Center, s.Radius, s.inverted, s.Material)
}

// BoundingBox returns the axis-aligned box around the sphere
func (s *Sphere) BoundingBox(time0, time1 float64) core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

// hitSphere solves |O + tD - C|² = r² and keeps the nearest root in (tMin, tMax]
func hitSphere(ray core.Ray, tMin, tMax float64, center core.Vec3, radius float64, inverted bool, mat material.Material) (*material.HitRecord, bool) {
	oc := ray.Origin.Subtract(center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - radius*radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root <= tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root > tMax {
			return nil, false
		}
	}

	hit := &material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: mat,
	}
	outwardNormal := hit.Point.Subtract(center).Multiply(1.0 / radius)
	hit.UV = sphereUV(outwardNormal)
	if inverted {
		outwardNormal = outwardNormal.Negate()
	}
	hit.SetFaceNormal(ray, outwardNormal)

	return hit, true
}

// sphereUV maps a point on the unit sphere to (u, v): u is the angle around Y from X=-1,
// v the angle from Y=-1 to Y=+1, both normalized to [0,1]
func sphereUV(p core.Vec3) core.Vec2 {
	theta := math.Acos(math.Max(-1, math.Min(1, -p.Y)))
	phi := math.Atan2(-p.Z, p.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

// MovingSphere is a sphere whose center moves linearly between two keyframes
type MovingSphere struct {
	Center0, Center1 core.Vec3
	Time0, Time1     float64
	Radius           float64
	Material         material.Material
}

// NewMovingSphere creates a sphere at center0 at time0 and center1 at time1
func NewMovingSphere(center0, center1 core.Vec3, time0, time1, radius float64, mat material.Material) *MovingSphere {
	return &MovingSphere{
		Center0:  center0,
		Center1:  center1,
		Time0:    time0,
		Time1:    time1,
		Radius:   radius,
		Material: mat,
	}
}

// Center returns the interpolated center at the given time
func (s *MovingSphere) Center(time float64) core.Vec3 {
	if s.Time1 == s.Time0 {
		return s.Center0
	}
	f := (time - s.Time0) / (s.Time1 - s.Time0)
	return s.Center0.Add(s.Center1.Subtract(s.Center0).Multiply(f))
}

// Hit intersects the sphere at the ray's timestamp
func (s *MovingSphere) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return hitSphere(ray, tMin, tMax, s.Center(ray.Time), s.Radius, false, s.Material)
}

// BoundingBox encloses the sphere at both ends of the interval
func (s *MovingSphere) BoundingBox(time0, time1 float64) core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	c0, c1 := s.Center(time0), s.Center(time1)
	box0 := core.NewAABB(c0.Subtract(r), c0.Add(r))
	box1 := core.NewAABB(c1.Subtract(r), c1.Add(r))
	return box0.Union(box1)
}
