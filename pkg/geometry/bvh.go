package geometry

import (
	"sort"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// BVH is a median-split bounding volume hierarchy stored as an arena.
// Primitives live in one slice and nodes in another; a child reference r >= 0 is a
// node index and r < 0 is primitive -(r+1). Every leaf reference names exactly one primitive.
type BVH struct {
	primitives []Hittable
	nodes      []bvhNode
	root       int32
	time0      float64
	time1      float64
}

// bvhNode is an interior node; its box is the union of its children's boxes
type bvhNode struct {
	box         core.AABB
	left, right int32
}

func primitiveRef(index int) int32 { return int32(-(index + 1)) }

func isPrimitive(ref int32) bool { return ref < 0 }

func primitiveIndex(ref int32) int { return int(-ref) - 1 }

// NewBVH builds a hierarchy over objects bounded over [time0, time1].
// Building over zero objects is a programming error and panics.
func NewBVH(objects []Hittable, time0, time1 float64) *BVH {
	if len(objects) == 0 {
		panic("geometry: cannot build a BVH over zero primitives")
	}

	b := &BVH{
		primitives: make([]Hittable, len(objects)),
		nodes:      make([]bvhNode, 0, len(objects)),
		time0:      time0,
		time1:      time1,
	}
	copy(b.primitives, objects)

	boxes := make([]core.AABB, len(objects))
	span := make([]int, len(objects))
	for i, object := range b.primitives {
		boxes[i] = object.BoundingBox(time0, time1)
		span[i] = i
	}

	b.root = b.build(span, boxes, 0)
	return b
}

// build returns the node reference for span. The split axis rotates with depth;
// primitives are sorted by their box minimum on that axis and split at the midpoint.
func (b *BVH) build(span []int, boxes []core.AABB, depth int) int32 {
	axis := depth % 3
	less := func(i, j int) bool {
		return boxes[i].Min.Axis(axis) < boxes[j].Min.Axis(axis)
	}

	var left, right int32
	var box core.AABB

	switch len(span) {
	case 1:
		left = primitiveRef(span[0])
		right = left
		box = boxes[span[0]]
	case 2:
		first, second := span[0], span[1]
		if less(second, first) {
			first, second = second, first
		}
		left, right = primitiveRef(first), primitiveRef(second)
		box = boxes[first].Union(boxes[second])
	default:
		sort.SliceStable(span, func(i, j int) bool { return less(span[i], span[j]) })
		mid := len(span) / 2
		left = b.build(span[:mid], boxes, depth+1)
		right = b.build(span[mid:], boxes, depth+1)
		box = b.refBox(left, boxes).Union(b.refBox(right, boxes))
	}

	b.nodes = append(b.nodes, bvhNode{box: box, left: left, right: right})
	return int32(len(b.nodes) - 1)
}

func (b *BVH) refBox(ref int32, boxes []core.AABB) core.AABB {
	if isPrimitive(ref) {
		return boxes[primitiveIndex(ref)]
	}
	return b.nodes[ref].box
}

// Hit returns the nearest hit in the tree
func (b *BVH) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return b.hitRef(b.root, ray, tMin, tMax, sampler)
}

// hitRef tests the node box, then the left child, then the right child with tMax
// tightened to the left child's hit distance
func (b *BVH) hitRef(ref int32, ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	if isPrimitive(ref) {
		return b.primitives[primitiveIndex(ref)].Hit(ray, tMin, tMax, sampler)
	}

	node := &b.nodes[ref]
	if !node.box.Hit(ray, tMin, tMax) {
		return nil, false
	}

	leftHit, hitLeft := b.hitRef(node.left, ray, tMin, tMax, sampler)
	if hitLeft {
		tMax = leftHit.T
	}
	if node.right == node.left {
		return leftHit, hitLeft
	}

	if rightHit, hitRight := b.hitRef(node.right, ray, tMin, tMax, sampler); hitRight {
		return rightHit, true
	}
	return leftHit, hitLeft
}

// BoundingBox returns the root box computed at build time
func (b *BVH) BoundingBox(time0, time1 float64) core.AABB {
	return b.nodes[b.root].box
}


// BVHStats describes the shape of a built tree
type BVHStats struct {
	Primitives int
	Nodes      int
	MaxDepth   int
}

// Stats walks the tree and collects its statistics
func (b *BVH) Stats() BVHStats {
	stats := BVHStats{Primitives: len(b.primitives), Nodes: len(b.nodes)}
	b.collectDepth(b.root, 0, &stats)
	return stats
}

func (b *BVH) collectDepth(ref int32, depth int, stats *BVHStats) {
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	if isPrimitive(ref) {
		return
	}
	node := b.nodes[ref]
	b.collectDepth(node.left, depth+1, stats)
	if node.right != node.left {
		b.collectDepth(node.right, depth+1, stats)
	}
}
