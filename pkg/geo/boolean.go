package geo

import (
	"errors"
	"math"
)

// ErrEmpty is returned by kernel operations whose result encloses no area.
// Callers select their documented fallback instead of propagating it.
var ErrEmpty = errors.New("geo: empty result")

// ErrDegenerate is returned when a boolean operation cannot be resolved even
// after perturbation. Callers treat it like any other op failure and fall
// back to the previous valid polygon in their pipeline.
var ErrDegenerate = errors.New("geo: degenerate geometry")

// Intersect returns the intersection of two simple polygons as zero or more
// polygons. A nil slice with ErrEmpty means the polygons do not overlap.
func Intersect(a, b Polygon) ([]Polygon, error) {
	return booleanOp(a, b, true, true)
}

// Union returns the union of two simple polygons. Disjoint inputs produce
// two parts.
func Union(a, b Polygon) ([]Polygon, error) {
	return booleanOp(a, b, false, false)
}

// Difference returns a minus b as zero or more shapes. When b is strictly
// contained in a, the result is a single shape with b as a hole.
func Difference(a, b Polygon) ([]Shape, error) {
	a = a.Dedupe().EnsureCCW()
	b = b.Dedupe().EnsureCCW()
	if a.IsEmpty() {
		return nil, ErrEmpty
	}
	if b.IsEmpty() {
		return []Shape{SolidShape(a)}, nil
	}

	for attempt := 0; attempt < len(perturbations); attempt++ {
		bb := b.Translate(perturbations[attempt])
		listA, listB, crossings, degenerate := buildIntersectionLists(a, bb)
		if degenerate {
			continue
		}
		if crossings == 0 {
			if bb.Contains(a.Vertices[0]) {
				return nil, ErrEmpty
			}
			if a.Contains(bb.Vertices[0]) {
				return []Shape{{Exterior: a, Holes: []Polygon{bb}}}, nil
			}
			return []Shape{SolidShape(a)}, nil
		}
		polys, err := traverse(listA, listB, false, true, a, bb, crossings)
		if err != nil {
			continue
		}
		shapes := make([]Shape, 0, len(polys))
		for _, p := range polys {
			shapes = append(shapes, SolidShape(p))
		}
		if len(shapes) == 0 {
			return nil, ErrEmpty
		}
		return shapes, nil
	}
	return nil, ErrDegenerate
}

// perturbations are the retry offsets applied to the second operand when a
// degenerate configuration (shared vertices, collinear overlapping edges) is
// detected. Offsets stay well under planning-grade precision.
var perturbations = []Point{
	{0, 0},
	{1.7e-7, 2.9e-7},
	{-3.1e-7, 1.3e-7},
	{5.3e-7, -4.1e-7},
}

func booleanOp(a, b Polygon, aForward, bForward bool) ([]Polygon, error) {
	a = a.Dedupe().EnsureCCW()
	b = b.Dedupe().EnsureCCW()
	if a.IsEmpty() || b.IsEmpty() {
		if aForward { // intersection
			return nil, ErrEmpty
		}
		// union with one empty operand
		if !a.IsEmpty() {
			return []Polygon{a}, nil
		}
		if !b.IsEmpty() {
			return []Polygon{b}, nil
		}
		return nil, ErrEmpty
	}

	for attempt := 0; attempt < len(perturbations); attempt++ {
		bb := b.Translate(perturbations[attempt])
		listA, listB, crossings, degenerate := buildIntersectionLists(a, bb)
		if degenerate {
			continue
		}
		if crossings == 0 {
			return noCrossingResult(a, bb, aForward)
		}
		polys, err := traverse(listA, listB, aForward, bForward, a, bb, crossings)
		if err != nil {
			continue
		}
		if len(polys) == 0 {
			return nil, ErrEmpty
		}
		return polys, nil
	}
	return nil, ErrDegenerate
}

// noCrossingResult handles containment and disjoint cases.
func noCrossingResult(a, b Polygon, intersection bool) ([]Polygon, error) {
	aInB := b.Contains(a.Vertices[0])
	bInA := a.Contains(b.Vertices[0])
	if intersection {
		switch {
		case aInB:
			return []Polygon{a}, nil
		case bInA:
			return []Polygon{b}, nil
		default:
			return nil, ErrEmpty
		}
	}
	// union
	switch {
	case aInB:
		return []Polygon{b}, nil
	case bInA:
		return []Polygon{a}, nil
	default:
		return []Polygon{a, b}, nil
	}
}

// ghNode is a vertex in the doubly linked Greiner-Hormann traversal lists.
type ghNode struct {
	p          Point
	next, prev *ghNode
	intersect  bool
	entry      bool
	visited    bool
	neighbor   *ghNode
	alpha      float64
}

func buildList(p Polygon) *ghNode {
	var first, last *ghNode
	for _, v := range p.Vertices {
		node := &ghNode{p: v}
		if first == nil {
			first = node
			last = node
			continue
		}
		node.prev = last
		last.next = node
		last = node
	}
	last.next = first
	first.prev = last
	return first
}

// buildIntersectionLists constructs linked lists for both polygons with
// intersection nodes inserted. Returns the crossing count and whether a
// degenerate configuration was detected.
func buildIntersectionLists(a, b Polygon) (*ghNode, *ghNode, int, bool) {
	listA := buildList(a)
	listB := buildList(b)

	na := len(a.Vertices)
	nb := len(b.Vertices)
	crossings := 0

	for i := 0; i < na; i++ {
		a1 := a.Vertices[i]
		a2 := a.Vertices[(i+1)%na]
		for j := 0; j < nb; j++ {
			b1 := b.Vertices[j]
			b2 := b.Vertices[(j+1)%nb]
			t, u, hit, degenerate := segmentIntersection(a1, a2, b1, b2)
			if degenerate {
				return nil, nil, 0, true
			}
			if !hit {
				continue
			}
			pt := a1.Lerp(a2, t)
			nodeA := &ghNode{p: pt, intersect: true, alpha: t}
			nodeB := &ghNode{p: pt, intersect: true, alpha: u}
			nodeA.neighbor = nodeB
			nodeB.neighbor = nodeA
			insertSorted(listA, i, nodeA)
			insertSorted(listB, j, nodeB)
			crossings++
		}
	}
	return listA, listB, crossings, false
}

// segmentIntersection computes the proper intersection of segments a1-a2 and
// b1-b2. Degenerate cases (near-parallel overlap, endpoint touching) are
// flagged so the caller can retry with a perturbed operand.
func segmentIntersection(a1, a2, b1, b2 Point) (t, u float64, hit, degenerate bool) {
	const eps = 1e-9
	d := a2.Sub(a1)
	e := b2.Sub(b1)
	denom := d.Cross(e)
	if math.Abs(denom) < 1e-12 {
		// Parallel. Overlapping collinear edges are degenerate.
		if math.Abs(b1.Sub(a1).Cross(d)) < SnapTolerance && collinearOverlap(a1, a2, b1, b2) {
			return 0, 0, false, true
		}
		return 0, 0, false, false
	}
	w := b1.Sub(a1)
	t = w.Cross(e) / denom
	u = w.Cross(d) / denom
	if t < -eps || t > 1+eps || u < -eps || u > 1+eps {
		return 0, 0, false, false
	}
	// Intersections at (or extremely near) an endpoint cannot be classified
	// as entry or exit reliably.
	if t < eps || t > 1-eps || u < eps || u > 1-eps {
		return 0, 0, false, true
	}
	return t, u, true, false
}

func collinearOverlap(a1, a2, b1, b2 Point) bool {
	d := a2.Sub(a1)
	l2 := d.Dot(d)
	if l2 < 1e-18 {
		return false
	}
	t1 := b1.Sub(a1).Dot(d) / l2
	t2 := b2.Sub(a1).Dot(d) / l2
	lo, hi := math.Min(t1, t2), math.Max(t1, t2)
	return hi > 1e-9 && lo < 1-1e-9
}

// insertSorted inserts an intersection node after the i-th original vertex,
// keeping intersection nodes on the same edge ordered by alpha.
func insertSorted(first *ghNode, edgeIndex int, node *ghNode) {
	// Walk to the edge's start vertex (skipping intersection nodes).
	start := first
	for k := 0; k < edgeIndex; k++ {
		start = start.next
		for start.intersect {
			start = start.next
		}
	}
	// Advance past earlier intersections on this edge.
	cur := start
	for cur.next.intersect && cur.next.alpha < node.alpha {
		cur = cur.next
	}
	node.next = cur.next
	node.prev = cur
	cur.next.prev = node
	cur.next = node
}

// traverse marks entry/exit flags and walks the lists, emitting result
// polygons per the Greiner-Hormann rules.
func traverse(listA, listB *ghNode, aForward, bForward bool, a, b Polygon, crossings int) ([]Polygon, error) {
	entryA := aForward != b.Contains(a.Vertices[0])
	entryB := bForward != a.Contains(b.Vertices[0])

	markEntries(listA, entryA)
	markEntries(listB, entryB)

	maxSteps := 8 * (len(a.Vertices) + len(b.Vertices) + 2*crossings)
	var results []Polygon

	for {
		start := firstUnvisited(listA)
		if start == nil {
			break
		}
		pts := []Point{start.p}
		current := start
		steps := 0
		for {
			current.visited = true
			if current.neighbor != nil {
				current.neighbor.visited = true
			}
			if current.entry {
				for {
					current = current.next
					pts = append(pts, current.p)
					if current.intersect {
						break
					}
					if steps++; steps > maxSteps {
						return nil, ErrDegenerate
					}
				}
			} else {
				for {
					current = current.prev
					pts = append(pts, current.p)
					if current.intersect {
						break
					}
					if steps++; steps > maxSteps {
						return nil, ErrDegenerate
					}
				}
			}
			current = current.neighbor
			if current.visited {
				break
			}
			if steps++; steps > maxSteps {
				return nil, ErrDegenerate
			}
		}
		poly := Polygon{Vertices: pts}.Dedupe().EnsureCCW()
		if !poly.IsEmpty() {
			results = append(results, poly)
		}
	}
	return results, nil
}

func markEntries(first *ghNode, entry bool) {
	node := first
	for {
		if node.intersect {
			node.entry = entry
			entry = !entry
		}
		node = node.next
		if node == first {
			return
		}
	}
}

func firstUnvisited(first *ghNode) *ghNode {
	node := first
	for {
		if node.intersect && !node.visited {
			return node
		}
		node = node.next
		if node == first {
			return nil
		}
	}
}

// LargestPart returns the polygon with the greatest area from a multi-part
// result, or an empty polygon for an empty slice.
func LargestPart(parts []Polygon) Polygon {
	var best Polygon
	bestArea := 0.0
	for _, p := range parts {
		if a := p.Area(); a > bestArea {
			best = p
			bestArea = a
		}
	}
	return best
}
