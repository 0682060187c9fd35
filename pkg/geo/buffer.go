package geo

import "math"

// Buffer offsets the polygon boundary by dist meters. Positive distances
// expand outward, negative distances erode inward. Offsetting uses miter
// joins: each edge is shifted along its outward normal and adjacent offset
// lines are re-intersected.
//
// Returns ErrEmpty when the erosion consumes the whole shape (the polygon is
// narrower than twice the erosion distance) or the offset collapses into a
// self-intersecting remnant. Buffer never panics on degenerate input.
func Buffer(p Polygon, dist float64) (Polygon, error) {
	p = p.Dedupe().EnsureCCW()
	n := len(p.Vertices)
	if n < 3 {
		return Polygon{}, ErrEmpty
	}
	if math.Abs(dist) < SnapTolerance {
		return p, nil
	}

	// For a CCW polygon the outward normal of edge v[i]->v[i+1] is the edge
	// direction rotated -90 degrees.
	offsetPts := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		prev := p.Vertices[(i-1+n)%n]
		cur := p.Vertices[i]
		next := p.Vertices[(i+1)%n]

		d1 := cur.Sub(prev).Normalize()
		d2 := next.Sub(cur).Normalize()
		n1 := Point{d1.Y, -d1.X}
		n2 := Point{d2.Y, -d2.X}

		a1 := prev.Add(n1.Scale(dist))
		a2 := cur.Add(n1.Scale(dist))
		b1 := cur.Add(n2.Scale(dist))
		b2 := next.Add(n2.Scale(dist))

		ix, ok := lineIntersection(a1, a2, b1, b2)
		if !ok {
			// Near-collinear edges: offset the shared vertex directly.
			ix = cur.Add(n1.Add(n2).Normalize().Scale(dist))
		}
		offsetPts = append(offsetPts, ix)
	}

	out := Polygon{Vertices: offsetPts}.Dedupe()
	if out.Len() < 3 {
		return Polygon{}, ErrEmpty
	}

	// An inward offset past the shape's half-width flips the winding or
	// produces a bowtie remnant. Both count as fully consumed.
	if dist < 0 {
		if out.SignedArea() <= SnapTolerance || out.Area() >= p.Area() {
			return Polygon{}, ErrEmpty
		}
		if !out.IsSimple() {
			return Polygon{}, ErrEmpty
		}
		// A symmetric over-erosion can mirror the shape through its center
		// into a small remnant that is still simple and CCW. Every surviving
		// vertex must sit inside the original at the full erosion depth.
		depth := -dist
		for _, v := range out.Vertices {
			if !p.Contains(v) || p.DistanceToBoundary(v)+SnapTolerance < depth {
				return Polygon{}, ErrEmpty
			}
		}
	} else if !out.IsSimple() {
		// Outward miter blowups on sharp reflex vertices.
		return Polygon{}, ErrEmpty
	}

	return out, nil
}

// lineIntersection returns the intersection point of the infinite lines
// through (p1,p2) and (p3,p4).
func lineIntersection(p1, p2, p3, p4 Point) (Point, bool) {
	d := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if math.Abs(d) < 1e-12 {
		return Point{}, false
	}
	t := ((p1.X-p3.X)*(p3.Y-p4.Y) - (p1.Y-p3.Y)*(p3.X-p4.X)) / d
	return Point{
		X: p1.X + t*(p2.X-p1.X),
		Y: p1.Y + t*(p2.Y-p1.Y),
	}, true
}
