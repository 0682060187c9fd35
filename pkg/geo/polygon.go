package geo

import "math"

// SnapTolerance is the fixed coincident-vertex snap tolerance, in working
// units (meters). Vertices closer than this are treated as coincident so
// that boolean operations stay deterministic.
const SnapTolerance = 1e-6

// Polygon is a simple closed polygon defined by its vertices in order.
// The closing edge from the last vertex back to the first is implicit.
type Polygon struct {
	Vertices []Point `json:"vertices" yaml:"vertices"`
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point) Polygon {
	return Polygon{Vertices: pts}
}

// Rect creates an axis-aligned rectangle polygon from two opposite corners.
func Rect(min, max Point) Polygon {
	return NewPolygon(min, Pt(max.X, min.Y), max, Pt(min.X, max.Y))
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// IsEmpty returns true if the polygon has fewer than 3 vertices or
// effectively zero area.
func (p Polygon) IsEmpty() bool {
	return len(p.Vertices) < 3 || p.Area() < SnapTolerance
}

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X * p.Vertices[j].Y
		area -= p.Vertices[j].X * p.Vertices[i].Y
	}
	return area / 2
}

// Area returns the unsigned area of the polygon in square meters.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// IsCounterClockwise returns true if vertices are in CCW order.
func (p Polygon) IsCounterClockwise() bool {
	return p.SignedArea() > 0
}

// EnsureCCW returns the polygon with vertices in counterclockwise order.
func (p Polygon) EnsureCCW() Polygon {
	if p.SignedArea() < 0 {
		return p.Reverse()
	}
	return p
}

// Reverse returns the polygon with reversed vertex order.
func (p Polygon) Reverse() Polygon {
	n := len(p.Vertices)
	rev := make([]Point, n)
	for i, v := range p.Vertices {
		rev[n-1-i] = v
	}
	return Polygon{Vertices: rev}
}

// Dedupe returns the polygon with consecutive vertices closer than the snap
// tolerance collapsed into one.
func (p Polygon) Dedupe() Polygon {
	n := len(p.Vertices)
	if n == 0 {
		return p
	}
	out := make([]Point, 0, n)
	for _, v := range p.Vertices {
		if len(out) > 0 && out[len(out)-1].NearlyEqual(v) {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0].NearlyEqual(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return Polygon{Vertices: out}
}

// Centroid returns the area centroid of the polygon.
func (p Polygon) Centroid() Point {
	n := len(p.Vertices)
	if n == 0 {
		return Point{}
	}
	a := p.SignedArea()
	if n < 3 || math.Abs(a) < 1e-12 {
		// Degenerate: return vertex average.
		sum := Point{}
		for _, v := range p.Vertices {
			sum = sum.Add(v)
		}
		return sum.Scale(1.0 / float64(n))
	}
	cx, cy := 0.0, 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p.Vertices[i].X*p.Vertices[j].Y - p.Vertices[j].X*p.Vertices[i].Y
		cx += (p.Vertices[i].X + p.Vertices[j].X) * cross
		cy += (p.Vertices[i].Y + p.Vertices[j].Y) * cross
	}
	f := 1.0 / (6.0 * a)
	return Point{cx * f, cy * f}
}

// BoundingBox returns the axis-aligned bounding box as (min, max).
func (p Polygon) BoundingBox() (Point, Point) {
	if len(p.Vertices) == 0 {
		return Point{}, Point{}
	}
	minP := p.Vertices[0]
	maxP := p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		if v.X < minP.X {
			minP.X = v.X
		}
		if v.Y < minP.Y {
			minP.Y = v.Y
		}
		if v.X > maxP.X {
			maxP.X = v.X
		}
		if v.Y > maxP.Y {
			maxP.Y = v.Y
		}
	}
	return minP, maxP
}

// Contains returns true if the point is inside the polygon using ray casting.
// Points on the boundary may report either way.
func (p Polygon) Contains(pt Point) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// DistanceToBoundary returns the shortest distance from pt to any edge of
// the polygon. The distance is unsigned; combine with Contains to obtain an
// interior depth.
func (p Polygon) DistanceToBoundary(pt Point) float64 {
	n := len(p.Vertices)
	if n == 0 {
		return 0
	}
	min := math.Inf(1)
	for i := 0; i < n; i++ {
		d := distanceToSegment(pt, p.Vertices[i], p.Vertices[(i+1)%n])
		if d < min {
			min = d
		}
	}
	return min
}

func distanceToSegment(pt, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < 1e-24 {
		return pt.Distance(a)
	}
	t := pt.Sub(a).Dot(ab) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return pt.Distance(a.Add(ab.Scale(t)))
}

// Perimeter returns the total perimeter length.
func (p Polygon) Perimeter() float64 {
	n := len(p.Vertices)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += p.Vertices[i].Distance(p.Vertices[j])
	}
	return total
}

// RotateDegrees returns the polygon rotated by angleDegrees counterclockwise
// around the pivot point.
func (p Polygon) RotateDegrees(angleDegrees float64, pivot Point) Polygon {
	rad := angleDegrees * math.Pi / 180
	out := make([]Point, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = v.RotateAround(pivot, rad)
	}
	return Polygon{Vertices: out}
}

// Translate returns the polygon shifted by the given offset.
func (p Polygon) Translate(offset Point) Polygon {
	out := make([]Point, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = v.Add(offset)
	}
	return Polygon{Vertices: out}
}

// IsSimple reports whether the polygon is free of self-intersections.
// Adjacent edges sharing a vertex are not counted as intersections.
func (p Polygon) IsSimple() bool {
	q := p.Dedupe()
	n := len(q.Vertices)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a1 := q.Vertices[i]
		a2 := q.Vertices[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// Skip adjacent edges (including the wrap-around pair).
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue
			}
			b1 := q.Vertices[j]
			b2 := q.Vertices[(j+1)%n]
			if segmentsCross(a1, a2, b1, b2) {
				return false
			}
		}
	}
	return true
}

// segmentsCross reports whether segments a1-a2 and b1-b2 properly intersect.
func segmentsCross(a1, a2, b1, b2 Point) bool {
	d1 := a2.Sub(a1).Cross(b1.Sub(a1))
	d2 := a2.Sub(a1).Cross(b2.Sub(a1))
	d3 := b2.Sub(b1).Cross(a1.Sub(b1))
	d4 := b2.Sub(b1).Cross(a2.Sub(b1))
	return ((d1 > SnapTolerance && d2 < -SnapTolerance) || (d1 < -SnapTolerance && d2 > SnapTolerance)) &&
		((d3 > SnapTolerance && d4 < -SnapTolerance) || (d3 < -SnapTolerance && d4 > SnapTolerance))
}
