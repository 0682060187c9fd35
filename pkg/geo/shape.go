package geo

// Shape is a polygon with optional interior holes. A perimeter-ring footprint
// is the canonical case: the buildable envelope as exterior with the eroded
// core as a hole.
type Shape struct {
	Exterior Polygon   `json:"exterior" yaml:"exterior"`
	Holes    []Polygon `json:"holes,omitempty" yaml:"holes,omitempty"`
}

// SolidShape wraps a hole-less polygon as a Shape.
func SolidShape(p Polygon) Shape {
	return Shape{Exterior: p}
}

// Area returns the exterior area minus the hole areas.
func (s Shape) Area() float64 {
	a := s.Exterior.Area()
	for _, h := range s.Holes {
		a -= h.Area()
	}
	if a < 0 {
		return 0
	}
	return a
}

// IsEmpty reports whether the shape encloses no area.
func (s Shape) IsEmpty() bool {
	return s.Exterior.IsEmpty() || s.Area() < SnapTolerance
}

// Centroid returns the exterior centroid. Hole mass is ignored; footprint
// placement only needs a planning-grade anchor.
func (s Shape) Centroid() Point {
	return s.Exterior.Centroid()
}

// TotalArea sums the areas of a set of shapes.
func TotalArea(shapes []Shape) float64 {
	total := 0.0
	for _, s := range shapes {
		total += s.Area()
	}
	return total
}
