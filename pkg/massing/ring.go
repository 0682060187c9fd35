package massing

import "github.com/gridline/siteplan/pkg/geo"

// PerimeterRing builds a boundary-hugging ring of the given depth inside the
// envelope: ring = envelope − erode(envelope, depth).
//
// When the erosion is empty (parcel smaller than twice the depth) the ring
// degenerates to the full envelope as a solid block; a too-small parcel
// cannot support a hollow ring. The second return reports that fallback.
func PerimeterRing(env geo.Polygon, depth float64) (geo.Shape, bool) {
	if depth <= 0 {
		return geo.SolidShape(env), true
	}

	core, err := geo.Buffer(env, -depth)
	if err != nil {
		return geo.SolidShape(env), true
	}

	shapes, err := geo.Difference(env, core)
	if err != nil || len(shapes) == 0 {
		return geo.SolidShape(env), true
	}

	// The eroded core is strictly interior, so the difference is a single
	// holed shape. Anything else means the boolean op degenerated; keep the
	// solid envelope instead.
	if len(shapes) > 1 {
		return geo.SolidShape(env), true
	}
	return shapes[0], false
}
