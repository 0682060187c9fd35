package massing

import (
	"math"

	"github.com/gridline/siteplan/pkg/geo"
)

// bounds is an axis-aligned rectangle used while assembling mask pieces.
type bounds struct {
	x0, y0, x1, y1 float64
}

func (b bounds) rect() geo.Polygon {
	return geo.Rect(geo.Pt(b.x0, b.y0), geo.Pt(b.x1, b.y1))
}

// maskFrame captures the envelope bounding box with the padding applied
// beyond it so mask edges never seam against the envelope boundary.
type maskFrame struct {
	minX, minY, maxX, maxY float64
	midX, midY             float64
	pad                    float64
}

func frameOf(env geo.Polygon) maskFrame {
	min, max := env.BoundingBox()
	w := max.X - min.X
	h := max.Y - min.Y
	pad := 0.1 * (w + h)
	if pad < 1 {
		pad = 1
	}
	return maskFrame{
		minX: min.X, minY: min.Y, maxX: max.X, maxY: max.Y,
		midX: (min.X + max.X) / 2, midY: (min.Y + max.Y) / 2,
		pad: pad,
	}
}

// half returns the padded half-plane rectangle for one side of the frame.
func (f maskFrame) half(h halfPlane) bounds {
	switch h {
	case halfNorth:
		return bounds{f.minX - f.pad, f.midY, f.maxX + f.pad, f.maxY + f.pad}
	case halfSouth:
		return bounds{f.minX - f.pad, f.minY - f.pad, f.maxX + f.pad, f.midY}
	case halfEast:
		return bounds{f.midX, f.minY - f.pad, f.maxX + f.pad, f.maxY + f.pad}
	default: // west
		return bounds{f.minX - f.pad, f.minY - f.pad, f.midX, f.maxY + f.pad}
	}
}

// lMaskPieces builds the two disjoint rectangles whose union forms the L
// mask for the given orientation bucket. The second half is trimmed to the
// complement of the first so union areas never double-count, and pulled in
// by the ring depth so the opposite ring leg stays excluded.
func lMaskPieces(q Quadrant, f maskFrame, depth float64) []geo.Polygon {
	halves := lMaskHalves[q]
	base := f.half(halves[0])
	side := f.half(halves[1])
	switch halves[0] {
	case halfNorth:
		side.y1 = f.midY
		side.y0 = math.Min(f.minY+depth, f.midY-1)
	case halfSouth:
		side.y0 = f.midY
		side.y1 = math.Max(f.maxY-depth, f.midY+1)
	}
	return []geo.Polygon{base.rect(), side.rect()}
}

// uMaskPieces builds the three disjoint rectangles forming the U mask. The
// base leg (opposite the opening) spans the full frame; the two side legs run
// from the mid-line toward the base, stopping one ring depth short of the
// opening edge so the opening leg of the ring is excluded.
func uMaskPieces(q Quadrant, f maskFrame, depth float64) []geo.Polygon {
	halves := uMaskHalves[q]
	base := f.half(halves[0])

	var sides []bounds
	switch halves[0] {
	case halfNorth: // opening south
		for _, h := range halves[1:] {
			s := f.half(h)
			s.y1 = f.midY
			s.y0 = math.Min(f.minY+depth, f.midY-1)
			sides = append(sides, s)
		}
	case halfSouth: // opening north
		for _, h := range halves[1:] {
			s := f.half(h)
			s.y0 = f.midY
			s.y1 = math.Max(f.maxY-depth, f.midY+1)
			sides = append(sides, s)
		}
	case halfEast: // opening west
		for _, h := range halves[1:] {
			s := f.half(h)
			s.x1 = f.midX
			s.x0 = math.Min(f.minX+depth, f.midX-1)
			sides = append(sides, s)
		}
	case halfWest: // opening east
		for _, h := range halves[1:] {
			s := f.half(h)
			s.x0 = f.midX
			s.x1 = math.Max(f.maxX-depth, f.midX+1)
			sides = append(sides, s)
		}
	}

	pieces := []geo.Polygon{base.rect()}
	for _, s := range sides {
		pieces = append(pieces, s.rect())
	}
	return pieces
}

// Bar fractions for the T and H masks, as shares of the bounding box.
const (
	tBarHeightFrac = 0.40 // top bar: top 40% of bbox height
	tStemWidthFrac = 0.40 // stem: center 40% of bbox width
	hSideWidthFrac = 0.35 // side bars: 35% of bbox width each
	hCenterFrac    = 0.40 // center bar: middle 40% of bbox height
)

// tMaskPieces builds the T mask (top bar + center stem) from bounding-box
// fractions, rotated about the bbox centroid by the orientation angle.
func tMaskPieces(f maskFrame, orientationDeg float64) []geo.Polygon {
	w := f.maxX - f.minX
	h := f.maxY - f.minY
	topBar := bounds{f.minX, f.maxY - tBarHeightFrac*h, f.maxX, f.maxY}
	stem := bounds{
		f.midX - tStemWidthFrac*w/2, f.minY,
		f.midX + tStemWidthFrac*w/2, f.maxY - tBarHeightFrac*h,
	}
	return rotatePieces([]geo.Polygon{topBar.rect(), stem.rect()}, f, orientationDeg)
}

// hMaskPieces builds the H mask (two side bars + center bar) from
// bounding-box fractions, rotated about the bbox centroid.
func hMaskPieces(f maskFrame, orientationDeg float64) []geo.Polygon {
	w := f.maxX - f.minX
	h := f.maxY - f.minY
	left := bounds{f.minX, f.minY, f.minX + hSideWidthFrac*w, f.maxY}
	right := bounds{f.maxX - hSideWidthFrac*w, f.minY, f.maxX, f.maxY}
	center := bounds{
		f.minX + hSideWidthFrac*w, f.midY - hCenterFrac*h/2,
		f.maxX - hSideWidthFrac*w, f.midY + hCenterFrac*h/2,
	}
	return rotatePieces([]geo.Polygon{left.rect(), right.rect(), center.rect()}, f, orientationDeg)
}

func rotatePieces(pieces []geo.Polygon, f maskFrame, orientationDeg float64) []geo.Polygon {
	if orientationDeg == 0 {
		return pieces
	}
	pivot := geo.Pt(f.midX, f.midY)
	out := make([]geo.Polygon, len(pieces))
	for i, p := range pieces {
		out[i] = p.RotateDegrees(orientationDeg, pivot)
	}
	return out
}
