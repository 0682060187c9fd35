package massing

import (
	"fmt"
	"math"

	"github.com/gridline/siteplan/pkg/geo"
	"github.com/gridline/siteplan/pkg/plan"
	"github.com/gridline/siteplan/pkg/validation"
)

// Footprint is one building's ground geometry, possibly multi-part (the legs
// of an L or H count as one building).
type Footprint []geo.Shape

// Area returns the total footprint area in square meters.
func (f Footprint) Area() float64 {
	return geo.TotalArea(f)
}

// Defaults applied when generation parameters leave them unset.
const (
	DefaultBuildingDepth = 12.0 // footprint-to-interior distance, meters
	DefaultBuildingGap   = 6.0  // minimum separation between slab/point chunks, meters
)

// Synthesize produces one footprint per building for the chosen typology
// within the buildable envelope. Boolean-op failures fall back to the
// previous valid polygon in the pipeline (envelope → ring → mask
// intersection) and are reported as warnings, never as errors.
func Synthesize(env Envelope, typ plan.Typology, p plan.GenerationParameters) ([]Footprint, *validation.Report) {
	report := validation.NewReport()

	depth := p.BuildingDepth
	if depth <= 0 {
		depth = DefaultBuildingDepth
	}

	switch typ {
	case plan.TypologyPoint, plan.TypologySlab:
		return synthesizeBands(env, typ, p, report), report
	case plan.TypologyPerimeter, plan.TypologyO:
		ring, solid := PerimeterRing(env.Polygon, depth)
		if solid {
			report.Warnf(validation.LevelGeometry, string(typ),
				"parcel too small for a %.1f m deep ring; using solid block", depth)
		}
		return []Footprint{{ring}}, report
	case plan.TypologyL, plan.TypologyU:
		return []Footprint{synthesizeLU(env, typ, p, depth, report)}, report
	case plan.TypologyT, plan.TypologyH:
		return []Footprint{synthesizeTH(env, typ, p, depth, report)}, report
	default:
		report.Warnf(validation.LevelGeometry, "typology",
			"unknown typology %q; using solid envelope", typ)
		return []Footprint{{geo.SolidShape(env.Polygon)}}, report
	}
}

// synthesizeBands partitions the envelope into N roughly-equal rectangular
// chunks by splitting the longer bounding-box axis into bands, intersecting
// each band with the envelope, then eroding each piece by the inter-building
// gap to guarantee minimum separation.
func synthesizeBands(env Envelope, typ plan.Typology, p plan.GenerationParameters, report *validation.Report) []Footprint {
	n := p.BuildingCount
	if n <= 0 {
		n = defaultBandCount(env.Polygon.Area(), typ, p)
	}

	gap := p.BuildingGap
	if gap <= 0 {
		gap = DefaultBuildingGap
	}

	min, max := env.Polygon.BoundingBox()
	w := max.X - min.X
	h := max.Y - min.Y

	var footprints []Footprint
	for i := 0; i < n; i++ {
		var band geo.Polygon
		if w >= h {
			x0 := min.X + float64(i)*w/float64(n)
			x1 := min.X + float64(i+1)*w/float64(n)
			band = geo.Rect(geo.Pt(x0, min.Y-1), geo.Pt(x1, max.Y+1))
		} else {
			y0 := min.Y + float64(i)*h/float64(n)
			y1 := min.Y + float64(i+1)*h/float64(n)
			band = geo.Rect(geo.Pt(min.X-1, y0), geo.Pt(max.X+1, y1))
		}

		parts, err := geo.Intersect(env.Polygon, band)
		if err != nil {
			report.Warnf(validation.LevelGeometry, string(typ),
				"band %d does not intersect the envelope; dropping chunk", i+1)
			continue
		}
		// A concave envelope can split a band into several pieces; keep the
		// largest connected part per band.
		chunk := geo.LargestPart(parts)
		if chunk.IsEmpty() {
			continue
		}

		eroded, err := geo.Buffer(chunk, -gap/2)
		if err != nil {
			// Too thin to erode: keep the un-eroded chunk rather than
			// dropping the building.
			report.Warnf(validation.LevelGeometry, string(typ),
				"chunk %d too thin for %.1f m separation gap; keeping full chunk", i+1, gap)
			footprints = append(footprints, Footprint{geo.SolidShape(chunk)})
			continue
		}
		footprints = append(footprints, Footprint{geo.SolidShape(eroded)})
	}

	if len(footprints) == 0 {
		report.Warnf(validation.LevelGeometry, string(typ),
			"band partitioning produced no chunks; using solid envelope")
		footprints = []Footprint{{geo.SolidShape(env.Polygon)}}
	}
	return footprints
}

// synthesizeLU intersects the perimeter ring with half-plane mask pieces
// selected by the bucketed orientation angle.
func synthesizeLU(env Envelope, typ plan.Typology, p plan.GenerationParameters, depth float64, report *validation.Report) Footprint {
	ring, solid := PerimeterRing(env.Polygon, depth)
	if solid {
		report.Warnf(validation.LevelGeometry, string(typ),
			"parcel too small for a %.1f m deep ring; mask applied to solid block", depth)
	}

	q := QuadrantFromDegrees(p.OrientationDeg)
	f := frameOf(env.Polygon)

	var pieces []geo.Polygon
	if typ == plan.TypologyL {
		pieces = lMaskPieces(q, f, depth)
	} else {
		pieces = uMaskPieces(q, f, depth)
	}

	return intersectMask(ring, pieces, fmt.Sprintf("%s/%s", typ, q), report)
}

// synthesizeTH intersects the perimeter ring with bar masks built from
// bounding-box fractions and rotated by the orientation angle.
func synthesizeTH(env Envelope, typ plan.Typology, p plan.GenerationParameters, depth float64, report *validation.Report) Footprint {
	ring, solid := PerimeterRing(env.Polygon, depth)
	if solid {
		report.Warnf(validation.LevelGeometry, string(typ),
			"parcel too small for a %.1f m deep ring; mask applied to solid block", depth)
	}

	f := frameOf(env.Polygon)
	var pieces []geo.Polygon
	if typ == plan.TypologyT {
		pieces = tMaskPieces(f, p.OrientationDeg)
	} else {
		pieces = hMaskPieces(f, p.OrientationDeg)
	}

	return intersectMask(ring, pieces, string(typ), report)
}

// intersectMask clips the ring against each disjoint mask piece and collects
// the parts. Adjacent pieces abut along mask edges, so solid parts are folded
// back together before they are reported as a footprint. If every
// intersection fails the footprint falls back to the ring itself.
func intersectMask(ring geo.Shape, pieces []geo.Polygon, label string, report *validation.Report) Footprint {
	var solids []geo.Polygon
	var fp Footprint
	for _, piece := range pieces {
		shapes, err := geo.IntersectShape(ring, piece)
		if err != nil {
			continue
		}
		for _, s := range shapes {
			if len(s.Holes) == 0 {
				solids = append(solids, s.Exterior)
				continue
			}
			fp = append(fp, s)
		}
	}
	for _, p := range geo.UnionAll(solids) {
		fp = append(fp, geo.SolidShape(p))
	}
	if fp.Area() < 1 {
		report.Warnf(validation.LevelGeometry, label,
			"mask intersection produced no usable footprint; falling back to ring")
		return Footprint{ring}
	}
	return fp
}

// defaultBandCount derives the band count from the per-building footprint
// ceiling when one is configured, capping the buildable area by the coverage
// ratio ceiling first. Without a footprint ceiling the typology default
// applies: one point tower, two slabs.
func defaultBandCount(envelopeArea float64, typ plan.Typology, p plan.GenerationParameters) int {
	usable := envelopeArea
	if hi := p.CoverageRatioRange[1]; hi > 0 && hi < 1 {
		usable = envelopeArea * hi
	}
	if maxFootprint := p.FootprintAreaRange[1]; maxFootprint > 0 {
		return ChunkCount(usable, maxFootprint)
	}
	if typ == plan.TypologyPoint {
		return 1
	}
	return 2
}

// ChunkCount suggests how many bands a slab layout should use for a given
// buildable area and footprint-area ceiling, at least one.
func ChunkCount(buildableArea, maxFootprintArea float64) int {
	if maxFootprintArea <= 0 || buildableArea <= maxFootprintArea {
		return 1
	}
	return int(math.Ceil(buildableArea / maxFootprintArea))
}
