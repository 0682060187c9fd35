package scenario

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/gridline/siteplan/pkg/geo"
	"github.com/gridline/siteplan/pkg/massing"
	"github.com/gridline/siteplan/pkg/plan"
	"github.com/gridline/siteplan/pkg/validation"
)

// AreaPerParkingSpace is the gross surface-parking allowance per space,
// including aisles and maneuvering, m².
const AreaPerParkingSpace = 30.0

// utilityZoneSide is the edge length of a schematic utility block, meters.
const utilityZoneSide = 6.0

// Assemble builds one scenario for the project's plot using the given
// typology. Geometry failures degrade to warnings with coarser output;
// the report carries every fallback taken.
func Assemble(project *plan.Project, params plan.GenerationParameters, typ plan.Typology, name string) (*Scenario, *validation.Report) {
	report := validation.NewReport()
	plot := project.Plot
	plotArea := plot.Area()

	reg := project.FindRegulation(plot.Location, plot.UseType)
	if reg == nil {
		report.AddInfo(validation.Result{
			Level:   validation.LevelInput,
			Field:   "regulations",
			Message: fmt.Sprintf("no regulation record for (%s, %s), using plot setbacks and requested targets", plot.Location, plot.UseType),
		})
	}

	setback := plot.Setbacks.Max()
	if reg != nil && reg.MaxSetback() > setback {
		setback = reg.MaxSetback()
	}

	env, envReport := massing.ResolveEnvelope(plot.Boundary, setback)
	report.Merge(envReport)

	requestedFAR := params.TargetFAR
	appliedFAR := requestedFAR
	if reg != nil && reg.FAR != nil && reg.FAR.Value > 0 && reg.FAR.Value != requestedFAR {
		appliedFAR = reg.FAR.Value
		report.Warnf(validation.LevelInput, "target_far",
			"requested FAR %.2f replaced by regulation FAR %.2f (%s)", requestedFAR, appliedFAR, reg.Authority)
	}

	footprints, synthReport := massing.Synthesize(env, typ, params)
	report.Merge(synthReport)

	totalFootprint := 0.0
	for _, fp := range footprints {
		totalFootprint += fp.Area()
	}

	if reg != nil && reg.MaxGroundCoverage != nil && reg.MaxGroundCoverage.Value > 0 {
		ceiling := reg.MaxGroundCoverage.Value / 100 * plotArea
		if totalFootprint > ceiling+geo.SnapTolerance {
			report.Warnf(validation.LevelGeometry, "ground_coverage",
				"synthesized footprint %.1f m² exceeds %.0f%% coverage ceiling (%.1f m²)",
				totalFootprint, reg.MaxGroundCoverage.Value, ceiling)
		}
	}

	floors := targetFloors(appliedFAR*plotArea, totalFootprint, params, reg, report)
	floorHeight := params.EffectiveFloorHeight()

	s := &Scenario{
		ID:             uuid.NewString(),
		Name:           name,
		PlotName:       plot.Name,
		PlotArea:       plotArea,
		Typology:       typ,
		OrientationDeg: params.OrientationDeg,
		SetbackApplied: env.SetbackApplied,
		FAROverridden:  appliedFAR != requestedFAR,
		RequestedFAR:   requestedFAR,
		AppliedFAR:     appliedFAR,
	}

	for i, fp := range footprints {
		b := Building{
			ID:            uuid.NewString(),
			Name:          fmt.Sprintf("Building %c", 'A'+i),
			Footprint:     fp,
			FootprintArea: fp.Area(),
			Floors:        floors,
			FloorToFloor:  floorHeight,
			Height:        float64(floors) * floorHeight,
		}
		if params.AvgUnitSize > 0 {
			b.Units = int(b.GFA() / params.AvgUnitSize)
		}
		s.Buildings = append(s.Buildings, b)
	}

	s.Program = allocateProgram(s, params.ProgramMix)

	synthesizeOpenZones(s, plot, env, reg, params, report)

	return s, report
}

// targetFloors converts a gross-floor-area target into a uniform floor count,
// clamped to the requested floor range and to the applicable height limit.
func targetFloors(gfaTarget, footprintArea float64, params plan.GenerationParameters, reg *plan.Regulation, report *validation.Report) int {
	if footprintArea <= 0 {
		return params.FloorRange[0]
	}
	floors := int(math.Round(gfaTarget / footprintArea))

	if lo := params.FloorRange[0]; lo > 0 && floors < lo {
		floors = lo
	}
	if hi := params.FloorRange[1]; hi > 0 && floors > hi {
		report.Warnf(validation.LevelGeometry, "floor_range",
			"FAR target needs %d floors, clamped to requested maximum %d", floors, hi)
		floors = hi
	}

	maxHeight := params.HeightRange[1]
	if reg != nil && reg.MaxHeight != nil && reg.MaxHeight.Value > 0 {
		if maxHeight == 0 || reg.MaxHeight.Value < maxHeight {
			maxHeight = reg.MaxHeight.Value
		}
	}
	if maxHeight > 0 {
		clampHeight := plan.HeuristicFloorHeight
		if params.ClampWithConfiguredFloorHeight {
			clampHeight = params.EffectiveFloorHeight()
		}
		byHeight := int(math.Floor(maxHeight / clampHeight))
		if byHeight < 1 {
			byHeight = 1
		}
		if floors > byHeight {
			report.Warnf(validation.LevelGeometry, "max_height",
				"floor count %d exceeds %.1f m height limit, clamped to %d", floors, maxHeight, byHeight)
			floors = byHeight
		}
	}

	if floors < 1 {
		floors = 1
	}
	return floors
}

// allocateProgram splits the scenario's GFA across built uses per the mix
// and tags each building with the use holding the largest unmet share.
// The open-space component describes ground area, not floor area, so it is
// excluded from the split.
func allocateProgram(s *Scenario, mix plan.ProgramMix) map[string]float64 {
	builtShare := mix.Residential + mix.Commercial + mix.Institutional
	totalGFA := s.TotalGFA()
	if builtShare <= 0 || totalGFA <= 0 {
		for i := range s.Buildings {
			s.Buildings[i].Use = "residential"
		}
		return map[string]float64{"residential": totalGFA}
	}

	target := map[string]float64{
		"residential":   totalGFA * mix.Residential / builtShare,
		"commercial":    totalGFA * mix.Commercial / builtShare,
		"institutional": totalGFA * mix.Institutional / builtShare,
	}

	remaining := map[string]float64{}
	for use, gfa := range target {
		remaining[use] = gfa
	}
	for i := range s.Buildings {
		best, bestGap := "residential", math.Inf(-1)
		for _, use := range []string{"residential", "commercial", "institutional"} {
			if remaining[use] > bestGap {
				best, bestGap = use, remaining[use]
			}
		}
		s.Buildings[i].Use = best
		remaining[best] -= s.Buildings[i].GFA()
	}

	program := map[string]float64{}
	for use, gfa := range target {
		if gfa > 0 {
			program[use] = gfa
		}
	}
	return program
}

// synthesizeOpenZones fills the scenario's non-building areas: the setback
// band becomes green cover, optionally split with a fire-access loop, a
// schematic surface-parking strip is carved inside the envelope, and utility
// blocks line the envelope's north edge.
func synthesizeOpenZones(s *Scenario, plot plan.Plot, env massing.Envelope, reg *plan.Regulation, params plan.GenerationParameters, report *validation.Report) {
	if env.SetbackApplied && env.Setback > 0 {
		greenInner := env.Polygon
		fireWidth := 0.0
		if reg != nil && reg.FireAccessWidth != nil {
			fireWidth = reg.FireAccessWidth.Value
		}
		if fireWidth > 0 && fireWidth < env.Setback {
			if loop, err := geo.Buffer(plot.Boundary, -fireWidth); err == nil {
				if road, err := geo.Difference(plot.Boundary, loop); err == nil {
					s.Roads = append(s.Roads, newZone(ZoneRoad, "fire access loop", road))
					// remaining band runs from the loop's inner edge to the envelope
					if band, err := geo.Difference(loop, greenInner); err == nil {
						appendGreenBand(s, band)
						greenInner = geo.Polygon{} // band consumed
					}
				}
			}
			if len(s.Roads) == 0 {
				report.Warnf(validation.LevelGeometry, "fire_access_width",
					"fire access loop of %.1f m could not be carved, folding into green band", fireWidth)
			}
		}
		if !greenInner.IsEmpty() {
			if band, err := geo.Difference(plot.Boundary, greenInner); err == nil {
				appendGreenBand(s, band)
			} else {
				report.Warnf(validation.LevelGeometry, "setbacks",
					"setback band could not be derived: %v", err)
			}
		}
	}

	if params.ParkingType == plan.ParkingSurface {
		ratio := params.ParkingRatio
		if reg != nil && reg.ParkingRatio != nil && reg.ParkingRatio.Value > 0 {
			ratio = reg.ParkingRatio.Value
		}
		if ratio > 0 {
			spaces := math.Ceil(s.TotalGFA() / 100 * ratio)
			area := spaces * AreaPerParkingSpace
			if strip, ok := southStrip(env.Polygon, area); ok {
				s.ParkingAreas = append(s.ParkingAreas, Zone{
					ID:      uuid.NewString(),
					Kind:    ZoneParking,
					Name:    fmt.Sprintf("surface parking (%d spaces)", int(spaces)),
					Polygon: geo.SolidShape(strip),
					Area:    strip.Area(),
				})
			} else {
				report.Warnf(validation.LevelGeometry, "parking_type",
					"surface parking for %d spaces (%.0f m²) does not fit the envelope", int(spaces), area)
			}
		}
	}

	lo, hi := env.Polygon.BoundingBox()
	for i, ut := range params.UtilityTypes {
		x0 := lo.X + float64(i)*(utilityZoneSide+2)
		if x0+utilityZoneSide > hi.X {
			report.Warnf(validation.LevelGeometry, "utility_types",
				"no room left along the north edge for utility %q", ut)
			break
		}
		block := geo.Rect(geo.Pt(x0, hi.Y-utilityZoneSide), geo.Pt(x0+utilityZoneSide, hi.Y))
		s.UtilityAreas = append(s.UtilityAreas, Zone{
			ID:      uuid.NewString(),
			Kind:    ZoneUtility,
			Name:    ut,
			Polygon: geo.SolidShape(block),
			Area:    block.Area(),
		})
	}
}

func appendGreenBand(s *Scenario, band []geo.Shape) {
	for _, part := range band {
		if part.Area() < 1 {
			continue
		}
		s.GreenAreas = append(s.GreenAreas, Zone{
			ID:      uuid.NewString(),
			Kind:    ZoneGreen,
			Name:    "perimeter green band",
			Polygon: part,
			Area:    part.Area(),
		})
	}
}

func newZone(kind ZoneKind, name string, parts []geo.Shape) Zone {
	z := Zone{ID: uuid.NewString(), Kind: kind, Name: name}
	if len(parts) > 0 {
		z.Polygon = parts[0]
	}
	z.Area = geo.TotalArea(parts)
	return z
}

// southStrip returns a parking rectangle hugging the envelope's south edge,
// or false when the requested area cannot fit at half the envelope height.
func southStrip(env geo.Polygon, area float64) (geo.Polygon, bool) {
	lo, hi := env.BoundingBox()
	width := hi.X - lo.X
	if width <= 0 {
		return geo.Polygon{}, false
	}
	depth := area / width
	if depth > (hi.Y-lo.Y)/2 {
		return geo.Polygon{}, false
	}
	strip := geo.Rect(lo, geo.Pt(hi.X, lo.Y+depth))
	parts, err := geo.Intersect(strip, env)
	if err != nil {
		return geo.Polygon{}, false
	}
	return geo.LargestPart(parts), true
}
