package score

import (
	"math"

	"github.com/gridline/siteplan/pkg/plan"
	"github.com/gridline/siteplan/pkg/scenario"
)

// DevelopmentMetrics are the derived quantities every check reads. All areas
// are m², all percentages are of the plot area.
type DevelopmentMetrics struct {
	PlotArea       float64 `json:"plot_area"`
	FootprintArea  float64 `json:"footprint_area"`
	TotalGFA       float64 `json:"total_gfa"`
	AchievedFAR    float64 `json:"achieved_far"`
	GroundCoverage float64 `json:"ground_coverage_pct"`
	GreenCover     float64 `json:"green_cover_pct"`
	OpenSpaceArea  float64 `json:"open_space_area"`
	OpenSpace      float64 `json:"open_space_pct"`
	RoadArea       float64 `json:"road_area"`
	TallestHeight  float64 `json:"tallest_height"`
	MaxFloors      int     `json:"max_floors"`

	ParkingRequired int `json:"parking_required"` // spaces
	ParkingProvided int `json:"parking_provided"` // spaces
}

// ComputeMetrics derives the scenario's development metrics. It reads the
// scenario and never mutates it; calling it twice yields identical values.
func ComputeMetrics(project *plan.Project, s *scenario.Scenario) DevelopmentMetrics {
	m := DevelopmentMetrics{
		PlotArea:      s.PlotArea,
		FootprintArea: s.TotalFootprintArea(),
		TotalGFA:      s.TotalGFA(),
	}
	if m.PlotArea > 0 {
		m.AchievedFAR = m.TotalGFA / m.PlotArea
		m.GroundCoverage = m.FootprintArea / m.PlotArea * 100
		m.GreenCover = s.GreenArea() / m.PlotArea * 100
	}
	m.OpenSpaceArea = m.PlotArea - m.FootprintArea
	if m.OpenSpaceArea < 0 {
		m.OpenSpaceArea = 0
	}
	if m.PlotArea > 0 {
		m.OpenSpace = m.OpenSpaceArea / m.PlotArea * 100
	}
	m.RoadArea = s.RoadArea()
	for _, b := range s.Buildings {
		if b.Height > m.TallestHeight {
			m.TallestHeight = b.Height
		}
		if b.Floors > m.MaxFloors {
			m.MaxFloors = b.Floors
		}
	}

	m.ParkingRequired, m.ParkingProvided = parkingCounts(project, s, m.TotalGFA)
	return m
}

// parkingCounts resolves the required space count from the regulation (or the
// generation parameters when no regulation applies) and the provided count
// from the scenario's parking zones. Podium and underground parking is
// structural, not surface, so its demand is treated as met.
func parkingCounts(project *plan.Project, s *scenario.Scenario, totalGFA float64) (required, provided int) {
	ratio := project.Params.ParkingRatio
	reg := project.FindRegulation(project.Plot.Location, project.Plot.UseType)
	if reg != nil && reg.ParkingRatio != nil && reg.ParkingRatio.Value > 0 {
		ratio = reg.ParkingRatio.Value
	}
	if ratio > 0 {
		required = int(math.Ceil(totalGFA / 100 * ratio))
	}

	switch project.Params.ParkingType {
	case plan.ParkingUnderground, plan.ParkingPodium:
		provided = required
	default:
		provided = int(math.Floor(s.ParkingArea() / scenario.AreaPerParkingSpace))
	}
	return required, provided
}
