package scenario

import (
	"github.com/gridline/siteplan/pkg/geo"
	"github.com/gridline/siteplan/pkg/massing"
	"github.com/gridline/siteplan/pkg/plan"
)

// Building is one massing element of a scenario.
type Building struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Use           string            `json:"use"`
	Footprint     massing.Footprint `json:"footprint"`
	FootprintArea float64           `json:"footprint_area"` // m²
	Floors        int               `json:"floors"`
	FloorToFloor  float64           `json:"floor_to_floor"` // m
	Height        float64           `json:"height"`         // m

	// Units is the dwelling-unit estimate from the average unit size, zero
	// when no unit size was configured.
	Units int `json:"units,omitempty"`
}

// GFA returns the building's gross floor area.
func (b Building) GFA() float64 {
	return b.FootprintArea * float64(b.Floors)
}

// ZoneKind classifies non-building scenario areas.
type ZoneKind string

const (
	ZoneGreen   ZoneKind = "green"
	ZoneParking ZoneKind = "parking"
	ZoneUtility ZoneKind = "utility"
	ZoneRoad    ZoneKind = "road"
)

// Zone is a green/parking/utility/road area within a scenario.
type Zone struct {
	ID      string    `json:"id"`
	Kind    ZoneKind  `json:"kind"`
	Name    string    `json:"name"`
	Polygon geo.Shape `json:"polygon"`
	Area    float64   `json:"area"` // m²
}

// Scenario is a named bundle of buildings and zones belonging to one plot.
// Scenarios are immutable once scored: scoring reads, never mutates.
type Scenario struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	PlotName       string        `json:"plot_name"`
	PlotArea       float64       `json:"plot_area"` // m², derived from the boundary
	Typology       plan.Typology `json:"typology"`
	OrientationDeg float64       `json:"orientation_deg"`

	Buildings    []Building `json:"buildings"`
	GreenAreas   []Zone     `json:"green_areas,omitempty"`
	ParkingAreas []Zone     `json:"parking_areas,omitempty"`
	UtilityAreas []Zone     `json:"utility_areas,omitempty"`
	Roads        []Zone     `json:"roads,omitempty"`

	// SetbackApplied is false when the buildable envelope fell back to the
	// full plot boundary; coverage scoring reflects the missing setback.
	SetbackApplied bool `json:"setback_applied"`

	// FAROverridden is set when the regulation's explicit FAR replaced the
	// requested target so callers can flag the discrepancy.
	FAROverridden bool    `json:"far_overridden"`
	RequestedFAR  float64 `json:"requested_far"`
	AppliedFAR    float64 `json:"applied_far"`

	// Program is the floor-area allocation across uses, m² per use.
	Program map[string]float64 `json:"program,omitempty"`
}

// TotalFootprintArea sums all building footprints.
func (s *Scenario) TotalFootprintArea() float64 {
	total := 0.0
	for _, b := range s.Buildings {
		total += b.FootprintArea
	}
	return total
}

// TotalGFA sums gross floor area across all buildings.
func (s *Scenario) TotalGFA() float64 {
	total := 0.0
	for _, b := range s.Buildings {
		total += b.GFA()
	}
	return total
}

// GreenArea sums the green zones.
func (s *Scenario) GreenArea() float64 {
	total := 0.0
	for _, z := range s.GreenAreas {
		total += z.Area
	}
	return total
}

// ParkingArea sums the parking zones.
func (s *Scenario) ParkingArea() float64 {
	total := 0.0
	for _, z := range s.ParkingAreas {
		total += z.Area
	}
	return total
}

// RoadArea sums the road zones.
func (s *Scenario) RoadArea() float64 {
	total := 0.0
	for _, z := range s.Roads {
		total += z.Area
	}
	return total
}
