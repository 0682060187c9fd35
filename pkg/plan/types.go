package plan

import (
	"github.com/gridline/siteplan/pkg/geo"
)

// Project is the top-level planning input bundle loaded from a project
// directory.
type Project struct {
	Plot        Plot                 `yaml:"plot" json:"plot"`
	Params      GenerationParameters `yaml:"generation" json:"generation"`
	Regulations []Regulation         `yaml:"regulations" json:"regulations"`
	CostParams  []CostParameter      `yaml:"cost_parameters" json:"cost_parameters"`
	TimeParams  []TimeParameter      `yaml:"time_parameters" json:"time_parameters"`
	GreenRules  []Rule               `yaml:"green_rules" json:"green_rules"`
	VastuRules  []Rule               `yaml:"vastu_rules" json:"vastu_rules"`
	Credits     []RatingCredit       `yaml:"credits" json:"credits"`
	Amenities   []Amenity            `yaml:"amenities" json:"amenities"`
	Simulations []SimulationResult   `yaml:"simulations" json:"simulations"`
	Estimator   EstimatorConfig      `yaml:"estimator" json:"estimator"`
}

// Plot is a land parcel. Area is always derived from the boundary, never
// stored independently.
type Plot struct {
	Name        string      `yaml:"name" json:"name"`
	Location    string      `yaml:"location" json:"location"`
	UseType     string      `yaml:"use_type" json:"use_type"`
	Boundary    geo.Polygon `yaml:"boundary" json:"boundary"`
	Setbacks    Setbacks    `yaml:"setbacks" json:"setbacks"`
	Coordinates *LatLng     `yaml:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// Area returns the plot area in square meters, recomputed from the boundary.
func (p Plot) Area() float64 {
	return p.Boundary.Area()
}

// Setbacks are the mandatory clear distances from the plot boundary, meters.
type Setbacks struct {
	Front float64 `yaml:"front" json:"front"`
	Rear  float64 `yaml:"rear" json:"rear"`
	Side  float64 `yaml:"side" json:"side"`
}

// Max returns the largest configured setback component. The envelope resolver
// applies a single scalar setback; the largest component is the conservative
// choice.
func (s Setbacks) Max() float64 {
	m := s.Front
	if s.Rear > m {
		m = s.Rear
	}
	if s.Side > m {
		m = s.Side
	}
	return m
}

// LatLng anchors a plot on the globe for amenity distance checks.
type LatLng struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lng float64 `yaml:"lng" json:"lng"`
}

// RangeValue is a regulation field carrying its permitted bounds. A nil
// *RangeValue on Regulation means that dimension is unconstrained, not zero.
type RangeValue struct {
	Value float64 `yaml:"value" json:"value"`
	Min   float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max   float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Unit  string  `yaml:"unit,omitempty" json:"unit,omitempty"`
}

// Regulation is a zoning record keyed by (location, use type).
type Regulation struct {
	Location string `yaml:"location" json:"location"`
	UseType  string `yaml:"use_type" json:"use_type"`

	// Geometry group.
	FAR               *RangeValue `yaml:"floor_area_ratio,omitempty" json:"floor_area_ratio,omitempty"`
	MaxGroundCoverage *RangeValue `yaml:"max_ground_coverage,omitempty" json:"max_ground_coverage,omitempty"` // percent
	MaxHeight         *RangeValue `yaml:"max_height,omitempty" json:"max_height,omitempty"`                   // meters
	FrontSetback      *RangeValue `yaml:"front_setback,omitempty" json:"front_setback,omitempty"`
	RearSetback       *RangeValue `yaml:"rear_setback,omitempty" json:"rear_setback,omitempty"`
	SideSetback       *RangeValue `yaml:"side_setback,omitempty" json:"side_setback,omitempty"`

	// Facilities group.
	ParkingRatio *RangeValue `yaml:"parking_ratio,omitempty" json:"parking_ratio,omitempty"` // spaces per 100 m² GFA
	OpenSpace    *RangeValue `yaml:"open_space,omitempty" json:"open_space,omitempty"`       // percent of plot

	// Sustainability group.
	RainwaterTarget *RangeValue `yaml:"rainwater_target,omitempty" json:"rainwater_target,omitempty"`
	SolarTarget     *RangeValue `yaml:"solar_target,omitempty" json:"solar_target,omitempty"`
	GreenCover      *RangeValue `yaml:"green_cover,omitempty" json:"green_cover,omitempty"` // percent of plot

	// Safety / administrative group.
	FireAccessWidth *RangeValue `yaml:"fire_access_width,omitempty" json:"fire_access_width,omitempty"`
	Authority       string      `yaml:"authority,omitempty" json:"authority,omitempty"`
	Notes           string      `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// MaxSetback returns the largest regulation setback, or 0 when none is set.
func (r Regulation) MaxSetback() float64 {
	m := 0.0
	for _, rv := range []*RangeValue{r.FrontSetback, r.RearSetback, r.SideSetback} {
		if rv != nil && rv.Value > m {
			m = rv.Value
		}
	}
	return m
}

// Typology is a canonical building footprint shape.
type Typology string

const (
	TypologyPoint     Typology = "point"
	TypologySlab      Typology = "slab"
	TypologyL         Typology = "l"
	TypologyU         Typology = "u"
	TypologyO         Typology = "o" // perimeter ring, closed
	TypologyT         Typology = "t"
	TypologyH         Typology = "h"
	TypologyPerimeter Typology = "perimeter"
)

// ParkingType selects where parking is provided.
type ParkingType string

const (
	ParkingNone        ParkingType = "none"
	ParkingUnderground ParkingType = "underground"
	ParkingPodium      ParkingType = "podium"
	ParkingSurface     ParkingType = "surface"
)

// ProgramMix allocates floor-area share across uses, in percent. The four
// components must sum to 100.
type ProgramMix struct {
	Residential   float64 `yaml:"residential" json:"residential"`
	Commercial    float64 `yaml:"commercial" json:"commercial"`
	Institutional float64 `yaml:"institutional" json:"institutional"`
	OpenSpace     float64 `yaml:"open_space" json:"open_space"`
}

// Sum returns the total of all mix components.
func (m ProgramMix) Sum() float64 {
	return m.Residential + m.Commercial + m.Institutional + m.OpenSpace
}

// GenerationParameters drive the massing generator.
type GenerationParameters struct {
	Typologies         []Typology  `yaml:"typologies" json:"typologies"`
	TargetFAR          float64     `yaml:"target_far" json:"target_far"`
	FloorRange         [2]int      `yaml:"floor_range" json:"floor_range"`
	HeightRange        [2]float64  `yaml:"height_range" json:"height_range"` // meters
	FootprintAreaRange [2]float64  `yaml:"footprint_area_range,omitempty" json:"footprint_area_range,omitempty"`
	CoverageRatioRange [2]float64  `yaml:"coverage_ratio_range,omitempty" json:"coverage_ratio_range,omitempty"`
	ParkingType        ParkingType `yaml:"parking_type" json:"parking_type"`
	ParkingRatio       float64     `yaml:"parking_ratio,omitempty" json:"parking_ratio,omitempty"`
	OrientationDeg     float64     `yaml:"orientation_deg" json:"orientation_deg"`
	AvgUnitSize        float64     `yaml:"avg_unit_size,omitempty" json:"avg_unit_size,omitempty"` // m²
	ProgramMix         ProgramMix  `yaml:"program_mix" json:"program_mix"`
	FloorToFloorHeight float64     `yaml:"floor_to_floor_height" json:"floor_to_floor_height"` // meters
	UtilityTypes       []string    `yaml:"utility_types,omitempty" json:"utility_types,omitempty"`
	BuildingDepth      float64     `yaml:"building_depth,omitempty" json:"building_depth,omitempty"` // meters
	BuildingGap        float64     `yaml:"building_gap,omitempty" json:"building_gap,omitempty"`     // meters
	BuildingCount      int         `yaml:"building_count,omitempty" json:"building_count,omitempty"`

	// ClampWithConfiguredFloorHeight selects whether max-height floor
	// clamping uses the configured floor-to-floor height instead of the
	// 3.5 m heuristic.
	ClampWithConfiguredFloorHeight bool `yaml:"clamp_with_configured_floor_height,omitempty" json:"clamp_with_configured_floor_height,omitempty"`
}

// EffectiveFloorHeight returns the configured floor-to-floor height, or the
// heuristic when unset.
func (g GenerationParameters) EffectiveFloorHeight() float64 {
	if g.FloorToFloorHeight > 0 {
		return g.FloorToFloorHeight
	}
	return HeuristicFloorHeight
}

// HeuristicFloorHeight is the fixed floor height assumption used only for
// approximate clamping, never for final height computation once an explicit
// floor height is set.
const HeuristicFloorHeight = 3.5

// Rule is a single scored criterion in a green-certification or vastu rule
// set supplied by an external extraction flow.
type Rule struct {
	ID       string  `yaml:"id" json:"id"`
	Name     string  `yaml:"name" json:"name"`
	Category string  `yaml:"category,omitempty" json:"category,omitempty"`
	Points   float64 `yaml:"points" json:"points"`
	Target   float64 `yaml:"target,omitempty" json:"target,omitempty"`
	Unit     string  `yaml:"unit,omitempty" json:"unit,omitempty"`
}

// RatingCredit is an imported certification credit to be auto-linked to
// internal compliance checks by keyword matching.
type RatingCredit struct {
	System string  `yaml:"system" json:"system"` // e.g. certification scheme name
	Name   string  `yaml:"name" json:"name"`
	Points float64 `yaml:"points" json:"points"`
}

// Amenity is a read-only snapshot entry from the amenity/location service.
type Amenity struct {
	Category       string  `yaml:"category" json:"category"`
	Lat            float64 `yaml:"lat,omitempty" json:"lat,omitempty"`
	Lng            float64 `yaml:"lng,omitempty" json:"lng,omitempty"`
	DistanceMeters float64 `yaml:"distance_m,omitempty" json:"distance_m,omitempty"`
}

// SimulationResult is a scalar compliance signal from the external
// solar/wind simulation service.
type SimulationResult struct {
	Type                 string  `yaml:"type" json:"type"` // "solar" | "wind"
	CompliantAreaPercent float64 `yaml:"compliant_area_percent" json:"compliant_area_percent"`
}

// CostParameter is a per-sqm cost record keyed by (location, building type).
type CostParameter struct {
	Location      string  `yaml:"location" json:"location"`
	BuildingType  string  `yaml:"building_type" json:"building_type"`
	Earthwork     float64 `yaml:"earthwork_per_sqm" json:"earthwork_per_sqm"`
	Structure     float64 `yaml:"structure_per_sqm" json:"structure_per_sqm"`
	Finishing     float64 `yaml:"finishing_per_sqm" json:"finishing_per_sqm"`
	Services      float64 `yaml:"services_per_sqm" json:"services_per_sqm"`
	SellableRatio float64 `yaml:"sellable_ratio" json:"sellable_ratio"`
	MarketRate    float64 `yaml:"market_rate_per_sqm" json:"market_rate_per_sqm"`
}

// TimeParameter is a duration record keyed by (building type, height category).
type TimeParameter struct {
	BuildingType          string  `yaml:"building_type" json:"building_type"`
	HeightCategory        string  `yaml:"height_category" json:"height_category"` // low_rise | mid_rise | high_rise
	StructureDaysPerFloor float64 `yaml:"structure_days_per_floor" json:"structure_days_per_floor"`
	FinishingDaysPerFloor float64 `yaml:"finishing_days_per_floor" json:"finishing_days_per_floor"`
	ExcavationMonths      float64 `yaml:"excavation_months" json:"excavation_months"`
	FoundationMonths      float64 `yaml:"foundation_months" json:"foundation_months"`
	ServicesOverlapFactor float64 `yaml:"services_overlap_factor" json:"services_overlap_factor"` // 0-1
	ContingencyMonths     float64 `yaml:"contingency_months" json:"contingency_months"`
}

// EstimatorConfig carries estimator behavior that used to be baked-in
// constants. DefaultLocation is the fallback location for cost lookups.
type EstimatorConfig struct {
	DefaultLocation string `yaml:"default_location" json:"default_location"`
}

// FindRegulation returns the regulation matching (location, useType), or nil
// when absent. Absence is a "using defaults" condition, not an error.
func (p Project) FindRegulation(location, useType string) *Regulation {
	for i := range p.Regulations {
		if p.Regulations[i].Location == location && p.Regulations[i].UseType == useType {
			return &p.Regulations[i]
		}
	}
	return nil
}
