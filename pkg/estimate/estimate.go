package estimate

import (
	"math"

	"github.com/gridline/siteplan/pkg/plan"
	"github.com/gridline/siteplan/pkg/scenario"
	"github.com/gridline/siteplan/pkg/validation"
)

// ProjectContingencyRate is added on top of the summed building costs.
const ProjectContingencyRate = 0.05

// Potential-mode assumptions used when no scenario exists yet.
const (
	potentialCoverageRatio = 0.5
	potentialFloors        = 4
)

const daysPerMonth = 30.0

// EfficiencyStatus describes how much of the permitted buildable area a
// scenario consumes.
type EfficiencyStatus string

const (
	EfficiencyOptimal     EfficiencyStatus = "optimal"
	EfficiencyInefficient EfficiencyStatus = "inefficient"
	EfficiencyAggressive  EfficiencyStatus = "aggressive"
)

// Utilization cutoffs for the efficiency status, as a fraction of the
// permitted GFA.
const (
	inefficientBelow = 0.85
	aggressiveAbove  = 1.0
)

// BuildingEstimate is the cost and timeline breakdown for one building.
type BuildingEstimate struct {
	BuildingID   string  `json:"building_id"`
	BuildingName string  `json:"building_name"`
	Use          string  `json:"use"`
	GFA          float64 `json:"gfa"` // m²
	Floors       int     `json:"floors"`

	Earthwork float64 `json:"earthwork"`
	Structure float64 `json:"structure"`
	Finishing float64 `json:"finishing"`
	Services  float64 `json:"services"`
	TotalCost float64 `json:"total_cost"`
	Revenue   float64 `json:"revenue"`

	Months float64 `json:"months"`

	CostLocation   string     `json:"cost_location"`
	CostResolution Resolution `json:"cost_resolution"`
	TimeResolution Resolution `json:"time_resolution"`
}

// ProjectEstimate aggregates all buildings of a scenario.
type ProjectEstimate struct {
	ScenarioID   string             `json:"scenario_id,omitempty"`
	ScenarioName string             `json:"scenario_name,omitempty"`
	Buildings    []BuildingEstimate `json:"buildings"`

	TotalCost   float64 `json:"total_cost"`
	Contingency float64 `json:"contingency"`
	GrandTotal  float64 `json:"grand_total"`
	Revenue     float64 `json:"revenue"`
	Margin      float64 `json:"margin"`

	// TimelineMonths is the longest single building's duration: buildings
	// run in parallel, so the slowest one is the critical path.
	TimelineMonths float64 `json:"timeline_months"`
	CriticalPathID string  `json:"critical_path_building_id,omitempty"`

	Efficiency  EfficiencyStatus `json:"efficiency"`
	IsPotential bool             `json:"is_potential"`
}

// Estimate prices a scenario building by building. Parameter lookups walk
// the fallback chain and record their resolution; only a project with no
// parameter records at all fails.
func Estimate(project *plan.Project, s *scenario.Scenario) (*ProjectEstimate, *validation.Report, error) {
	report := validation.NewReport()
	pe := &ProjectEstimate{ScenarioID: s.ID, ScenarioName: s.Name}

	for _, b := range s.Buildings {
		be, err := estimateBuilding(project, b, report)
		if err != nil {
			report.AddError(validation.Result{
				Level:   validation.LevelEstimate,
				Field:   "cost_parameters",
				Message: err.Error(),
			})
			return nil, report, err
		}
		pe.Buildings = append(pe.Buildings, be)
		pe.TotalCost += be.TotalCost
		pe.Revenue += be.Revenue
		if be.Months > pe.TimelineMonths {
			pe.TimelineMonths = be.Months
			pe.CriticalPathID = be.BuildingID
		}
	}

	pe.Contingency = pe.TotalCost * ProjectContingencyRate
	pe.GrandTotal = pe.TotalCost + pe.Contingency
	pe.Margin = pe.Revenue - pe.GrandTotal
	pe.Efficiency = efficiencyStatus(project, s)
	return pe, report, nil
}

func estimateBuilding(project *plan.Project, b scenario.Building, report *validation.Report) (BuildingEstimate, error) {
	floors := buildingFloors(b)
	be := BuildingEstimate{
		BuildingID:   b.ID,
		BuildingName: b.Name,
		Use:          b.Use,
		Floors:       floors,
		GFA:          b.FootprintArea * float64(floors),
	}

	cp, costRes, err := resolveCost(project, project.Plot.Location, b.Use)
	if err != nil {
		return be, err
	}
	be.CostLocation = cp.Location
	be.CostResolution = costRes
	if costRes != ResolvedExact {
		report.Warnf(validation.LevelEstimate, "cost_parameters",
			"%s: no cost record for (%s, %s), using rates from %s (%s)",
			b.Name, project.Plot.Location, b.Use, cp.Location, costRes)
	}

	be.Earthwork = be.GFA * cp.Earthwork
	be.Structure = be.GFA * cp.Structure
	be.Finishing = be.GFA * cp.Finishing
	be.Services = be.GFA * cp.Services
	be.TotalCost = be.Earthwork + be.Structure + be.Finishing + be.Services
	be.Revenue = be.GFA * cp.SellableRatio * cp.MarketRate

	tp, timeRes, err := resolveTime(project, b.Use, floors)
	if err != nil {
		return be, err
	}
	be.TimeResolution = timeRes
	if timeRes != ResolvedExact {
		report.Warnf(validation.LevelEstimate, "time_parameters",
			"%s: no time record for (%s, %s), using %s/%s (%s)",
			b.Name, b.Use, HeightCategory(floors), tp.BuildingType, tp.HeightCategory, timeRes)
	}
	be.Months = buildDuration(tp, floors)
	return be, nil
}

// buildingFloors prefers the explicit floor count; a building carrying only a
// height is converted with its floor-to-floor height. The derived count feeds
// GFA, the height-category lookup and the duration formula alike.
func buildingFloors(b scenario.Building) int {
	if b.Floors > 0 {
		return b.Floors
	}
	if b.Height > 0 && b.FloorToFloor > 0 {
		return int(math.Ceil(b.Height / b.FloorToFloor))
	}
	return 0
}

// buildDuration sequences excavation, foundation and structure, then credits
// back the share of finishing that overlaps the structural work.
func buildDuration(tp plan.TimeParameter, floors int) float64 {
	structureMonths := tp.StructureDaysPerFloor * float64(floors) / daysPerMonth
	finishingMonths := tp.FinishingDaysPerFloor * float64(floors) / daysPerMonth
	overlap := finishingMonths * tp.ServicesOverlapFactor
	return tp.ExcavationMonths + tp.FoundationMonths + structureMonths + finishingMonths - overlap + tp.ContingencyMonths
}

// efficiencyStatus compares achieved GFA against what the applied FAR
// permits.
func efficiencyStatus(project *plan.Project, s *scenario.Scenario) EfficiencyStatus {
	permitted := s.AppliedFAR * s.PlotArea
	if permitted <= 0 {
		return EfficiencyOptimal
	}
	utilization := s.TotalGFA() / permitted
	switch {
	case utilization < inefficientBelow:
		return EfficiencyInefficient
	case utilization > aggressiveAbove+1e-9:
		return EfficiencyAggressive
	default:
		return EfficiencyOptimal
	}
}

// potentialCapacity derives theoretical GFA and floor count from the
// regulation's FAR and coverage limits. Without a FAR the defaults stand in:
// half coverage built to four floors.
func potentialCapacity(project *plan.Project) (gfa float64, floors int) {
	plotArea := project.Plot.Area()
	coverage := potentialCoverageRatio
	reg := project.FindRegulation(project.Plot.Location, project.Plot.UseType)
	if reg != nil && reg.MaxGroundCoverage != nil && reg.MaxGroundCoverage.Value > 0 {
		coverage = reg.MaxGroundCoverage.Value / 100
	}
	if reg == nil || reg.FAR == nil || reg.FAR.Value <= 0 {
		return plotArea * coverage * potentialFloors, potentialFloors
	}

	gfa = reg.FAR.Value * plotArea
	derived := math.Ceil(reg.FAR.Value / coverage)
	if math.IsNaN(derived) || math.IsInf(derived, 0) || derived <= 0 {
		return gfa, potentialFloors
	}
	return gfa, int(derived)
}

// EstimatePotential prices a plot before any scenario exists, from the plot's
// regulation capacity rather than a designed layout. The result is flagged as
// potential so it is never mistaken for a scenario estimate.
func EstimatePotential(project *plan.Project) (*ProjectEstimate, *validation.Report, error) {
	report := validation.NewReport()
	gfa, floors := potentialCapacity(project)

	cp, costRes, err := resolveCost(project, project.Plot.Location, project.Plot.UseType)
	if err != nil {
		report.AddError(validation.Result{
			Level:   validation.LevelEstimate,
			Field:   "cost_parameters",
			Message: err.Error(),
		})
		return nil, report, err
	}
	if costRes != ResolvedExact {
		report.Warnf(validation.LevelEstimate, "cost_parameters",
			"no cost record for (%s, %s), using rates from %s (%s)",
			project.Plot.Location, project.Plot.UseType, cp.Location, costRes)
	}

	be := BuildingEstimate{
		BuildingName:   "potential massing",
		Use:            project.Plot.UseType,
		GFA:            gfa,
		Floors:         floors,
		CostLocation:   cp.Location,
		CostResolution: costRes,
	}
	be.Earthwork = gfa * cp.Earthwork
	be.Structure = gfa * cp.Structure
	be.Finishing = gfa * cp.Finishing
	be.Services = gfa * cp.Services
	be.TotalCost = be.Earthwork + be.Structure + be.Finishing + be.Services
	be.Revenue = gfa * cp.SellableRatio * cp.MarketRate

	if tp, timeRes, err := resolveTime(project, project.Plot.UseType, floors); err == nil {
		be.TimeResolution = timeRes
		be.Months = buildDuration(tp, floors)
	} else {
		report.Warnf(validation.LevelEstimate, "time_parameters",
			"no time parameters configured, potential estimate carries no timeline")
	}

	pe := &ProjectEstimate{
		Buildings:      []BuildingEstimate{be},
		TotalCost:      be.TotalCost,
		Revenue:        be.Revenue,
		TimelineMonths: be.Months,
		Efficiency:     EfficiencyOptimal,
		IsPotential:    true,
	}
	pe.Contingency = pe.TotalCost * ProjectContingencyRate
	pe.GrandTotal = pe.TotalCost + pe.Contingency
	pe.Margin = pe.Revenue - pe.GrandTotal
	return pe, report, nil
}
