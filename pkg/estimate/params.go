package estimate

import (
	"errors"
	"strings"

	"github.com/gridline/siteplan/pkg/plan"
)

// ErrNoCostParameters means the project carries no cost records at all, so
// even the fallback chain has nothing to offer.
var ErrNoCostParameters = errors.New("estimate: no cost parameters configured")

// ErrNoTimeParameters is the timeline counterpart of ErrNoCostParameters.
var ErrNoTimeParameters = errors.New("estimate: no time parameters configured")

// Resolution records which rung of the fallback ladder supplied a parameter
// record, so an estimate built on borrowed rates is visibly approximate.
type Resolution string

const (
	ResolvedExact           Resolution = "exact"
	ResolvedDefaultLocation Resolution = "default_location"
	ResolvedCategoryOnly    Resolution = "category_only"
	ResolvedFirstAvailable  Resolution = "first_available"
)

// resolveCost finds the cost record for (location, buildingType), falling
// back to the configured default location and finally to the first record.
func resolveCost(project *plan.Project, location, buildingType string) (plan.CostParameter, Resolution, error) {
	if len(project.CostParams) == 0 {
		return plan.CostParameter{}, "", ErrNoCostParameters
	}
	if cp := findCost(project.CostParams, location, buildingType); cp != nil {
		return *cp, ResolvedExact, nil
	}
	if def := project.Estimator.DefaultLocation; def != "" && def != location {
		if cp := findCost(project.CostParams, def, buildingType); cp != nil {
			return *cp, ResolvedDefaultLocation, nil
		}
	}
	return project.CostParams[0], ResolvedFirstAvailable, nil
}

// Lookups are case-insensitive: imported tables capitalize freely.
func findCost(params []plan.CostParameter, location, buildingType string) *plan.CostParameter {
	for i := range params {
		if strings.EqualFold(params[i].Location, location) && strings.EqualFold(params[i].BuildingType, buildingType) {
			return &params[i]
		}
	}
	return nil
}

// Height category cutoffs, floors.
const (
	lowRiseMaxFloors = 4
	midRiseMaxFloors = 12
)

// HeightCategory buckets a floor count for time-parameter lookup.
func HeightCategory(floors int) string {
	switch {
	case floors <= lowRiseMaxFloors:
		return "low_rise"
	case floors <= midRiseMaxFloors:
		return "mid_rise"
	default:
		return "high_rise"
	}
}

// resolveTime finds the time record for (buildingType, floors), falling back
// to any record in the same height category and finally to the first record.
func resolveTime(project *plan.Project, buildingType string, floors int) (plan.TimeParameter, Resolution, error) {
	if len(project.TimeParams) == 0 {
		return plan.TimeParameter{}, "", ErrNoTimeParameters
	}
	category := HeightCategory(floors)
	for i := range project.TimeParams {
		tp := project.TimeParams[i]
		if strings.EqualFold(tp.BuildingType, buildingType) && tp.HeightCategory == category {
			return tp, ResolvedExact, nil
		}
	}
	for i := range project.TimeParams {
		if project.TimeParams[i].HeightCategory == category {
			return project.TimeParams[i], ResolvedCategoryOnly, nil
		}
	}
	return project.TimeParams[0], ResolvedFirstAvailable, nil
}
