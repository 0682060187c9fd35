package validation

import (
	"fmt"
	"math"

	"github.com/gridline/siteplan/pkg/plan"
)

// ValidateInputs checks the plot, generation parameters and regulation for
// structural correctness before any geometry runs. Invalid inputs block
// generation entirely with a specific reason; the core repairs degenerate
// intermediate geometry but never invalid inputs.
func ValidateInputs(p *plan.Project) *Report {
	r := NewReport()

	validatePlot(p, r)
	validateParams(p, r)
	validateRegulations(p, r)

	return r
}

func validatePlot(p *plan.Project, r *Report) {
	b := p.Plot.Boundary
	if b.Len() < 3 {
		r.AddError(Result{
			Level:       LevelInput,
			Message:     "plot boundary must have at least 3 vertices",
			Field:       "plot.boundary",
			ActualValue: b.Len(),
			Expected:    ">= 3 vertices",
		})
		return
	}
	if !b.IsSimple() {
		r.AddError(Result{
			Level:    LevelInput,
			Message:  "plot boundary is self-intersecting",
			Field:    "plot.boundary",
			Expected: "a simple (non-self-intersecting) polygon",
		})
	}
	if b.Area() <= 0 {
		r.AddError(Result{
			Level:       LevelInput,
			Message:     "plot boundary encloses no area",
			Field:       "plot.boundary",
			ActualValue: b.Area(),
			Expected:    "> 0 m²",
		})
	}
	for name, v := range map[string]float64{
		"front": p.Plot.Setbacks.Front,
		"rear":  p.Plot.Setbacks.Rear,
		"side":  p.Plot.Setbacks.Side,
	} {
		if v < 0 {
			r.AddError(Result{
				Level:       LevelInput,
				Message:     fmt.Sprintf("setbacks.%s must be non-negative", name),
				Field:       fmt.Sprintf("plot.setbacks.%s", name),
				ActualValue: v,
				Expected:    ">= 0",
			})
		}
	}
}

func validateParams(p *plan.Project, r *Report) {
	g := p.Params

	if g.TargetFAR <= 0 {
		r.AddError(Result{
			Level:       LevelInput,
			Message:     "target FAR must be greater than 0",
			Field:       "generation.target_far",
			ActualValue: g.TargetFAR,
			Expected:    "> 0",
		})
	}

	if len(g.Typologies) == 0 {
		r.AddError(Result{
			Level:    LevelInput,
			Message:  "at least one typology must be selected",
			Field:    "generation.typologies",
			Expected: "one or more of point/slab/l/u/o/t/h/perimeter",
		})
	}

	if g.FloorRange[0] > g.FloorRange[1] {
		r.AddError(Result{
			Level:       LevelInput,
			Message:     fmt.Sprintf("floor range [%d,%d] is inverted", g.FloorRange[0], g.FloorRange[1]),
			Field:       "generation.floor_range",
			ActualValue: g.FloorRange,
		})
	}

	if sum := g.ProgramMix.Sum(); math.Abs(sum-100) > 0.5 {
		r.AddError(Result{
			Level:       LevelInput,
			Message:     fmt.Sprintf("program mix must sum to 100%% (got %.1f%%)", sum),
			Field:       "generation.program_mix",
			ActualValue: sum,
			Expected:    "100 (±0.5)",
			Suggestions: []string{"Adjust residential/commercial/institutional/open-space shares so they sum to 100"},
		})
	}

	// Floor and height ranges must agree under the clamping floor height.
	if g.HeightRange[1] > 0 && g.FloorRange[0] > 0 {
		fh := plan.HeuristicFloorHeight
		if g.ClampWithConfiguredFloorHeight {
			fh = g.EffectiveFloorHeight()
		}
		minHeight := float64(g.FloorRange[0]) * fh
		if minHeight > g.HeightRange[1] {
			r.AddError(Result{
				Level:       LevelInput,
				Message:     fmt.Sprintf("minimum floors (%d) cannot fit within the height range maximum (%.1f m at %.1f m/floor)", g.FloorRange[0], g.HeightRange[1], fh),
				Field:       "generation.floor_range",
				ActualValue: g.FloorRange[0],
				Expected:    fmt.Sprintf("<= %d floors", int(g.HeightRange[1]/fh)),
			})
		}
	}
}

func validateRegulations(p *plan.Project, r *Report) {
	for i, reg := range p.Regulations {
		if reg.FAR != nil && reg.FAR.Value <= 0 {
			r.AddError(Result{
				Level:       LevelInput,
				Message:     fmt.Sprintf("regulation %s/%s: floor_area_ratio must be > 0", reg.Location, reg.UseType),
				Field:       fmt.Sprintf("regulations[%d].floor_area_ratio", i),
				ActualValue: reg.FAR.Value,
				Expected:    "> 0",
			})
		}
		if reg.MaxGroundCoverage != nil {
			c := reg.MaxGroundCoverage.Value
			if c <= 0 || c > 100 {
				r.AddError(Result{
					Level:       LevelInput,
					Message:     fmt.Sprintf("regulation %s/%s: max_ground_coverage must be in (0,100]", reg.Location, reg.UseType),
					Field:       fmt.Sprintf("regulations[%d].max_ground_coverage", i),
					ActualValue: c,
					Expected:    "0 < coverage <= 100",
				})
			}
		}
		if reg.MaxHeight != nil && reg.MaxHeight.Value <= 0 {
			r.AddError(Result{
				Level:       LevelInput,
				Message:     fmt.Sprintf("regulation %s/%s: max_height must be > 0", reg.Location, reg.UseType),
				Field:       fmt.Sprintf("regulations[%d].max_height", i),
				ActualValue: reg.MaxHeight.Value,
				Expected:    "> 0",
			})
		}
	}
}
