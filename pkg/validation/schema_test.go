package validation

import (
	"testing"

	"github.com/gridline/siteplan/pkg/geo"
	"github.com/gridline/siteplan/pkg/plan"
)

func validProject() *plan.Project {
	return &plan.Project{
		Plot: plan.Plot{
			Name:     "Test Parcel",
			Location: "Delhi",
			UseType:  "Residential",
			Boundary: geo.Rect(geo.Pt(0, 0), geo.Pt(60, 40)),
			Setbacks: plan.Setbacks{Front: 5, Rear: 5, Side: 5},
		},
		Params: plan.GenerationParameters{
			Typologies:  []plan.Typology{plan.TypologySlab},
			TargetFAR:   2.0,
			FloorRange:  [2]int{1, 20},
			HeightRange: [2]float64{0, 30},
			ProgramMix:  plan.ProgramMix{Residential: 100},
		},
	}
}

func hasErrorOn(r *Report, field string) bool {
	for _, e := range r.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidateInputsAcceptsValidProject(t *testing.T) {
	r := ValidateInputs(validProject())
	if !r.Valid {
		t.Fatalf("valid project rejected: %+v", r.Errors)
	}
}

func TestValidatePlot(t *testing.T) {
	p := validProject()
	p.Plot.Boundary = geo.NewPolygon(geo.Pt(0, 0), geo.Pt(10, 10))
	r := ValidateInputs(p)
	if r.Valid || !hasErrorOn(r, "plot.boundary") {
		t.Error("two-vertex boundary must be rejected")
	}

	p = validProject()
	// bowtie
	p.Plot.Boundary = geo.NewPolygon(geo.Pt(0, 0), geo.Pt(10, 10), geo.Pt(10, 0), geo.Pt(0, 10))
	r = ValidateInputs(p)
	if r.Valid {
		t.Error("self-intersecting boundary must be rejected")
	}

	p = validProject()
	p.Plot.Setbacks.Front = -2
	r = ValidateInputs(p)
	if r.Valid || !hasErrorOn(r, "plot.setbacks.front") {
		t.Error("negative setback must be rejected")
	}
}

func TestValidateParams(t *testing.T) {
	p := validProject()
	p.Params.TargetFAR = 0
	if r := ValidateInputs(p); r.Valid {
		t.Error("zero FAR must be rejected")
	}

	p = validProject()
	p.Params.Typologies = nil
	if r := ValidateInputs(p); r.Valid {
		t.Error("empty typology list must be rejected")
	}

	p = validProject()
	p.Params.FloorRange = [2]int{10, 2}
	if r := ValidateInputs(p); r.Valid {
		t.Error("inverted floor range must be rejected")
	}

	p = validProject()
	p.Params.ProgramMix = plan.ProgramMix{Residential: 60, Commercial: 20}
	if r := ValidateInputs(p); r.Valid {
		t.Error("program mix summing to 80 must be rejected")
	}
}

func TestValidateFloorHeightAgreement(t *testing.T) {
	p := validProject()
	// 10 floors at the 3.5 m heuristic is 35 m, over the 30 m cap
	p.Params.FloorRange = [2]int{10, 20}
	if r := ValidateInputs(p); r.Valid {
		t.Error("min floors exceeding the height range must be rejected")
	}

	// at the configured 3.0 m they fit exactly
	p.Params.ClampWithConfiguredFloorHeight = true
	p.Params.FloorToFloorHeight = 3.0
	if r := ValidateInputs(p); !r.Valid {
		t.Errorf("10 floors at 3.0 m fit in 30 m: %+v", r.Errors)
	}
}

func TestValidateRegulations(t *testing.T) {
	p := validProject()
	p.Regulations = []plan.Regulation{{
		Location:          "Delhi",
		UseType:           "Residential",
		FAR:               &plan.RangeValue{Value: 0},
		MaxGroundCoverage: &plan.RangeValue{Value: 130},
	}}
	r := ValidateInputs(p)
	if r.Valid {
		t.Fatal("broken regulation must be rejected")
	}
	if len(r.Errors) != 2 {
		t.Errorf("got %d errors, want 2 (FAR and coverage)", len(r.Errors))
	}
}

func TestReportMerge(t *testing.T) {
	a := NewReport()
	a.Warnf(LevelGeometry, "x", "first warning")
	b := NewReport()
	b.AddError(Result{Level: LevelInput, Message: "boom"})

	a.Merge(b)
	if a.Valid {
		t.Error("merging an invalid report must invalidate the target")
	}
	if len(a.Warnings) != 1 || len(a.Errors) != 1 {
		t.Errorf("merge lost results: %s", a.Summary)
	}
	a.Merge(nil) // must not panic
}
