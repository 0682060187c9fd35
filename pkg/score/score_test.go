package score

import (
	"math"
	"reflect"
	"testing"

	"github.com/gridline/siteplan/pkg/geo"
	"github.com/gridline/siteplan/pkg/plan"
	"github.com/gridline/siteplan/pkg/scenario"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func rangeVal(v float64) *plan.RangeValue {
	return &plan.RangeValue{Value: v}
}

func scoringProject() *plan.Project {
	return &plan.Project{
		Plot: plan.Plot{
			Name:     "Reference Parcel",
			Location: "Delhi",
			UseType:  "Residential",
			Boundary: geo.Rect(geo.Pt(0, 0), geo.Pt(60, 40)),
			Setbacks: plan.Setbacks{Front: 5, Rear: 5, Side: 5},
		},
		Params: plan.GenerationParameters{
			Typologies:         []plan.Typology{plan.TypologySlab},
			TargetFAR:          2.0,
			FloorRange:         [2]int{1, 20},
			HeightRange:        [2]float64{0, 30},
			FloorToFloorHeight: 3.0,
			ProgramMix:         plan.ProgramMix{Residential: 100},
		},
		Regulations: []plan.Regulation{{
			Location:          "Delhi",
			UseType:           "Residential",
			FAR:               rangeVal(2.0),
			MaxGroundCoverage: rangeVal(40),
			MaxHeight:         rangeVal(30),
			GreenCover:        rangeVal(15),
			OpenSpace:         rangeVal(20),
		}},
	}
}

func assembled(t *testing.T, project *plan.Project) *scenario.Scenario {
	t.Helper()
	s, report := scenario.Assemble(project, project.Params, plan.TypologySlab, "base")
	if !report.Valid {
		t.Fatalf("assembly failed: %+v", report.Errors)
	}
	return s
}

func checkByID(t *testing.T, checks []Check, id string) Check {
	t.Helper()
	for _, c := range checks {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("check %q not found", id)
	return Check{}
}

func TestEvaluateReferenceScenario(t *testing.T) {
	project := scoringProject()
	s := assembled(t, project)
	result, report := Evaluate(project, s)
	if !report.Valid {
		t.Fatalf("evaluation failed: %+v", report.Errors)
	}

	if c := checkByID(t, result.Checks, "far"); c.Status != CheckAchieved {
		t.Errorf("far = %s (actual %.2f vs target %.2f), want achieved", c.Status, c.Actual, c.Target)
	}
	if c := checkByID(t, result.Checks, "ground_coverage"); c.Status != CheckAchieved {
		t.Errorf("ground_coverage = %s (actual %.1f%%), want achieved under 40%%", c.Status, c.Actual)
	}
	if c := checkByID(t, result.Checks, "max_height"); c.Status != CheckAchieved {
		t.Errorf("max_height = %s (actual %.1f m), want achieved under 30 m", c.Status, c.Actual)
	}
	if c := checkByID(t, result.Checks, "setbacks"); c.Status != CheckAchieved {
		t.Errorf("setbacks = %s, want achieved", c.Status)
	}
	// 900 m² band on a 2400 m² plot is 37.5%, over the 15% target.
	if c := checkByID(t, result.Checks, "green_cover"); c.Status != CheckAchieved {
		t.Errorf("green_cover = %s (actual %.1f%%), want achieved over 15%%", c.Status, c.Actual)
	}
	// no simulations supplied
	if c := checkByID(t, result.Checks, "solar_compliance"); c.Status != CheckPending {
		t.Errorf("solar_compliance = %s, want pending without simulation data", c.Status)
	}
	if result.Overall < 0 || result.Overall > 100 {
		t.Errorf("overall = %f, want within [0,100]", result.Overall)
	}
	if result.Light != LightFor(result.Overall) {
		t.Error("overall light is inconsistent with the overall score")
	}
	if result.KeywordTableVersion != CreditKeywordTableVersion {
		t.Error("result must carry the keyword table version")
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	project := scoringProject()
	s := assembled(t, project)
	first, _ := Evaluate(project, s)
	second, _ := Evaluate(project, s)
	if !reflect.DeepEqual(first, second) {
		t.Error("evaluating the same scenario twice must yield identical results")
	}
}

func TestMetricsConsistency(t *testing.T) {
	project := scoringProject()
	s := assembled(t, project)
	m := ComputeMetrics(project, s)
	if !approxEqual(m.AchievedFAR, m.TotalGFA/m.PlotArea, 1e-9) {
		t.Errorf("achieved FAR %f does not equal GFA/plot %f", m.AchievedFAR, m.TotalGFA/m.PlotArea)
	}
	if !approxEqual(m.OpenSpaceArea, m.PlotArea-m.FootprintArea, 1e-9) {
		t.Errorf("open space %f should be plot minus footprint", m.OpenSpaceArea)
	}
	if m.TallestHeight <= 0 || m.MaxFloors <= 0 {
		t.Error("metrics must report the tallest building")
	}
}

func TestMetricsRoadArea(t *testing.T) {
	project := scoringProject()
	project.Regulations[0].FireAccessWidth = rangeVal(2)
	s := assembled(t, project)
	m := ComputeMetrics(project, s)
	if m.RoadArea <= 0 || !approxEqual(m.RoadArea, s.RoadArea(), 1e-9) {
		t.Errorf("road area = %f, want scenario road area %f", m.RoadArea, s.RoadArea())
	}
}

func TestRainwaterCheck(t *testing.T) {
	project := scoringProject()
	s := assembled(t, project)
	result, _ := Evaluate(project, s)
	if c := checkByID(t, result.Checks, "rainwater_harvesting"); c.Status != CheckPending {
		t.Errorf("no rainwater demand = %s, want pending", c.Status)
	}

	project.Regulations[0].RainwaterTarget = rangeVal(50)
	result, _ = Evaluate(project, s)
	if c := checkByID(t, result.Checks, "rainwater_harvesting"); c.Status != CheckFailed {
		t.Errorf("demanded but unprovisioned = %s, want failed", c.Status)
	}

	project.Params.UtilityTypes = []string{"substation", "rainwater harvesting pit"}
	s = assembled(t, project)
	result, _ = Evaluate(project, s)
	c := checkByID(t, result.Checks, "rainwater_harvesting")
	if c.Status != CheckAchieved {
		t.Errorf("provisioned utility zone = %s, want achieved", c.Status)
	}
	if c.Target != 50 {
		t.Errorf("target = %v, want the regulation's 50", c.Target)
	}
}

func TestSolarTargetFromRegulation(t *testing.T) {
	project := scoringProject()
	project.Regulations[0].SolarTarget = rangeVal(80)
	project.Simulations = []plan.SimulationResult{{Type: "solar", CompliantAreaPercent: 72}}
	s := assembled(t, project)
	result, _ := Evaluate(project, s)
	if c := checkByID(t, result.Checks, "solar_compliance"); c.Status != CheckFailed || c.Target != 80 {
		t.Errorf("solar 72%% against regulation target 80 = %s/%v, want failed/80", c.Status, c.Target)
	}

	// an explicit green rule target overrides the regulation's
	project.GreenRules = []plan.Rule{{ID: "solar_access", Name: "Solar access compliance", Points: 8, Target: 60}}
	result, _ = Evaluate(project, s)
	if c := checkByID(t, result.Checks, "solar_compliance"); c.Status != CheckAchieved || c.Target != 60 {
		t.Errorf("solar 72%% against rule target 60 = %s/%v, want achieved/60", c.Status, c.Target)
	}
}

func TestEvaluateFailsOverbuiltScenario(t *testing.T) {
	project := scoringProject()
	project.Regulations[0].FAR = rangeVal(0.5) // far below what the massing yields
	project.Params.TargetFAR = 0.5
	project.Params.FloorRange = [2]int{3, 20} // forces FAR past 0.5
	s := assembled(t, project)
	result, _ := Evaluate(project, s)
	if c := checkByID(t, result.Checks, "far"); c.Status != CheckFailed {
		t.Errorf("far = %s (actual %.2f vs limit 0.5), want failed", c.Status, c.Actual)
	}
}

func TestLightFor(t *testing.T) {
	cases := []struct {
		score float64
		want  TrafficLight
	}{
		{100, LightGreen},
		{80, LightGreen},
		{79.9, LightYellow},
		{50, LightYellow},
		{49.9, LightRed},
		{0, LightRed},
	}
	for _, tc := range cases {
		if got := LightFor(tc.score); got != tc.want {
			t.Errorf("LightFor(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestAggregate(t *testing.T) {
	checks := []Check{
		{ID: "a", Category: CategoryBylaws, Points: 10, Status: CheckAchieved},
		{ID: "b", Category: CategoryBylaws, Points: 10, Status: CheckFailed},
		{ID: "c", Category: CategoryBylaws, Points: 10, Status: CheckPending},
		{ID: "d", Category: CategoryGreen, Points: 5, Status: CheckAchieved},
	}
	cats := aggregate(checks)
	if len(cats) != 2 {
		t.Fatalf("got %d categories, want 2", len(cats))
	}
	bylaws := cats[0]
	if bylaws.Category != CategoryBylaws {
		t.Fatal("bylaws must sort first")
	}
	// 10 of 30 points, pending counts toward the total
	if bylaws.Score != 33 {
		t.Errorf("bylaws score = %f, want 33", bylaws.Score)
	}
	if bylaws.Light != LightRed {
		t.Errorf("bylaws light = %s, want red", bylaws.Light)
	}
	if cats[1].Score != 100 || cats[1].Light != LightGreen {
		t.Errorf("green category = %f/%s, want 100/green", cats[1].Score, cats[1].Light)
	}
	if got := overallScore(cats); got != 43 { // 15 of 35
		t.Errorf("overall = %f, want 43", got)
	}
}

func TestMatchCredits(t *testing.T) {
	checks := []Check{
		{ID: "solar_compliance", Status: CheckAchieved},
		{ID: "green_cover", Status: CheckFailed},
	}
	credits := []plan.RatingCredit{
		{System: "GRIHA", Name: "Renewable Solar Energy Use", Points: 4},
		{System: "GRIHA", Name: "Green Cover Preservation", Points: 2},
		{System: "GRIHA", Name: "Gold Plated Lobby", Points: 1},
	}
	matches, earned := MatchCredits(credits, checks)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	if !matches[0].Matched || matches[0].CheckID != "solar_compliance" || matches[0].Status != CheckAchieved {
		t.Errorf("solar credit match = %+v", matches[0])
	}
	if !matches[1].Matched || matches[1].Status != CheckFailed {
		t.Errorf("green cover credit should match its failed check, got %+v", matches[1])
	}
	if matches[2].Matched || matches[2].Status != CheckPending {
		t.Errorf("unknown credit must stay pending, got %+v", matches[2])
	}
	if earned != 4 {
		t.Errorf("earned = %f, only the achieved match's points count", earned)
	}
}

func TestUnmatchedCreditSurfacesWarning(t *testing.T) {
	project := scoringProject()
	project.Credits = []plan.RatingCredit{{System: "GRIHA", Name: "Gold Plated Lobby", Points: 1}}
	s := assembled(t, project)
	_, report := Evaluate(project, s)
	found := false
	for _, w := range report.Warnings {
		if w.Field == "credits" {
			found = true
		}
	}
	if !found {
		t.Error("unmatched credit must surface a warning")
	}
}

func TestAmenityDistance(t *testing.T) {
	origin := &plan.LatLng{Lat: 28.6139, Lng: 77.2090}

	// explicit distance wins over coordinates
	d, ok := amenityDistance(origin, plan.Amenity{Category: "transit", DistanceMeters: 650, Lat: 0, Lng: 0})
	if !ok || d != 650 {
		t.Errorf("explicit distance = %f/%v, want 650", d, ok)
	}

	// about 0.9 km due north of the origin
	d, ok = amenityDistance(origin, plan.Amenity{Category: "school", Lat: 28.6220, Lng: 77.2090})
	if !ok || !approxEqual(d, 901, 10) {
		t.Errorf("haversine distance = %f/%v, want about 901 m", d, ok)
	}

	// nothing to measure from
	if _, ok := amenityDistance(nil, plan.Amenity{Category: "park", Lat: 28.62, Lng: 77.21}); ok {
		t.Error("no origin and no explicit distance must be unresolvable")
	}
}

func TestTransitAndDiversityChecks(t *testing.T) {
	project := scoringProject()
	project.Amenities = []plan.Amenity{
		{Category: "transit", DistanceMeters: 500},
		{Category: "school", DistanceMeters: 700},
		{Category: "hospital", DistanceMeters: 950},
		{Category: "market", DistanceMeters: 1400}, // outside the radius
	}
	s := assembled(t, project)
	result, _ := Evaluate(project, s)
	if c := checkByID(t, result.Checks, "transit_proximity"); c.Status != CheckAchieved {
		t.Errorf("transit at 500 m = %s, want achieved", c.Status)
	}
	if c := checkByID(t, result.Checks, "amenity_diversity"); c.Status != CheckAchieved || c.Actual != 3 {
		t.Errorf("diversity = %s with %v categories, want achieved with 3", c.Status, c.Actual)
	}

	project.Amenities[0].DistanceMeters = 900
	result, _ = Evaluate(project, s)
	if c := checkByID(t, result.Checks, "transit_proximity"); c.Status != CheckFailed {
		t.Errorf("transit at 900 m = %s, want failed", c.Status)
	}
}

func TestVastuChecks(t *testing.T) {
	project := scoringProject()
	project.VastuRules = []plan.Rule{
		{ID: "entrance_northeast", Name: "Entrance in the northeast", Points: 5},
		{ID: "pooja_room", Name: "Pooja room placement", Points: 2},
	}
	s := assembled(t, project) // orientation 0 buckets to NE
	result, _ := Evaluate(project, s)
	if c := checkByID(t, result.Checks, "entrance_northeast"); c.Status != CheckAchieved {
		t.Errorf("northeast rule at orientation 0 = %s, want achieved", c.Status)
	}
	if c := checkByID(t, result.Checks, "pooja_room"); c.Status != CheckPending {
		t.Errorf("uninterpretable rule = %s, want pending", c.Status)
	}

	project.Params.OrientationDeg = 180
	s2 := assembled(t, project)
	result, _ = Evaluate(project, s2)
	if c := checkByID(t, result.Checks, "entrance_northeast"); c.Status != CheckFailed {
		t.Errorf("northeast rule at orientation 180 = %s, want failed", c.Status)
	}
}

func TestSimulationChecks(t *testing.T) {
	project := scoringProject()
	project.Simulations = []plan.SimulationResult{
		{Type: "solar", CompliantAreaPercent: 72},
		{Type: "wind", CompliantAreaPercent: 31},
	}
	s := assembled(t, project)
	result, _ := Evaluate(project, s)
	if c := checkByID(t, result.Checks, "solar_compliance"); c.Status != CheckAchieved {
		t.Errorf("solar at 72%% = %s, want achieved over the default 50%%", c.Status)
	}
	if c := checkByID(t, result.Checks, "wind_compliance"); c.Status != CheckFailed {
		t.Errorf("wind at 31%% = %s, want failed", c.Status)
	}
}

func TestParkingCountsStructuredParking(t *testing.T) {
	project := scoringProject()
	project.Regulations[0].ParkingRatio = rangeVal(1.0)
	project.Params.ParkingType = plan.ParkingUnderground
	s := assembled(t, project)
	m := ComputeMetrics(project, s)
	if m.ParkingRequired <= 0 {
		t.Fatal("ratio 1.0 per 100 m² must require spaces")
	}
	if m.ParkingProvided != m.ParkingRequired {
		t.Errorf("underground parking: provided %d, want required %d", m.ParkingProvided, m.ParkingRequired)
	}
	result, _ := Evaluate(project, s)
	if c := checkByID(t, result.Checks, "parking_provision"); c.Status != CheckAchieved {
		t.Errorf("parking_provision = %s, want achieved", c.Status)
	}
}
