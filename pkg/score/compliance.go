package score

import (
	"strings"

	"github.com/gridline/siteplan/pkg/massing"
	"github.com/gridline/siteplan/pkg/plan"
	"github.com/gridline/siteplan/pkg/scenario"
	"github.com/gridline/siteplan/pkg/validation"
)

// DefaultSimulationThreshold is the compliant-area percentage a solar or
// wind simulation must reach when no rule sets an explicit target.
const DefaultSimulationThreshold = 50.0

// Result is the full scoring output for one scenario.
type Result struct {
	ScenarioID   string             `json:"scenario_id"`
	ScenarioName string             `json:"scenario_name"`
	Metrics      DevelopmentMetrics `json:"metrics"`
	Checks       []Check            `json:"checks"`
	Categories   []CategoryScore    `json:"categories"`
	Overall      float64            `json:"overall"` // 0-100
	Light        TrafficLight       `json:"light"`

	Credits             []CreditMatch `json:"credits,omitempty"`
	CreditPoints        float64       `json:"credit_points"`
	KeywordTableVersion string        `json:"keyword_table_version"`
}

// Evaluate scores a scenario against bylaws, green rules and vastu rules.
// It never mutates the scenario; evaluating the same scenario twice yields
// the same result. Missing inputs leave checks pending rather than failing.
func Evaluate(project *plan.Project, s *scenario.Scenario) (*Result, *validation.Report) {
	report := validation.NewReport()
	metrics := ComputeMetrics(project, s)
	reg := project.FindRegulation(project.Plot.Location, project.Plot.UseType)

	var checks []Check
	checks = append(checks, bylawChecks(project, s, reg, metrics, report)...)
	checks = append(checks, greenChecks(project, s, reg, metrics, report)...)
	checks = append(checks, vastuChecks(project, s)...)

	credits, creditPoints := MatchCredits(project.Credits, checks)
	for _, cm := range credits {
		if !cm.Matched {
			report.Warnf(validation.LevelScoring, "credits",
				"credit %q (%s) matched no known check, left pending", cm.Credit.Name, cm.Credit.System)
		}
	}

	categories := aggregate(checks)
	overall := overallScore(categories)

	return &Result{
		ScenarioID:          s.ID,
		ScenarioName:        s.Name,
		Metrics:             metrics,
		Checks:              checks,
		Categories:          categories,
		Overall:             overall,
		Light:               LightFor(overall),
		Credits:             credits,
		CreditPoints:        creditPoints,
		KeywordTableVersion: CreditKeywordTableVersion,
	}, report
}

func bylawChecks(project *plan.Project, s *scenario.Scenario, reg *plan.Regulation, m DevelopmentMetrics, report *validation.Report) []Check {
	var checks []Check
	if reg == nil {
		report.Warnf(validation.LevelScoring, "regulations",
			"no regulation for (%s, %s), statutory checks left pending",
			project.Plot.Location, project.Plot.UseType)
	}

	checks = append(checks, limitCheck("far", "floor area ratio", CategoryBylaws,
		m.AchievedFAR, regValue(reg, func(r *plan.Regulation) *plan.RangeValue { return r.FAR }), ""))
	checks = append(checks, limitCheck("ground_coverage", "ground coverage", CategoryBylaws,
		m.GroundCoverage, regValue(reg, func(r *plan.Regulation) *plan.RangeValue { return r.MaxGroundCoverage }), "%"))
	checks = append(checks, limitCheck("max_height", "building height", CategoryBylaws,
		m.TallestHeight, regValue(reg, func(r *plan.Regulation) *plan.RangeValue { return r.MaxHeight }), "m"))

	// Open space is a floor, not a ceiling.
	open := Check{ID: "open_space", Name: "open space provision", Category: CategoryBylaws,
		Points: bylawCheckPoints, Actual: m.OpenSpace, Unit: "%", Status: CheckPending}
	if rv := regValue(reg, func(r *plan.Regulation) *plan.RangeValue { return r.OpenSpace }); rv != nil {
		open.Target = rv.Value
		if m.OpenSpace >= rv.Value {
			open.Status = CheckAchieved
		} else {
			open.Status = CheckFailed
		}
	}
	checks = append(checks, open)

	parking := Check{ID: "parking_provision", Name: "parking provision", Category: CategoryBylaws,
		Points: bylawCheckPoints, Actual: float64(m.ParkingProvided), Target: float64(m.ParkingRequired),
		Unit: "spaces", Status: CheckPending}
	if m.ParkingRequired > 0 {
		if m.ParkingProvided >= m.ParkingRequired {
			parking.Status = CheckAchieved
		} else {
			parking.Status = CheckFailed
		}
	}
	checks = append(checks, parking)

	setback := project.Plot.Setbacks.Max()
	if reg != nil && reg.MaxSetback() > setback {
		setback = reg.MaxSetback()
	}
	if setback > 0 {
		sc := Check{ID: "setbacks", Name: "setback clearance", Category: CategoryBylaws,
			Points: bylawCheckPoints, Target: setback, Unit: "m", Status: CheckFailed}
		if s.SetbackApplied {
			sc.Status = CheckAchieved
			sc.Actual = setback
		} else {
			sc.Detail = "envelope fell back to the full plot boundary"
		}
		checks = append(checks, sc)
	}

	if rv := regValue(reg, func(r *plan.Regulation) *plan.RangeValue { return r.FireAccessWidth }); rv != nil {
		fc := Check{ID: "fire_access", Name: "fire access loop", Category: CategoryBylaws,
			Points: bylawCheckPoints, Target: rv.Value, Unit: "m", Status: CheckFailed}
		if s.RoadArea() > 0 {
			fc.Status = CheckAchieved
		}
		checks = append(checks, fc)
	}

	return checks
}

// limitCheck builds an actual-must-not-exceed-target check, pending when no
// regulation bound exists.
func limitCheck(id, name string, cat Category, actual float64, rv *plan.RangeValue, unit string) Check {
	c := Check{ID: id, Name: name, Category: cat, Points: bylawCheckPoints,
		Actual: actual, Unit: unit, Status: CheckPending}
	if rv == nil || rv.Value <= 0 {
		return c
	}
	c.Target = rv.Value
	if actual <= rv.Value+1e-9 {
		c.Status = CheckAchieved
	} else {
		c.Status = CheckFailed
	}
	return c
}

func regValue(reg *plan.Regulation, pick func(*plan.Regulation) *plan.RangeValue) *plan.RangeValue {
	if reg == nil {
		return nil
	}
	return pick(reg)
}

func greenChecks(project *plan.Project, s *scenario.Scenario, reg *plan.Regulation, m DevelopmentMetrics, report *validation.Report) []Check {
	var checks []Check

	green := Check{ID: "green_cover", Name: "green cover", Category: CategoryGreen,
		Points: bylawCheckPoints, Actual: m.GreenCover, Unit: "%", Status: CheckPending}
	if rv := regValue(reg, func(r *plan.Regulation) *plan.RangeValue { return r.GreenCover }); rv != nil && rv.Value > 0 {
		green.Target = rv.Value
		if m.GreenCover >= rv.Value {
			green.Status = CheckAchieved
		} else {
			green.Status = CheckFailed
		}
	}
	checks = append(checks, green)

	checks = append(checks, rainwaterCheck(project, s, reg))
	checks = append(checks, simulationCheck(project, reg, "solar"))
	checks = append(checks, simulationCheck(project, reg, "wind"))

	nearest := nearestByCategory(project.Plot.Coordinates, project.Amenities)
	if len(project.Amenities) > 0 && len(nearest) == 0 {
		report.Warnf(validation.LevelScoring, "amenities",
			"amenity records carry neither distances nor coordinates, proximity checks left pending")
	}

	transit := Check{ID: "transit_proximity", Name: "public transit within walking distance",
		Category: CategoryGreen, Points: bylawCheckPoints,
		Target: TransitProximityMeters, Unit: "m", Status: CheckPending}
	if d, ok := nearest["transit"]; ok {
		transit.Actual = d
		if d <= TransitProximityMeters {
			transit.Status = CheckAchieved
		} else {
			transit.Status = CheckFailed
		}
	}
	checks = append(checks, transit)

	diversity := Check{ID: "amenity_diversity", Name: "amenity categories nearby",
		Category: CategoryGreen, Points: bylawCheckPoints,
		Target: MinAmenityCategories, Unit: "categories", Status: CheckPending}
	if len(nearest) > 0 {
		within := 0
		for _, d := range nearest {
			if d <= AmenityRadiusMeters {
				within++
			}
		}
		diversity.Actual = float64(within)
		if within >= MinAmenityCategories {
			diversity.Status = CheckAchieved
		} else {
			diversity.Status = CheckFailed
		}
	}
	checks = append(checks, diversity)

	checks = append(checks, ruleChecks(project.GreenRules, CategoryGreen, checks, m)...)
	return checks
}

// rainwaterCheck verifies a rainwater harvesting provision when the
// regulation or a green rule demands one. The check is satisfied by a
// matching utility zone in the scenario; without any demand it stays pending.
func rainwaterCheck(project *plan.Project, s *scenario.Scenario, reg *plan.Regulation) Check {
	c := Check{ID: "rainwater_harvesting", Name: "rainwater harvesting provision",
		Category: CategoryGreen, Points: bylawCheckPoints, Status: CheckPending}

	required := false
	if rv := regValue(reg, func(r *plan.Regulation) *plan.RangeValue { return r.RainwaterTarget }); rv != nil && rv.Value > 0 {
		c.Target = rv.Value
		c.Unit = rv.Unit
		required = true
	}
	for _, rule := range project.GreenRules {
		if strings.Contains(strings.ToLower(rule.ID+" "+rule.Name), "rainwater") {
			required = true
			if rule.Target > 0 {
				c.Target = rule.Target
				c.Unit = rule.Unit
			}
		}
	}
	if !required {
		return c
	}

	for _, z := range s.UtilityAreas {
		name := strings.ToLower(z.Name)
		if strings.Contains(name, "rainwater") || strings.Contains(name, "water harvest") {
			c.Status = CheckAchieved
			c.Detail = "utility zone: " + z.Name
			return c
		}
	}
	c.Status = CheckFailed
	c.Detail = "no rainwater harvesting utility provisioned"
	return c
}

// simulationCheck evaluates an external solar/wind result against its
// threshold, pending when the simulation has not been run. The regulation's
// solar target replaces the default; an explicit green rule target overrides
// both.
func simulationCheck(project *plan.Project, reg *plan.Regulation, kind string) Check {
	c := Check{ID: kind + "_compliance", Name: kind + " simulation compliance",
		Category: CategoryGreen, Points: bylawCheckPoints,
		Target: DefaultSimulationThreshold, Unit: "%", Status: CheckPending}
	if kind == "solar" {
		if rv := regValue(reg, func(r *plan.Regulation) *plan.RangeValue { return r.SolarTarget }); rv != nil && rv.Value > 0 {
			c.Target = rv.Value
		}
	}
	for _, rule := range project.GreenRules {
		if strings.Contains(strings.ToLower(rule.ID+rule.Name), kind) && rule.Target > 0 {
			c.Target = rule.Target
		}
	}
	for _, sim := range project.Simulations {
		if sim.Type != kind {
			continue
		}
		c.Actual = sim.CompliantAreaPercent
		if sim.CompliantAreaPercent >= c.Target {
			c.Status = CheckAchieved
		} else {
			c.Status = CheckFailed
		}
	}
	return c
}

// ruleChecks turns rule-set entries that no built-in check covers into
// pending checks carrying the rule's points, so the category total reflects
// the whole rule set.
func ruleChecks(rules []plan.Rule, cat Category, existing []Check, m DevelopmentMetrics) []Check {
	var out []Check
	for _, rule := range rules {
		if coveredByBuiltin(rule, existing) {
			continue
		}
		c := Check{ID: rule.ID, Name: rule.Name, Category: cat,
			Points: rule.Points, Target: rule.Target, Unit: rule.Unit, Status: CheckPending}
		lower := strings.ToLower(rule.ID + " " + rule.Name)
		if strings.Contains(lower, "green") || strings.Contains(lower, "landscape") {
			c.Actual = m.GreenCover
			if rule.Target > 0 {
				if m.GreenCover >= rule.Target {
					c.Status = CheckAchieved
				} else {
					c.Status = CheckFailed
				}
			}
		}
		out = append(out, c)
	}
	return out
}

func coveredByBuiltin(rule plan.Rule, existing []Check) bool {
	lower := strings.ToLower(rule.ID + " " + rule.Name)
	for _, c := range existing {
		for _, kw := range []string{"solar", "wind", "transit", "amenity", "rainwater"} {
			if strings.Contains(c.ID, kw) && strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// vastuChecks evaluates orientation-sensitive rules against the scenario's
// orientation quadrant. Rules the evaluator cannot interpret stay pending.
func vastuChecks(project *plan.Project, s *scenario.Scenario) []Check {
	if len(project.VastuRules) == 0 {
		return nil
	}
	quadrant := massing.QuadrantFromDegrees(s.OrientationDeg)

	var checks []Check
	for _, rule := range project.VastuRules {
		c := Check{ID: rule.ID, Name: rule.Name, Category: CategoryVastu,
			Points: rule.Points, Status: CheckPending,
			Detail: "orientation quadrant " + quadrant.String()}
		lower := strings.ToLower(rule.ID + " " + rule.Name)
		switch {
		case strings.Contains(lower, "northeast") || strings.Contains(lower, "north-east"):
			c.Status = quadrantCheck(quadrant == massing.QuadrantNE)
		case strings.Contains(lower, "north"):
			c.Status = quadrantCheck(quadrant == massing.QuadrantNE || quadrant == massing.QuadrantNW)
		case strings.Contains(lower, "east"):
			c.Status = quadrantCheck(quadrant == massing.QuadrantNE || quadrant == massing.QuadrantSE)
		}
		checks = append(checks, c)
	}
	return checks
}

func quadrantCheck(ok bool) CheckStatus {
	if ok {
		return CheckAchieved
	}
	return CheckFailed
}
