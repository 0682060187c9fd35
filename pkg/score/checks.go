package score

import "math"

// CheckStatus is the outcome of a single compliance check.
type CheckStatus string

const (
	// CheckPending marks a check whose inputs are missing or not yet
	// measurable. Pending checks count toward the category total but
	// earn no points.
	CheckPending  CheckStatus = "pending"
	CheckAchieved CheckStatus = "achieved"
	CheckFailed   CheckStatus = "failed"
)

// Category groups checks for scoring.
type Category string

const (
	CategoryBylaws Category = "bylaws"
	CategoryGreen  Category = "green"
	CategoryVastu  Category = "vastu"
)

// Check is one evaluated compliance criterion.
type Check struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Category Category    `json:"category"`
	Status   CheckStatus `json:"status"`
	Points   float64     `json:"points"`
	Actual   float64     `json:"actual,omitempty"`
	Target   float64     `json:"target,omitempty"`
	Unit     string      `json:"unit,omitempty"`
	Detail   string      `json:"detail,omitempty"`
}

// bylawCheckPoints is the uniform weight of a statutory check. Rule-driven
// checks carry the points their rule set assigns.
const bylawCheckPoints = 10.0

// TrafficLight condenses a 0-100 score into a three-state signal.
type TrafficLight string

const (
	LightGreen  TrafficLight = "green"
	LightYellow TrafficLight = "yellow"
	LightRed    TrafficLight = "red"
)

// Traffic-light cutoffs, applied uniformly to every category and to the
// overall score.
const (
	GreenThreshold  = 80.0
	YellowThreshold = 50.0
)

// LightFor maps a 0-100 score to its traffic light.
func LightFor(score float64) TrafficLight {
	switch {
	case score >= GreenThreshold:
		return LightGreen
	case score >= YellowThreshold:
		return LightYellow
	default:
		return LightRed
	}
}

// CategoryScore is the rollup of one category's checks.
type CategoryScore struct {
	Category       Category     `json:"category"`
	Score          float64      `json:"score"` // 0-100, rounded
	AchievedPoints float64      `json:"achieved_points"`
	TotalPoints    float64      `json:"total_points"`
	Checks         int          `json:"checks"`
	Light          TrafficLight `json:"light"`
}

// aggregate rolls checks up into per-category scores, in a fixed category
// order so output is deterministic.
func aggregate(checks []Check) []CategoryScore {
	byCat := map[Category]*CategoryScore{}
	for _, c := range checks {
		cs, ok := byCat[c.Category]
		if !ok {
			cs = &CategoryScore{Category: c.Category}
			byCat[c.Category] = cs
		}
		cs.Checks++
		cs.TotalPoints += c.Points
		if c.Status == CheckAchieved {
			cs.AchievedPoints += c.Points
		}
	}

	var out []CategoryScore
	for _, cat := range []Category{CategoryBylaws, CategoryGreen, CategoryVastu} {
		cs, ok := byCat[cat]
		if !ok {
			continue
		}
		if cs.TotalPoints > 0 {
			cs.Score = math.Round(cs.AchievedPoints / cs.TotalPoints * 100)
		}
		cs.Light = LightFor(cs.Score)
		out = append(out, *cs)
	}
	return out
}

// overallScore averages category scores weighted by their total points.
func overallScore(categories []CategoryScore) float64 {
	achieved, total := 0.0, 0.0
	for _, cs := range categories {
		achieved += cs.AchievedPoints
		total += cs.TotalPoints
	}
	if total <= 0 {
		return 0
	}
	return math.Round(achieved / total * 100)
}
