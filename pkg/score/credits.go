package score

import (
	"strings"

	"github.com/gridline/siteplan/pkg/plan"
)

// CreditKeywordTableVersion identifies the keyword-mapping revision in every
// scoring result, so a table update is visible in stored scores.
const CreditKeywordTableVersion = "2026-08"

// creditKeywordEntry links one canonical check ID to the phrases that
// identify it in imported certification credit names. Entries are matched in
// order; the first hit wins.
type creditKeywordEntry struct {
	CheckID  string
	Keywords []string
}

var creditKeywordTable = []creditKeywordEntry{
	{"green_cover", []string{"green cover", "landscape", "vegetation", "tree"}},
	{"rainwater_harvesting", []string{"rainwater", "water harvesting", "water reuse"}},
	{"solar_compliance", []string{"solar", "daylight", "renewable"}},
	{"wind_compliance", []string{"wind", "ventilation"}},
	{"transit_proximity", []string{"transit", "public transport", "mass rapid"}},
	{"amenity_diversity", []string{"amenit", "connectivity", "basic services"}},
	{"open_space", []string{"open space"}},
	{"parking_provision", []string{"parking", "vehicle"}},
}

// CreditMatch records how one imported credit was linked to a check.
type CreditMatch struct {
	Credit  plan.RatingCredit `json:"credit"`
	CheckID string            `json:"check_id,omitempty"`
	Status  CheckStatus       `json:"status"`
	Matched bool              `json:"matched"`
}

// MatchCredits links imported certification credits to checks via the
// keyword table. A matched credit takes its check's status and contributes
// its points when achieved; an unmatched credit stays pending for manual
// review.
func MatchCredits(credits []plan.RatingCredit, checks []Check) ([]CreditMatch, float64) {
	byID := map[string]CheckStatus{}
	for _, c := range checks {
		byID[c.ID] = c.Status
	}

	var matches []CreditMatch
	earned := 0.0
	for _, credit := range credits {
		cm := CreditMatch{Credit: credit, Status: CheckPending}
		lower := strings.ToLower(credit.Name)
		for _, entry := range creditKeywordTable {
			if !containsAny(lower, entry.Keywords) {
				continue
			}
			if status, ok := byID[entry.CheckID]; ok {
				cm.CheckID = entry.CheckID
				cm.Status = status
				cm.Matched = true
			}
			break
		}
		if cm.Matched && cm.Status == CheckAchieved {
			earned += credit.Points
		}
		matches = append(matches, cm)
	}
	return matches, earned
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
