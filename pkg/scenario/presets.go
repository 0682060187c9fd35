package scenario

import (
	"fmt"

	"github.com/gridline/siteplan/pkg/plan"
	"github.com/gridline/siteplan/pkg/validation"
)

// DefaultVariantCount is how many scenarios a batch generation produces.
const DefaultVariantCount = 3

// Variant pairs a generated scenario with the report accumulated while
// assembling it.
type Variant struct {
	Scenario *Scenario          `json:"scenario"`
	Report   *validation.Report `json:"report"`
}

// GenerateVariants assembles a batch of scenarios by cycling the requested
// typologies and nudging orientation, so a single parameter set yields
// genuinely different massings to compare.
func GenerateVariants(project *plan.Project, count int) []Variant {
	if count <= 0 {
		count = DefaultVariantCount
	}
	typologies := project.Params.Typologies
	if len(typologies) == 0 {
		typologies = []plan.Typology{plan.TypologySlab}
	}

	variants := make([]Variant, 0, count)
	for i := 0; i < count; i++ {
		params := project.Params
		typ := typologies[i%len(typologies)]
		if i >= len(typologies) {
			// same typology again, rotate to differentiate
			params.OrientationDeg += float64(i/len(typologies)) * 90
		}
		name := fmt.Sprintf("Variant %d (%s)", i+1, typ)
		s, report := Assemble(project, params, typ, name)
		variants = append(variants, Variant{Scenario: s, Report: report})
	}
	return variants
}
