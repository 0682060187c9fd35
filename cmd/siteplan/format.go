package main

import (
	"fmt"

	"github.com/gridline/siteplan/pkg/estimate"
	"github.com/gridline/siteplan/pkg/scenario"
	"github.com/gridline/siteplan/pkg/score"
	"github.com/gridline/siteplan/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.Field != "" {
				fmt.Printf("    -> %s = %v\n", e.Field, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.Field != "" && w.ActualValue != nil {
				fmt.Printf("    -> %s = %v\n", w.Field, w.ActualValue)
			}
			for _, s := range w.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printScenario(s *scenario.Scenario) {
	fmt.Printf("%s  [%s, %.0f deg]\n", s.Name, s.Typology, s.OrientationDeg)
	fmt.Println("=========================================")
	fmt.Printf("  Plot:            %s (%.0f m²)\n", s.PlotName, s.PlotArea)
	if s.FAROverridden {
		fmt.Printf("  FAR:             %.2f (regulation override, %.2f requested)\n", s.AppliedFAR, s.RequestedFAR)
	} else {
		fmt.Printf("  FAR target:      %.2f\n", s.AppliedFAR)
	}
	fmt.Printf("  Footprint:       %.0f m² (%.1f%% coverage)\n",
		s.TotalFootprintArea(), s.TotalFootprintArea()/s.PlotArea*100)
	fmt.Printf("  GFA:             %.0f m² (achieved FAR %.2f)\n",
		s.TotalGFA(), s.TotalGFA()/s.PlotArea)

	for _, b := range s.Buildings {
		fmt.Printf("  %-14s %6.0f m² x %d floors = %7.0f m²  (%.1f m, %s)\n",
			b.Name, b.FootprintArea, b.Floors, b.GFA(), b.Height, b.Use)
	}
	if green := s.GreenArea(); green > 0 {
		fmt.Printf("  Green:           %.0f m²\n", green)
	}
	if parking := s.ParkingArea(); parking > 0 {
		fmt.Printf("  Parking:         %.0f m²\n", parking)
	}
	if roads := s.RoadArea(); roads > 0 {
		fmt.Printf("  Roads:           %.0f m²\n", roads)
	}
}

func printScoreResult(s *scenario.Scenario, r *score.Result) {
	fmt.Printf("Score: %s\n", s.Name)
	fmt.Println("-----------------------------------------")
	for _, cs := range r.Categories {
		fmt.Printf("  %-8s %5.0f/100  [%s]  (%.0f of %.0f points, %d checks)\n",
			cs.Category, cs.Score, lightGlyph(cs.Light), cs.AchievedPoints, cs.TotalPoints, cs.Checks)
	}
	fmt.Printf("  %-8s %5.0f/100  [%s]\n", "overall", r.Overall, lightGlyph(r.Light))

	fmt.Println()
	for _, c := range r.Checks {
		marker := " "
		switch c.Status {
		case score.CheckAchieved:
			marker = "+"
		case score.CheckFailed:
			marker = "x"
		case score.CheckPending:
			marker = "?"
		}
		fmt.Printf("  %s %-22s %-8s", marker, c.ID, c.Status)
		if c.Target != 0 {
			fmt.Printf("  %.1f / %.1f %s", c.Actual, c.Target, c.Unit)
		}
		fmt.Println()
	}

	if len(r.Credits) > 0 {
		fmt.Println()
		fmt.Printf("Credits (keyword table %s): %.0f points earned\n", r.KeywordTableVersion, r.CreditPoints)
		for _, cm := range r.Credits {
			if cm.Matched {
				fmt.Printf("  %-30s -> %-20s %s\n", cm.Credit.Name, cm.CheckID, cm.Status)
			} else {
				fmt.Printf("  %-30s -> unmatched, pending review\n", cm.Credit.Name)
			}
		}
	}
}

func lightGlyph(l score.TrafficLight) string {
	switch l {
	case score.LightGreen:
		return "GREEN"
	case score.LightYellow:
		return "YELLOW"
	default:
		return "RED"
	}
}

// printComparison summarizes all variants side by side, best overall first
// in reading order.
func printComparison(variants []scenario.Variant, results []*score.Result) {
	fmt.Println("Variant Comparison")
	fmt.Println("==================")
	fmt.Printf("%-22s %-10s %8s %10s %10s %8s\n",
		"Variant", "Typology", "FAR", "GFA m²", "Cover %", "Score")
	for i, v := range variants {
		s := v.Scenario
		fmt.Printf("%-22s %-10s %8.2f %10.0f %10.1f %5.0f %s\n",
			s.Name, s.Typology, s.TotalGFA()/s.PlotArea, s.TotalGFA(),
			s.TotalFootprintArea()/s.PlotArea*100,
			results[i].Overall, lightGlyph(results[i].Light))
	}
}

func printEstimate(pe *estimate.ProjectEstimate) {
	if pe.IsPotential {
		fmt.Println("Potential Estimate (no scenario, default massing assumptions)")
	} else {
		fmt.Printf("Estimate: %s\n", pe.ScenarioName)
	}
	fmt.Println("=========================================")

	fmt.Printf("%-14s %10s %12s %12s %12s %12s %12s %8s\n",
		"Building", "GFA m²", "Earthwork", "Structure", "Finishing", "Services", "Total", "Months")
	for _, b := range pe.Buildings {
		fmt.Printf("%-14s %10.0f %12s %12s %12s %12s %12s %8.1f\n",
			b.BuildingName, b.GFA,
			formatMoney(b.Earthwork), formatMoney(b.Structure),
			formatMoney(b.Finishing), formatMoney(b.Services),
			formatMoney(b.TotalCost), b.Months)
		if b.CostResolution != estimate.ResolvedExact && b.CostResolution != "" {
			fmt.Printf("               (rates borrowed from %s: %s)\n", b.CostLocation, b.CostResolution)
		}
	}

	fmt.Println()
	fmt.Println("Summary")
	fmt.Println("-------")
	fmt.Printf("  Construction:   %s\n", formatMoney(pe.TotalCost))
	fmt.Printf("  Contingency:    %s\n", formatMoney(pe.Contingency))
	fmt.Printf("  Grand total:    %s\n", formatMoney(pe.GrandTotal))
	fmt.Printf("  Revenue:        %s\n", formatMoney(pe.Revenue))
	fmt.Printf("  Margin:         %s\n", formatMoney(pe.Margin))
	fmt.Printf("  Timeline:       %.1f months", pe.TimelineMonths)
	if pe.CriticalPathID != "" {
		critical := pe.CriticalPathID
		for _, b := range pe.Buildings {
			if b.BuildingID == pe.CriticalPathID {
				critical = b.BuildingName
			}
		}
		fmt.Printf(" (critical path: %s)", critical)
	}
	fmt.Println()
	fmt.Printf("  Efficiency:     %s\n", pe.Efficiency)
}

func formatMoney(v float64) string {
	neg := ""
	if v < 0 {
		neg = "-"
		v = -v
	}
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%s%.2fB", neg, v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%s%.2fM", neg, v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s%.0fK", neg, v/1_000)
	default:
		return fmt.Sprintf("%s%.0f", neg, v)
	}
}
