package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gridline/siteplan/internal/server"
	"github.com/gridline/siteplan/internal/store"
	"github.com/gridline/siteplan/pkg/estimate"
	"github.com/gridline/siteplan/pkg/plan"
	"github.com/gridline/siteplan/pkg/scenario"
	"github.com/gridline/siteplan/pkg/score"
	"github.com/gridline/siteplan/pkg/validation"
)

// loadAndValidate loads the project directory and runs input validation.
func loadAndValidate(projectPath string) (*plan.Project, *validation.Report, error) {
	project, err := plan.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading project: %w", err)
	}
	report := validation.ValidateInputs(project)
	return project, report, nil
}

func runValidate(projectPath string) error {
	_, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	printValidationReport(report)
	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runGenerate(projectPath string, count int, asJSON bool) error {
	project, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("project has validation errors")
	}

	variants := scenario.GenerateVariants(project, count)
	if asJSON {
		return emitJSON(map[string]any{"variants": variants})
	}

	for _, v := range variants {
		printScenario(v.Scenario)
		if len(v.Report.Warnings) > 0 {
			printValidationReport(v.Report)
		}
		fmt.Println()
	}
	return nil
}

func runScore(projectPath string, count int, asJSON bool) error {
	project, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("project has validation errors")
	}

	variants := scenario.GenerateVariants(project, count)
	results := make([]*score.Result, len(variants))
	for i, v := range variants {
		result, scoreReport := score.Evaluate(project, v.Scenario)
		results[i] = result
		v.Report.Merge(scoreReport)
	}

	if asJSON {
		return emitJSON(map[string]any{"variants": variants, "results": results})
	}

	printComparison(variants, results)
	for i, v := range variants {
		fmt.Println()
		printScoreResult(v.Scenario, results[i])
	}
	return nil
}

func runEstimate(projectPath string, potential, asJSON bool) error {
	project, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}

	if potential {
		pe, estReport, err := estimate.EstimatePotential(project)
		if err != nil {
			printValidationReport(estReport)
			return err
		}
		if asJSON {
			return emitJSON(map[string]any{"estimate": pe})
		}
		printEstimate(pe)
		if len(estReport.Warnings) > 0 {
			fmt.Println()
			printValidationReport(estReport)
		}
		return nil
	}

	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("project has validation errors")
	}

	variants := scenario.GenerateVariants(project, 1)
	scn := variants[0].Scenario
	pe, estReport, err := estimate.Estimate(project, scn)
	if err != nil {
		printValidationReport(estReport)
		return err
	}
	if asJSON {
		return emitJSON(map[string]any{"scenario": scn, "estimate": pe})
	}

	printScenario(scn)
	fmt.Println()
	printEstimate(pe)
	if len(estReport.Warnings) > 0 {
		fmt.Println()
		printValidationReport(estReport)
	}
	return nil
}

func runServe(dbPath string, port int) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return server.New(st).Run(fmt.Sprintf(":%d", port))
}

func emitJSON(doc any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
