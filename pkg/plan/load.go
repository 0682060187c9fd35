package plan

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// optionalFiles are the project-directory files beyond plot.yaml. A missing
// optional file degrades to "using defaults", never an error.
var optionalFiles = []string{
	"regulations.yaml",
	"cost_params.yaml",
	"time_params.yaml",
	"green_rules.yaml",
	"vastu_rules.yaml",
	"credits.yaml",
	"amenities.yaml",
	"simulation.yaml",
}

// LoadProject loads a planning project from a directory. It looks for
// plot.yaml (plot + generation parameters + estimator config) plus the
// optional regulation, parameter-table, rule-set and snapshot files.
func LoadProject(projectDir string) (*Project, error) {
	var proj Project
	if err := loadYAML(filepath.Join(projectDir, "plot.yaml"), &proj); err != nil {
		return nil, fmt.Errorf("loading plot.yaml: %w", err)
	}

	for _, name := range optionalFiles {
		path := filepath.Join(projectDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := loadSection(path, name, &proj); err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
	}
	return &proj, nil
}

func loadSection(path, name string, proj *Project) error {
	switch name {
	case "regulations.yaml":
		var doc struct {
			Regulations []Regulation `yaml:"regulations"`
		}
		if err := loadYAML(path, &doc); err != nil {
			return err
		}
		proj.Regulations = doc.Regulations
	case "cost_params.yaml":
		var doc struct {
			CostParameters []CostParameter `yaml:"cost_parameters"`
		}
		if err := loadYAML(path, &doc); err != nil {
			return err
		}
		proj.CostParams = doc.CostParameters
	case "time_params.yaml":
		var doc struct {
			TimeParameters []TimeParameter `yaml:"time_parameters"`
		}
		if err := loadYAML(path, &doc); err != nil {
			return err
		}
		proj.TimeParams = doc.TimeParameters
	case "green_rules.yaml":
		var doc struct {
			Rules []Rule `yaml:"rules"`
		}
		if err := loadYAML(path, &doc); err != nil {
			return err
		}
		proj.GreenRules = doc.Rules
	case "vastu_rules.yaml":
		var doc struct {
			Rules []Rule `yaml:"rules"`
		}
		if err := loadYAML(path, &doc); err != nil {
			return err
		}
		proj.VastuRules = doc.Rules
	case "credits.yaml":
		var doc struct {
			Credits []RatingCredit `yaml:"credits"`
		}
		if err := loadYAML(path, &doc); err != nil {
			return err
		}
		proj.Credits = doc.Credits
	case "amenities.yaml":
		var doc struct {
			Amenities []Amenity `yaml:"amenities"`
		}
		if err := loadYAML(path, &doc); err != nil {
			return err
		}
		proj.Amenities = doc.Amenities
	case "simulation.yaml":
		var doc struct {
			Simulations []SimulationResult `yaml:"simulations"`
		}
		if err := loadYAML(path, &doc); err != nil {
			return err
		}
		proj.Simulations = doc.Simulations
	}
	return nil
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	return nil
}
