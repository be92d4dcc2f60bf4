package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yardworks/shunter/core/model"
)

// Expected states the outcome a scenario must produce.
type Expected struct {
	// Infeasible marks scenarios whose linear relaxation already admits
	// no solution.
	Infeasible bool `yaml:"infeasible,omitempty"`
	// Tasks is the number of task placements in the extracted schedule.
	Tasks int `yaml:"tasks,omitempty"`
}

// Scenario is one end-to-end planning case: a normalized instance, the
// objective to compile under and the expected outcome.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Objective   string         `yaml:"objective"`
	Instance    model.Instance `yaml:"instance"`
	Expected    Expected       `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
