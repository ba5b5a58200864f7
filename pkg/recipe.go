package provis

import (
	"github.com/juju/errors"

	"github.com/provis-run/provis/pkg/util/maputil"
)

// RecipeDef is one provisioning recipe: an ordered list of steps plus the
// initial environment they run under.
type RecipeDef struct {
	Name        string                 `yaml:"name,omitempty"`
	Description string                 `yaml:"description,omitempty"`
	Image       string                 `yaml:"image,omitempty"`
	Timeout     string                 `yaml:"timeout,omitempty"`
	Autoenv     bool                   `yaml:"autoenv,omitempty"`
	Interactive bool                   `yaml:"interactive,omitempty"`
	Vars        map[string]interface{} `yaml:"vars,omitempty"`
	Env         map[string]string      `yaml:"env,omitempty"`
	Steps       []Step                 `yaml:"steps,omitempty"`
}

// recipeDefSpec is the raw YAML shape. Steps are kept as raw maps here and
// dispatched through the step loader registry.
type recipeDefSpec struct {
	Name        string                        `yaml:"name,omitempty"`
	Description string                        `yaml:"description,omitempty"`
	Image       string                        `yaml:"image,omitempty"`
	Timeout     string                        `yaml:"timeout,omitempty"`
	Autoenv     bool                          `yaml:"autoenv,omitempty"`
	Interactive bool                          `yaml:"interactive,omitempty"`
	Vars        map[interface{}]interface{}   `yaml:"vars,omitempty"`
	Env         map[string]string             `yaml:"env,omitempty"`
	Run         string                        `yaml:"run,omitempty"`
	StepDefs    []map[interface{}]interface{} `yaml:"steps,omitempty"`
}

func NewDefaultRecipeDef() *RecipeDef {
	return &RecipeDef{
		Vars:  map[string]interface{}{},
		Env:   map[string]string{},
		Steps: []Step{},
	}
}

func (t *RecipeDef) UnmarshalYAML(unmarshal func(interface{}) error) error {
	spec := recipeDefSpec{
		Env:      map[string]string{},
		StepDefs: []map[interface{}]interface{}{},
	}

	if err := unmarshal(&spec); err != nil {
		return errors.Trace(err)
	}

	t.Name = spec.Name
	t.Description = spec.Description
	t.Image = spec.Image
	t.Timeout = spec.Timeout
	t.Autoenv = spec.Autoenv
	t.Interactive = spec.Interactive
	t.Env = spec.Env

	vars := map[string]interface{}{}
	if spec.Vars != nil {
		converted, err := maputil.RecursivelyStringifyKeys(map[string]interface{}{"vars": spec.Vars})
		if err != nil {
			return errors.Annotate(err, "failed reading vars")
		}
		vars = converted["vars"].(map[string]interface{})
	}
	t.Vars = vars

	steps, err := readStepsFromStepDefs(spec.Run, spec.StepDefs)
	if err != nil {
		return errors.Annotate(err, "failed reading steps")
	}
	t.Steps = steps

	return nil
}
