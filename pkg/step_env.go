package provis

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/juju/errors"
)

type EnvStepLoader struct{}

func (l EnvStepLoader) LoadStep(def StepDef, context LoadingContext) (Step, error) {
	env := def.GetStringMapOrEmpty("env")

	if len(env) == 0 {
		return nil, fmt.Errorf("no env step found. env=%v, config=%v", def.Get("env"), def)
	}

	return EnvStep{
		Name:            def.GetName(),
		Env:             env,
		continueOnError: def.ContinueOnError(),
	}, nil
}

func NewEnvStepLoader() EnvStepLoader {
	return EnvStepLoader{}
}

// EnvStep merges variables into the environment of all steps declared
// after it. Values are rendered as templates against the recipe vars.
type EnvStep struct {
	Name            string
	Env             map[string]interface{}
	continueOnError bool
}

func (s EnvStep) GetName() string {
	return s.Name
}

func (s EnvStep) Silenced() bool {
	return true
}

func (s EnvStep) ContinuesOnError() bool {
	return s.continueOnError
}

func (s EnvStep) Run(context ExecutionContext) (StepResult, error) {
	rendered := map[string]string{}

	for name, raw := range s.Env {
		value, err := context.Render(fmt.Sprintf("%v", raw), s.GetName())
		if err != nil {
			return StepResult{Context: context}, errors.Annotatef(err, "env step failed templating %s", name)
		}
		rendered[name] = value
	}

	log.Debugf("exporting %d environment variable(s)", len(rendered))

	return StepResult{Context: context.WithEnv(rendered)}, nil
}
