package provis

import (
	"fmt"
	"os/user"

	log "github.com/sirupsen/logrus"

	"github.com/juju/errors"
)

type UserStepLoader struct{}

func (l UserStepLoader) LoadStep(def StepDef, context LoadingContext) (Step, error) {
	name, isStr := def.GetString("user")

	if !isStr || name == "" {
		return nil, fmt.Errorf("no user step found. user=%v, config=%v", def.Get("user"), def)
	}

	return UserStep{
		Name:            def.GetName(),
		User:            name,
		continueOnError: def.ContinueOnError(),
	}, nil
}

func NewUserStepLoader() UserStepLoader {
	return UserStepLoader{}
}

// UserStep switches the active user for all steps declared after it.
// The user must exist on the host at the time the step runs.
type UserStep struct {
	Name            string
	User            string
	continueOnError bool
}

func (s UserStep) GetName() string {
	return s.Name
}

func (s UserStep) Silenced() bool {
	return true
}

func (s UserStep) ContinuesOnError() bool {
	return s.continueOnError
}

func (s UserStep) Run(context ExecutionContext) (StepResult, error) {
	name, err := context.Render(s.User, s.GetName())
	if err != nil {
		return StepResult{Context: context}, errors.Annotatef(err, "user step failed templating")
	}

	if _, err := user.Lookup(name); err != nil {
		return StepResult{Context: context}, &ContextError{Op: "user", Ref: name, Err: err}
	}

	log.Debugf("switching active user to %s", name)

	return StepResult{Context: context.WithUser(name)}, nil
}
