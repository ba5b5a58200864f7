package provis

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/juju/errors"
)

type WorkdirStepLoader struct{}

func (l WorkdirStepLoader) LoadStep(def StepDef, context LoadingContext) (Step, error) {
	dir, isStr := def.GetString("workdir")

	if !isStr || dir == "" {
		return nil, fmt.Errorf("no workdir step found. workdir=%v, config=%v", def.Get("workdir"), def)
	}

	return WorkdirStep{
		Name:            def.GetName(),
		Dir:             dir,
		continueOnError: def.ContinueOnError(),
	}, nil
}

func NewWorkdirStepLoader() WorkdirStepLoader {
	return WorkdirStepLoader{}
}

// WorkdirStep switches the working directory for all steps declared after
// it. Relative paths resolve against the currently active directory.
type WorkdirStep struct {
	Name            string
	Dir             string
	continueOnError bool
}

func (s WorkdirStep) GetName() string {
	return s.Name
}

func (s WorkdirStep) Silenced() bool {
	return true
}

func (s WorkdirStep) ContinuesOnError() bool {
	return s.continueOnError
}

func (s WorkdirStep) Run(context ExecutionContext) (StepResult, error) {
	dir, err := context.Render(s.Dir, s.GetName())
	if err != nil {
		return StepResult{Context: context}, errors.Annotatef(err, "workdir step failed templating")
	}

	if !filepath.IsAbs(dir) && context.Dir != "" {
		dir = filepath.Join(context.Dir, dir)
	}

	stat, err := os.Stat(dir)
	if err != nil {
		return StepResult{Context: context}, &ContextError{Op: "workdir", Ref: dir, Err: err}
	}
	if !stat.IsDir() {
		return StepResult{Context: context}, &ContextError{Op: "workdir", Ref: dir, Err: fmt.Errorf("not a directory")}
	}

	log.Debugf("switching working directory to %s", dir)

	return StepResult{Context: context.WithDir(dir)}, nil
}
