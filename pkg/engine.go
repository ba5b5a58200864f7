package provis

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/juju/errors"
	perrors "github.com/pkg/errors"
)

// Engine runs the steps of one recipe strictly in declared order,
// threading the ExecutionContext value through and stopping at the first
// failing step.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// RunRecipe prepares the initial execution context for the recipe and runs
// its steps. The optional recipe timeout bounds the whole run.
func (e *Engine) RunRecipe(recipe *RecipeDef, vars map[string]interface{}) (string, error) {
	ctx := context.Background()

	if recipe.Timeout != "" {
		d, err := time.ParseDuration(recipe.Timeout)
		if err != nil {
			return "", &ParseError{Source: recipe.Name, Err: errors.Annotatef(err, "invalid timeout %q", recipe.Timeout)}
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	merged := map[string]interface{}{}
	for k, v := range recipe.Vars {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}

	template := NewRecipeTemplate(recipe.Name)
	execCtx := NewExecutionContext(recipe, template, merged, ctx)

	if wd, err := os.Getwd(); err == nil {
		execCtx = execCtx.WithDir(wd)
	}

	return e.Run(recipe, execCtx)
}

func (e *Engine) Run(recipe *RecipeDef, context ExecutionContext) (string, error) {
	ctx := log.WithFields(log.Fields{"recipe": recipe.Name})

	ctx.Debugf("provisioning run started with %d step(s)", len(recipe.Steps))

	var output StepResult
	var lastout StepResult
	var err error

	for i, s := range recipe.Steps {
		lastout, err = s.Run(context)

		if err != nil {
			if s.ContinuesOnError() {
				ctx.Warnf("step[%d] %q failed but is marked continue_on_error: %v", i, s.GetName(), err)
				err = nil
				continue
			}
			return lastout.Output, &StepFailed{
				Index:    i,
				Name:     s.GetName(),
				ExitCode: exitCodeOf(err),
				Err:      err,
			}
		}

		context = lastout.Context

		if s.GetName() != "" {
			context = context.WithAdditionalValues(map[string]interface{}{s.GetName(): lastout.Output})
		}

		if !s.Silenced() && len(lastout.Output) > 0 {
			var sep string
			if output.Output != "" && !strings.HasSuffix(output.Output, "\n") {
				sep = "\n"
			}
			output = StepResult{
				Output: output.Output + sep + lastout.Output,
			}
		}
	}

	if output.Output == "" {
		output = lastout
	}

	ctx.Debugf("provisioning run finished. out=%v, err=%v", output.Output, err)

	return output.Output, err
}

// exitCodeOf digs the underlying process exit code out of a wrapped step
// error. Errors that don't come from a finished process map to 1.
func exitCodeOf(err error) int {
	switch cause := perrors.Cause(err).(type) {
	case *StepFailed:
		return cause.ExitCode
	case *exec.ExitError:
		return cause.ExitCode()
	}

	return 1
}
