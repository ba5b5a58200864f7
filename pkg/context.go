package provis

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/provis-run/provis/pkg/util/stringutil"
)

// ExecutionContext is the state every step runs under: the active user, the
// working directory and the environment. It is a value, not shared state.
// Context steps produce an updated copy that the engine applies to the steps
// declared after them, never to prior ones.
type ExecutionContext struct {
	User string
	Dir  string
	Env  map[string]string

	vars        map[string]interface{}
	template    *RecipeTemplate
	autoenv     bool
	interactive bool
	ctx         context.Context
}

func NewExecutionContext(recipe *RecipeDef, template *RecipeTemplate, vars map[string]interface{}, ctx context.Context) ExecutionContext {
	if ctx == nil {
		ctx = context.Background()
	}

	env := map[string]string{}
	for k, v := range recipe.Env {
		env[k] = v
	}

	return ExecutionContext{
		Env:         env,
		vars:        vars,
		template:    template,
		autoenv:     recipe.Autoenv,
		interactive: recipe.Interactive,
		ctx:         ctx,
	}
}

func (c ExecutionContext) WithUser(user string) ExecutionContext {
	c.User = user
	return c
}

func (c ExecutionContext) WithDir(dir string) ExecutionContext {
	c.Dir = dir
	return c
}

func (c ExecutionContext) WithEnv(env map[string]string) ExecutionContext {
	merged := map[string]string{}
	for k, v := range c.Env {
		merged[k] = v
	}
	for k, v := range env {
		merged[k] = v
	}
	c.Env = merged
	return c
}

func (c ExecutionContext) WithAdditionalValues(values map[string]interface{}) ExecutionContext {
	merged := map[string]interface{}{}
	for k, v := range c.vars {
		merged[k] = v
	}
	for k, v := range values {
		merged[k] = v
	}
	c.vars = merged
	return c
}

func (c ExecutionContext) Vars() map[string]interface{} {
	return c.vars
}

func (c ExecutionContext) Autoenv() bool {
	return c.autoenv
}

func (c ExecutionContext) Interactive() bool {
	return c.interactive
}

func (c ExecutionContext) Context() context.Context {
	return c.ctx
}

func (c ExecutionContext) Render(expr string, name string) (string, error) {
	return c.template.Render(expr, name, c.vars)
}

func (c ExecutionContext) GenerateAutoenv() (map[string]string, error) {
	return generateAutoenvRecursively("", c.vars, stringutil.ToEnvironmentName)
}

func generateAutoenvRecursively(path string, env map[string]interface{}, toEnvName func(string) string) (map[string]string, error) {
	logger := log.WithFields(log.Fields{"path": path})
	result := map[string]string{}
	for k, v := range env {
		if nestedEnv, ok := v.(map[string]interface{}); ok {
			nestedResult, err := generateAutoenvRecursively(fmt.Sprintf("%s%s.", path, k), nestedEnv, toEnvName)
			if err != nil {
				logger.Errorf("error while recursing: %v", err)
			}
			for k2, v2 := range nestedResult {
				result[k2] = v2
			}
		} else if nestedEnv, ok := v.(map[string]string); ok {
			for k2, v2 := range nestedEnv {
				result[toEnvName(fmt.Sprintf("%s%s.%s", path, k, k2))] = v2
			}
		} else if ary, ok := v.([]string); ok {
			for i, v2 := range ary {
				result[toEnvName(fmt.Sprintf("%s%s.%d", path, k, i))] = v2
			}
		} else {
			if stringV, ok := v.(string); ok {
				result[toEnvName(fmt.Sprintf("%s%s", path, k))] = stringV
			} else if v == nil {
				result[toEnvName(fmt.Sprintf("%s%s", path, k))] = ""
			} else if b, ok := v.(bool); ok {
				result[toEnvName(fmt.Sprintf("%s%s", path, k))] = fmt.Sprintf("%t", b)
			} else if i, ok := v.(int); ok {
				result[toEnvName(fmt.Sprintf("%s%s", path, k))] = fmt.Sprintf("%d", i)
			} else {
				return nil, errors.Errorf("the value for the key %s was neither a `map[string]interface{}` nor a `string`: %v(%#v)", k, v, v)
			}
		}
	}
	logger.Debugf("generated autoenv: %v", result)
	return result, nil
}
