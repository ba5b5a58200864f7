package provis

import (
	"fmt"
	"io/ioutil"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/errors"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v2"

	"github.com/provis-run/provis/pkg/util/maputil"
)

var stepLoaders []StepLoader

func init() {
	stepLoaders = []StepLoader{}
}

func Register(stepLoader StepLoader) {
	stepLoaders = append(stepLoaders, stepLoader)
}

type stepLoadingContextImpl struct{}

func (s stepLoadingContextImpl) LoadStep(def StepDef) (Step, error) {
	return LoadStep(def)
}

func LoadStep(def StepDef) (Step, error) {
	var lastError error

	context := stepLoadingContextImpl{}
	for _, loader := range stepLoaders {
		var s Step
		s, lastError = loader.LoadStep(def, context)

		if lastError == nil {
			log.WithField("step", s.GetName()).Debugf("step loaded")
			return s, nil
		}
	}
	return nil, errors.Annotatef(lastError, "no loader matched step[%d]: %v", def.Index(), def.Raw())
}

func readStepsFromStepDefs(run string, stepDefs []map[interface{}]interface{}) ([]Step, error) {
	result := []Step{}

	if run != "" {
		if len(stepDefs) > 0 {
			return nil, fmt.Errorf("both run and steps exist")
		}

		raw := map[string]interface{}{
			"name":   "run",
			"run":    run,
			"silent": false,
		}
		s, err := LoadStep(NewStepDef(raw, 0))

		if err != nil {
			return nil, errors.Annotate(err, "failed loading the top-level run step")
		}

		result = []Step{s}
	} else {
		for i, stepDef := range stepDefs {
			defaultName := fmt.Sprintf("step-%d", i+1)

			if stepDef["name"] == "" || stepDef["name"] == nil {
				stepDef["name"] = defaultName
			}

			converted, castErr := maputil.CastKeysToStrings(stepDef)

			if castErr != nil {
				return nil, errors.Annotatef(castErr, "error reading step[%d]", i)
			}

			s, err := LoadStep(NewStepDef(converted, i))

			if err != nil {
				return nil, errors.Annotatef(err, "error reading step[%d]", i)
			}

			result = append(result, s)
		}
	}

	return result, nil
}

// recipeSchema accepts exactly the step shapes the registered loaders
// know how to load. Violations are collected and reported all at once.
var recipeSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"name":        map[string]interface{}{"type": "string"},
		"description": map[string]interface{}{"type": "string"},
		"image":       map[string]interface{}{"type": "string"},
		"timeout":     map[string]interface{}{"type": "string"},
		"autoenv":     map[string]interface{}{"type": "boolean"},
		"interactive": map[string]interface{}{"type": "boolean"},
		"vars":        map[string]interface{}{"type": "object"},
		"env":         map[string]interface{}{"type": "object"},
		"run":         map[string]interface{}{"type": "string", "minLength": 1},
		"steps": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"anyOf": []interface{}{
					map[string]interface{}{
						"required": []interface{}{"run"},
						"properties": map[string]interface{}{
							"run": map[string]interface{}{"type": "string", "minLength": 1},
						},
					},
					map[string]interface{}{
						"required": []interface{}{"user"},
						"properties": map[string]interface{}{
							"user": map[string]interface{}{"type": "string", "minLength": 1},
						},
					},
					map[string]interface{}{
						"required": []interface{}{"workdir"},
						"properties": map[string]interface{}{
							"workdir": map[string]interface{}{"type": "string", "minLength": 1},
						},
					},
					map[string]interface{}{
						"required": []interface{}{"env"},
						"properties": map[string]interface{}{
							"env": map[string]interface{}{"type": "object"},
						},
					},
					map[string]interface{}{
						"required": []interface{}{"fetch"},
					},
					map[string]interface{}{
						"required": []interface{}{"packages"},
					},
				},
			},
		},
	},
}

func validateRecipeBytes(source string, data []byte) error {
	var raw map[interface{}]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return &ParseError{Source: source, Err: err}
	}

	doc, err := maputil.RecursivelyStringifyKeys(raw)
	if err != nil {
		return &ParseError{Source: source, Err: err}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(recipeSchema))
	if err != nil {
		return errors.Annotate(err, "failed compiling the recipe schema")
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &ParseError{Source: source, Err: err}
	}

	if !result.Valid() {
		var merr *multierror.Error
		for _, e := range result.Errors() {
			merr = multierror.Append(merr, fmt.Errorf("%s", e))
		}
		return &ParseError{Source: source, Err: merr.ErrorOrNil()}
	}

	log.Debugf("recipe %s passed schema validation", source)

	return nil
}

func ReadRecipeFromString(data string) (*RecipeDef, error) {
	return ReadRecipeFromBytes([]byte(data))
}

func ReadRecipeFromBytes(data []byte) (*RecipeDef, error) {
	return readRecipe("recipe", data)
}

func ReadRecipeFromFile(path string) (*RecipeDef, error) {
	log.Debugf("loading %s", path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s does not exist", path)
	}

	yamlBytes, err := ioutil.ReadFile(path)

	if err != nil {
		return nil, errors.Annotatef(err, "error while loading %s", path)
	}

	recipe, err := readRecipe(path, yamlBytes)

	if err != nil {
		return nil, err
	}

	return recipe, nil
}

func readRecipe(source string, data []byte) (*RecipeDef, error) {
	if err := validateRecipeBytes(source, data); err != nil {
		return nil, err
	}

	c := NewDefaultRecipeDef()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}

	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return nil, &ParseError{Source: source, Err: errors.Annotatef(err, "invalid timeout %q", c.Timeout)}
		}
	}

	return c, nil
}
