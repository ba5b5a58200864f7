package provis

import (
	"reflect"

	log "github.com/sirupsen/logrus"

	"github.com/provis-run/provis/pkg/util/maputil"
)

// StepDef wraps one raw step mapping from the recipe, plus its position in
// the declared order.
type StepDef struct {
	raw   map[string]interface{}
	index int
}

func NewStepDef(raw map[string]interface{}, index int) StepDef {
	return StepDef{
		raw:   raw,
		index: index,
	}
}

func (c StepDef) GetName() string {
	str, ok := c.raw["name"].(string)

	if !ok {
		log.Panicf("name wasn't string! name=%s raw=%v", reflect.TypeOf(c.raw["name"]), c.raw)
	}

	return str
}

func (c StepDef) Index() int {
	return c.index
}

func (c StepDef) Raw() map[string]interface{} {
	return c.raw
}

func (c StepDef) Get(key string) interface{} {
	return c.raw[key]
}

func (c StepDef) GetString(key string) (string, bool) {
	r, ok := c.raw[key].(string)
	return r, ok
}

func (c StepDef) GetStringMapOrEmpty(key string) map[string]interface{} {
	ctx := log.WithField("raw", c.raw[key]).WithField("key", key).WithField("type", reflect.TypeOf(c.raw[key]))

	if m, ok := c.Get(key).(map[string]interface{}); ok {
		return m
	}

	rawMap, expected := c.Get(key).(map[interface{}]interface{})

	if !expected {
		ctx.Debugf("step def ignored field with unexpected type")
		return map[string]interface{}{}
	}

	result, err := maputil.CastKeysToStrings(rawMap)

	if err != nil {
		ctx.WithField("error", err).Debugf("step def failed to cast keys to strings")
		return map[string]interface{}{}
	}

	return result
}

func (c StepDef) Silent() bool {
	silent, ok := c.raw["silent"].(bool)
	if !ok {
		silent = false
	}
	return silent
}

func (c StepDef) ContinueOnError() bool {
	cont, ok := c.raw["continue_on_error"].(bool)
	if !ok {
		cont = false
	}
	return cont
}
