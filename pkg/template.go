package provis

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/pkg/errors"

	"github.com/provis-run/provis/pkg/util/maputil"
)

// RecipeTemplate renders templated step fields (commands, fetch sources,
// package names) against the recipe vars.
type RecipeTemplate struct {
	recipeName string
}

func NewRecipeTemplate(recipeName string) *RecipeTemplate {
	return &RecipeTemplate{
		recipeName: recipeName,
	}
}

func (t *RecipeTemplate) createFuncMap(values map[string]interface{}) template.FuncMap {
	get := func(key string) (interface{}, error) {
		sep := "."
		components := strings.Split(strings.Replace(key, "-", "_", -1), sep)
		val, err := maputil.GetValueAtPath(values, components)

		if err != nil {
			return nil, errors.WithStack(err)
		}

		if val == nil {
			return nil, fmt.Errorf("no value found for \"%s\"", key)
		}

		return val, nil
	}

	escapeDoubleQuotes := func(str string) (interface{}, error) {
		val := strings.Replace(str, "\"", "\\\"", -1)
		return val, nil
	}

	fns := sprig.TxtFuncMap()
	fns["get"] = get
	fns["escapeDoubleQuotes"] = escapeDoubleQuotes

	return fns
}

func (t *RecipeTemplate) Render(expr string, name string, values map[string]interface{}) (string, error) {
	tmpl := template.New(fmt.Sprintf("%s: %s", t.recipeName, name))
	tmpl.Option("missingkey=error")

	tmpl, err := tmpl.Funcs(t.createFuncMap(values)).Parse(expr)
	if err != nil {
		return "", errors.Wrapf(err, "failed parsing template for %s.%s", t.recipeName, name)
	}

	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, values); err != nil {
		return "", errors.Wrapf(err, "failed rendering %s.%s", t.recipeName, name)
	}

	return buff.String(), nil
}
