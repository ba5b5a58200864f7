package provis

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
)

const minimalRecipeYaml = `
run: echo foobar
`

func TestMinimalRecipeParsing(t *testing.T) {
	expected := &RecipeDef{
		Vars: map[string]interface{}{},
		Env:  map[string]string{},
		Steps: []Step{
			RunStep{
				Name:    "run",
				Command: "echo foobar",
				shell:   true,
			},
		},
	}

	actual, err := ReadRecipeFromString(minimalRecipeYaml)

	if err != nil {
		t.Fatalf("Error: %v", err)
	}

	if diff := cmp.Diff(expected, actual, cmp.AllowUnexported(RunStep{})); diff != "" {
		t.Errorf("ReadRecipeFromString() mismatch (-want +got):\n%s", diff)
	}
}

// A recipe with no steps is a no-op, not an error: it parses and a run over
// it succeeds trivially.
func TestEmptyRecipeRunsTrivially(t *testing.T) {
	testcases := []struct {
		subject string
		yaml    string
	}{
		{
			subject: "no steps key",
			yaml:    "name: empty\n",
		},
		{
			subject: "explicitly empty step list",
			yaml:    "name: empty\nsteps: []\n",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.subject, func(t *testing.T) {
			recipe, err := ReadRecipeFromString(tc.yaml)

			if err != nil {
				t.Fatalf("Error: %v", err)
			}

			if len(recipe.Steps) != 0 {
				t.Fatalf("expected no steps, got %s", spew.Sdump(recipe.Steps))
			}

			output, err := NewEngine().RunRecipe(recipe, map[string]interface{}{})

			if err != nil {
				t.Errorf("an empty recipe must run successfully: %v", err)
			}

			if output != "" {
				t.Errorf("unexpected output: %q", output)
			}
		})
	}
}

const fullRecipeYaml = `
name: pg-build-env
description: PostgreSQL extension build environment
timeout: 1h

vars:
  pg:
    version: "13"

env:
  DEBIAN_FRONTEND: noninteractive

steps:
- name: deps
  packages: [clang, make]
- run: useradd -m postgres
- user: postgres
- workdir: /home/postgres
- env:
    CARGO_HOME: /home/postgres/.cargo
- name: sources
  fetch:
    src: github.com/timescale/timescaledb-toolkit//extension
    dst: toolkit
`

func TestFullRecipeParsing(t *testing.T) {
	recipe, err := ReadRecipeFromString(fullRecipeYaml)

	if err != nil {
		t.Fatalf("Error: %v", err)
	}

	if recipe.Name != "pg-build-env" {
		t.Errorf("unexpected name: %s", recipe.Name)
	}

	if recipe.Timeout != "1h" {
		t.Errorf("unexpected timeout: %s", recipe.Timeout)
	}

	expectedVars := map[string]interface{}{
		"pg": map[string]interface{}{
			"version": "13",
		},
	}
	if diff := cmp.Diff(expectedVars, recipe.Vars); diff != "" {
		t.Errorf("vars mismatch (-want +got):\n%s", diff)
	}

	if len(recipe.Steps) != 6 {
		t.Fatalf("expected 6 steps, got %d: %s", len(recipe.Steps), spew.Sdump(recipe.Steps))
	}

	expectedNames := []string{"deps", "step-2", "step-3", "step-4", "step-5", "sources"}
	for i, s := range recipe.Steps {
		if s.GetName() != expectedNames[i] {
			t.Errorf("step[%d]: expected name %q, got %q", i, expectedNames[i], s.GetName())
		}
	}

	if _, ok := recipe.Steps[0].(PackagesStep); !ok {
		t.Errorf("step[0]: expected PackagesStep, got %s", spew.Sdump(recipe.Steps[0]))
	}
	if _, ok := recipe.Steps[1].(RunStep); !ok {
		t.Errorf("step[1]: expected RunStep, got %s", spew.Sdump(recipe.Steps[1]))
	}
	if _, ok := recipe.Steps[2].(UserStep); !ok {
		t.Errorf("step[2]: expected UserStep, got %s", spew.Sdump(recipe.Steps[2]))
	}
	if _, ok := recipe.Steps[3].(WorkdirStep); !ok {
		t.Errorf("step[3]: expected WorkdirStep, got %s", spew.Sdump(recipe.Steps[3]))
	}
	if _, ok := recipe.Steps[4].(EnvStep); !ok {
		t.Errorf("step[4]: expected EnvStep, got %s", spew.Sdump(recipe.Steps[4]))
	}
	if fetch, ok := recipe.Steps[5].(FetchStep); !ok {
		t.Errorf("step[5]: expected FetchStep, got %s", spew.Sdump(recipe.Steps[5]))
	} else if fetch.Dst != "toolkit" {
		t.Errorf("step[5]: unexpected dst: %s", fetch.Dst)
	}
}

// A step that passes the schema but matches no loader must report which
// step it was.
func TestUnloadableStepReportsItsIndex(t *testing.T) {
	yaml := `
steps:
- run: echo ok
- packages: []
`

	_, err := ReadRecipeFromString(yaml)

	if err == nil {
		t.Fatal("expected a parse error")
	}

	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}

	if !strings.Contains(err.Error(), "step[1]") {
		t.Errorf("the error should name the failing step: %v", err)
	}
}

func TestMalformedRecipes(t *testing.T) {
	testcases := []struct {
		subject string
		yaml    string
	}{
		{
			subject: "step without any known action",
			yaml: `
steps:
- name: mystery
  frobnicate: yes
`,
		},
		{
			subject: "run step with empty command",
			yaml: `
steps:
- run: ""
`,
		},
		{
			subject: "invalid timeout",
			yaml: `
timeout: very long
run: echo hi
`,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.subject, func(t *testing.T) {
			recipe, err := ReadRecipeFromString(tc.yaml)

			if err == nil {
				t.Fatalf("expected a parse error, got recipe: %s", spew.Sdump(recipe))
			}

			if _, ok := err.(*ParseError); !ok {
				t.Errorf("expected *ParseError, got %T: %v", err, err)
			}
		})
	}
}
