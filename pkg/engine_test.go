package provis

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeStep struct {
	name   string
	err    error
	cont   bool
	mutate func(ExecutionContext) ExecutionContext
	seen   *[]string
}

func (s fakeStep) GetName() string {
	return s.name
}

func (s fakeStep) Silenced() bool {
	return true
}

func (s fakeStep) ContinuesOnError() bool {
	return s.cont
}

func (s fakeStep) Run(context ExecutionContext) (StepResult, error) {
	if s.seen != nil {
		*s.seen = append(*s.seen, s.name)
	}
	if s.mutate != nil {
		context = s.mutate(context)
	}
	if s.err != nil {
		return StepResult{Context: context}, s.err
	}
	return StepResult{Output: s.name, Context: context}, nil
}

func testExecutionContext(recipe *RecipeDef, vars map[string]interface{}) ExecutionContext {
	return NewExecutionContext(recipe, NewRecipeTemplate(recipe.Name), vars, nil)
}

func TestStepsRunInDeclaredOrder(t *testing.T) {
	seen := []string{}

	recipe := NewDefaultRecipeDef()
	for _, name := range []string{"first", "second", "third", "fourth"} {
		recipe.Steps = append(recipe.Steps, fakeStep{name: name, seen: &seen})
	}

	engine := NewEngine()

	if _, err := engine.Run(recipe, testExecutionContext(recipe, map[string]interface{}{})); err != nil {
		t.Fatalf("Error: %v", err)
	}

	expected := []string{"first", "second", "third", "fourth"}
	if diff := cmp.Diff(expected, seen); diff != "" {
		t.Errorf("execution order mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyStepListSucceeds(t *testing.T) {
	recipe := NewDefaultRecipeDef()

	engine := NewEngine()

	output, err := engine.Run(recipe, testExecutionContext(recipe, map[string]interface{}{}))

	if err != nil {
		t.Errorf("Error: %v", err)
	}

	if output != "" {
		t.Errorf("unexpected output: %q", output)
	}
}

func TestFirstFailureStopsTheRun(t *testing.T) {
	seen := []string{}

	recipe := NewDefaultRecipeDef()
	recipe.Steps = []Step{
		fakeStep{name: "ok-1", seen: &seen},
		fakeStep{name: "ok-2", seen: &seen},
		fakeStep{name: "boom", err: fmt.Errorf("simulated failure"), seen: &seen},
		fakeStep{name: "never-runs", seen: &seen},
	}

	engine := NewEngine()

	_, err := engine.Run(recipe, testExecutionContext(recipe, map[string]interface{}{}))

	if err == nil {
		t.Fatal("expected the run to fail")
	}

	failed, ok := err.(*StepFailed)
	if !ok {
		t.Fatalf("expected *StepFailed, got %T: %v", err, err)
	}

	if failed.Index != 2 {
		t.Errorf("expected failing step index 2, got %d", failed.Index)
	}

	if failed.Name != "boom" {
		t.Errorf("expected failing step name \"boom\", got %q", failed.Name)
	}

	expected := []string{"ok-1", "ok-2", "boom"}
	if diff := cmp.Diff(expected, seen); diff != "" {
		t.Errorf("execution order mismatch (-want +got):\n%s", diff)
	}
}

func TestContinueOnErrorKeepsGoing(t *testing.T) {
	seen := []string{}

	recipe := NewDefaultRecipeDef()
	recipe.Steps = []Step{
		fakeStep{name: "ok", seen: &seen},
		fakeStep{name: "flaky", err: fmt.Errorf("simulated failure"), cont: true, seen: &seen},
		fakeStep{name: "still-runs", seen: &seen},
	}

	engine := NewEngine()

	if _, err := engine.Run(recipe, testExecutionContext(recipe, map[string]interface{}{})); err != nil {
		t.Fatalf("Error: %v", err)
	}

	expected := []string{"ok", "flaky", "still-runs"}
	if diff := cmp.Diff(expected, seen); diff != "" {
		t.Errorf("execution order mismatch (-want +got):\n%s", diff)
	}
}

func TestContextMutationsAffectOnlyLaterSteps(t *testing.T) {
	usersSeen := []string{}

	record := func(label string) fakeStep {
		return fakeStep{
			name: label,
			mutate: func(context ExecutionContext) ExecutionContext {
				usersSeen = append(usersSeen, context.User)
				return context
			},
		}
	}

	recipe := NewDefaultRecipeDef()
	recipe.Steps = []Step{
		record("before"),
		fakeStep{name: "switch", mutate: func(context ExecutionContext) ExecutionContext {
			return context.WithUser("postgres")
		}},
		record("after"),
	}

	engine := NewEngine()

	if _, err := engine.Run(recipe, testExecutionContext(recipe, map[string]interface{}{})); err != nil {
		t.Fatalf("Error: %v", err)
	}

	expected := []string{"", "postgres"}
	if diff := cmp.Diff(expected, usersSeen); diff != "" {
		t.Errorf("user visibility mismatch (-want +got):\n%s", diff)
	}
}

// Mirrors a full provisioning run: a couple of install-ish steps, an env
// switch, a failing command, and a step that must never run.
func TestFailingRecipeScenario(t *testing.T) {
	yaml := `
name: scenario
vars:
  pkg: pkgA
steps:
- run: echo create-user
- run: 'echo install {{ get "pkg" }}'
- env:
    BUILD_PHASE: compile
- run: exit 1
- run: echo never-runs
`

	recipe, err := ReadRecipeFromString(yaml)
	if err != nil {
		t.Fatalf("Error: %v", err)
	}

	engine := NewEngine()

	output, err := engine.RunRecipe(recipe, map[string]interface{}{})

	if err == nil {
		t.Fatal("expected the run to fail")
	}

	failed, ok := err.(*StepFailed)
	if !ok {
		t.Fatalf("expected *StepFailed, got %T: %v", err, err)
	}

	if failed.Index != 3 {
		t.Errorf("expected failing step index 3, got %d", failed.Index)
	}

	if failed.ExitCode != 1 {
		t.Errorf("expected exit code 1, got %d", failed.ExitCode)
	}

	if strings.Contains(output, "never-runs") {
		t.Errorf("the step after the failure must not run. output=%q", output)
	}
}
