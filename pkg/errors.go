package provis

import (
	"fmt"
)

// ParseError is returned when a recipe can not be turned into an ordered
// list of steps, either because the YAML is malformed or because one or
// more step definitions violate the recipe schema.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed parsing recipe %s: %v", e.Source, e.Err)
}

// StepFailed is returned by the engine when a step exits nonzero and the
// step is not marked continue_on_error. Index is the zero-based position
// of the failed step in the recipe.
type StepFailed struct {
	Index    int
	Name     string
	ExitCode int
	Err      error
}

func (e *StepFailed) Error() string {
	return fmt.Sprintf("step[%d] %q failed with exit code %d: %v", e.Index, e.Name, e.ExitCode, e.Err)
}

// ContextError is returned when a step references a user or a directory
// that can not be resolved at run time.
type ContextError struct {
	Op  string
	Ref string
	Err error
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Op, e.Ref, e.Err)
}
