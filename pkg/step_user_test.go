package provis

import (
	"os/user"
	"testing"
)

func TestUserStepSwitchesContextUser(t *testing.T) {
	current, err := user.Current()
	if err != nil {
		t.Skipf("can not determine the current user: %v", err)
	}

	step := UserStep{Name: "switch", User: current.Username}

	result, err := step.Run(runStepContext(t, map[string]interface{}{}))

	if err != nil {
		t.Fatalf("Error: %v", err)
	}

	if result.Context.User != current.Username {
		t.Errorf("expected user %q, got %q", current.Username, result.Context.User)
	}

	if result.Output != "" {
		t.Errorf("a user step must not produce output, got %q", result.Output)
	}
}

func TestUserStepRendersUserName(t *testing.T) {
	current, err := user.Current()
	if err != nil {
		t.Skipf("can not determine the current user: %v", err)
	}

	step := UserStep{Name: "switch", User: `{{ get "builder" }}`}

	result, err := step.Run(runStepContext(t, map[string]interface{}{"builder": current.Username}))

	if err != nil {
		t.Fatalf("Error: %v", err)
	}

	if result.Context.User != current.Username {
		t.Errorf("expected user %q, got %q", current.Username, result.Context.User)
	}
}

func TestUserStepRejectsUnknownUser(t *testing.T) {
	step := UserStep{Name: "switch", User: "no-such-user-provis-test"}

	_, err := step.Run(runStepContext(t, map[string]interface{}{}))

	if err == nil {
		t.Fatal("expected an error for an unknown user")
	}

	if _, ok := err.(*ContextError); !ok {
		t.Errorf("expected *ContextError, got %T: %v", err, err)
	}
}
