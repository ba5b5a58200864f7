package provis

import (
	"testing"
)

func TestInstallCommand(t *testing.T) {
	testcases := []struct {
		manager  string
		names    []string
		update   bool
		expected string
	}{
		{
			manager:  "apt-get",
			names:    []string{"clang", "make"},
			expected: "apt-get install -y clang make",
		},
		{
			manager:  "apt-get",
			names:    []string{"curl"},
			update:   true,
			expected: "apt-get update && apt-get install -y curl",
		},
		{
			manager:  "apk",
			names:    []string{"build-base"},
			expected: "apk add --no-cache build-base",
		},
		{
			manager:  "dnf",
			names:    []string{"clang"},
			expected: "dnf install -y clang",
		},
		{
			manager:  "yum",
			names:    []string{"gcc"},
			expected: "yum install -y gcc",
		},
	}

	for _, tc := range testcases {
		actual, err := installCommand(tc.manager, tc.names, tc.update)

		if err != nil {
			t.Errorf("%s: Error: %v", tc.manager, err)
			continue
		}

		if actual != tc.expected {
			t.Errorf("%s: expected %q, got %q", tc.manager, tc.expected, actual)
		}
	}
}

func TestInstallCommandRejectsUnknownManager(t *testing.T) {
	_, err := installCommand("pacman", []string{"clang"}, false)

	if err == nil {
		t.Fatal("expected an error for an unsupported package manager")
	}
}

func TestPackagesStepLoaderShorthand(t *testing.T) {
	def := NewStepDef(map[string]interface{}{
		"name":     "deps",
		"packages": []interface{}{"clang", "make"},
	}, 0)

	step, err := PackagesStepLoader{}.LoadStep(def, nil)

	if err != nil {
		t.Fatalf("Error: %v", err)
	}

	pkgs, ok := step.(PackagesStep)
	if !ok {
		t.Fatalf("expected PackagesStep, got %T", step)
	}

	if pkgs.Manager != "apt-get" {
		t.Errorf("expected the default manager apt-get, got %q", pkgs.Manager)
	}

	if len(pkgs.Packages) != 2 {
		t.Errorf("expected 2 packages, got %v", pkgs.Packages)
	}
}

func TestPackagesStepLoaderRejectsEmptyList(t *testing.T) {
	def := NewStepDef(map[string]interface{}{
		"name":     "deps",
		"packages": []interface{}{},
	}, 0)

	if _, err := (PackagesStepLoader{}).LoadStep(def, nil); err == nil {
		t.Fatal("expected an error for an empty package list")
	}
}

func TestPackagesStepLoaderRejectsUnknownManager(t *testing.T) {
	def := NewStepDef(map[string]interface{}{
		"name": "deps",
		"packages": map[string]interface{}{
			"manager": "pacman",
			"names":   []interface{}{"clang"},
		},
	}, 0)

	if _, err := (PackagesStepLoader{}).LoadStep(def, nil); err == nil {
		t.Fatal("expected an error for an unsupported package manager")
	}
}
