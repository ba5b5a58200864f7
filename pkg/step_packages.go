package provis

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/juju/errors"
	"github.com/mitchellh/mapstructure"
)

type PackagesStepLoader struct{}

type packagesConfig struct {
	Manager string   `mapstructure:"manager"`
	Names   []string `mapstructure:"names"`
	Update  bool     `mapstructure:"update"`
}

func (l PackagesStepLoader) LoadStep(def StepDef, context LoadingContext) (Step, error) {
	raw := def.Get("packages")

	if raw == nil {
		return nil, fmt.Errorf("no packages step found. config=%v", def)
	}

	conf := packagesConfig{
		Manager: "apt-get",
	}

	switch pkgs := raw.(type) {
	case []interface{}:
		for _, p := range pkgs {
			name, ok := p.(string)
			if !ok {
				return nil, fmt.Errorf("package name must be a string: %v", p)
			}
			conf.Names = append(conf.Names, name)
		}
	default:
		m := def.GetStringMapOrEmpty("packages")
		if err := mapstructure.Decode(m, &conf); err != nil {
			return nil, errors.Annotatef(err, "failed decoding packages step")
		}
	}

	if len(conf.Names) == 0 {
		return nil, fmt.Errorf("packages step needs at least one package name. config=%v", def)
	}

	if _, err := installCommand(conf.Manager, conf.Names, conf.Update); err != nil {
		return nil, errors.Trace(err)
	}

	return PackagesStep{
		Name:            def.GetName(),
		Manager:         conf.Manager,
		Packages:        conf.Names,
		Update:          conf.Update,
		silent:          def.Silent(),
		continueOnError: def.ContinueOnError(),
	}, nil
}

func NewPackagesStepLoader() PackagesStepLoader {
	return PackagesStepLoader{}
}

// PackagesStep installs OS packages through the host's package manager.
// The manager itself stays an opaque external command; the step only
// renders the right install invocation and observes its exit code.
type PackagesStep struct {
	Name            string
	Manager         string
	Packages        []string
	Update          bool
	silent          bool
	continueOnError bool
}

func (s PackagesStep) GetName() string {
	return s.Name
}

func (s PackagesStep) Silenced() bool {
	return s.silent
}

func (s PackagesStep) ContinuesOnError() bool {
	return s.continueOnError
}

func (s PackagesStep) Run(context ExecutionContext) (StepResult, error) {
	names := make([]string, len(s.Packages))
	for i, p := range s.Packages {
		rendered, err := context.Render(p, s.GetName())
		if err != nil {
			return StepResult{Context: context}, errors.Annotatef(err, "packages step failed templating %s", p)
		}
		names[i] = rendered
	}

	command, err := installCommand(s.Manager, names, s.Update)
	if err != nil {
		return StepResult{Context: context}, errors.Trace(err)
	}

	log.Debugf("installing %d package(s) via %s", len(names), s.Manager)

	runner := RunStep{Name: s.Name, shell: true}

	name, args, err := runner.commandNameAndArgs(command, context)
	if err != nil {
		return StepResult{Context: context}, err
	}

	output, err := runner.runCommand(name, args, context)

	return StepResult{Output: output, Context: context}, err
}

func installCommand(manager string, names []string, update bool) (string, error) {
	list := strings.Join(names, " ")

	switch manager {
	case "apt-get":
		if update {
			return fmt.Sprintf("apt-get update && apt-get install -y %s", list), nil
		}
		return fmt.Sprintf("apt-get install -y %s", list), nil
	case "apk":
		return fmt.Sprintf("apk add --no-cache %s", list), nil
	case "dnf", "yum":
		return fmt.Sprintf("%s install -y %s", manager, list), nil
	}

	return "", fmt.Errorf("unsupported package manager: %s", manager)
}
