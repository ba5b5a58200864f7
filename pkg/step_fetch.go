package provis

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	getter "github.com/hashicorp/go-getter"
	"github.com/juju/errors"
	"github.com/mitchellh/mapstructure"
)

type FetchStepLoader struct{}

type fetchConfig struct {
	Src string `mapstructure:"src"`
	Dst string `mapstructure:"dst"`
}

func (l FetchStepLoader) LoadStep(def StepDef, context LoadingContext) (Step, error) {
	raw := def.Get("fetch")

	if raw == nil {
		return nil, fmt.Errorf("no fetch step found. config=%v", def)
	}

	var conf fetchConfig

	switch fetch := raw.(type) {
	case string:
		conf.Src = fetch
	default:
		m := def.GetStringMapOrEmpty("fetch")
		if err := mapstructure.Decode(m, &conf); err != nil {
			return nil, errors.Annotatef(err, "failed decoding fetch step")
		}
	}

	if conf.Src == "" {
		return nil, fmt.Errorf("fetch step needs a non-empty src. config=%v", def)
	}

	if conf.Dst == "" {
		conf.Dst = filepath.Base(conf.Src)
	}

	return FetchStep{
		Name:            def.GetName(),
		Src:             conf.Src,
		Dst:             conf.Dst,
		silent:          def.Silent(),
		continueOnError: def.ContinueOnError(),
	}, nil
}

func NewFetchStepLoader() FetchStepLoader {
	return FetchStepLoader{}
}

// FetchStep downloads or checks out a source tree with go-getter, covering
// the recipe's "source checkout" steps without shelling out to a specific
// VCS client.
type FetchStep struct {
	Name            string
	Src             string
	Dst             string
	silent          bool
	continueOnError bool
}

func (s FetchStep) GetName() string {
	return s.Name
}

func (s FetchStep) Silenced() bool {
	return s.silent
}

func (s FetchStep) ContinuesOnError() bool {
	return s.continueOnError
}

func (s FetchStep) Run(context ExecutionContext) (StepResult, error) {
	src, err := context.Render(s.Src, s.GetName())
	if err != nil {
		return StepResult{Context: context}, errors.Annotatef(err, "fetch step failed templating src")
	}

	dst, err := context.Render(s.Dst, s.GetName())
	if err != nil {
		return StepResult{Context: context}, errors.Annotatef(err, "fetch step failed templating dst")
	}

	if !filepath.IsAbs(dst) && context.Dir != "" {
		dst = filepath.Join(context.Dir, dst)
	}

	pwd := context.Dir
	if pwd == "" {
		if wd, err := os.Getwd(); err == nil {
			pwd = wd
		}
	}

	log.Debugf("fetching %s to %s", src, dst)

	client := &getter.Client{
		Ctx:  context.Context(),
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeAny,
	}

	if err := client.Get(); err != nil {
		return StepResult{Context: context}, errors.Annotatef(err, "fetch step failed getting %s", src)
	}

	return StepResult{Output: dst, Context: context}, nil
}
