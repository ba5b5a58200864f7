package provis

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/juju/errors"
	bunyan "github.com/mumoshu/logrus-bunyan-formatter"
	"github.com/spf13/viper"

	"github.com/provis-run/provis/pkg/get"
	"github.com/provis-run/provis/pkg/util/fileutil"
)

// Application ties the recipe loader and the engine to the process-level
// concerns: logging configuration and recipe resolution.
type Application struct {
	Name        string
	ConfigFile  string
	Verbose     bool
	Output      string
	Colorize    bool
	LogToStderr bool
	Env         string
	Viper       *viper.Viper
	Engine      *Engine
}

func (p *Application) UpdateLoggingConfiguration() error {
	v := p.Viper

	if p.Verbose {
		log.SetLevel(log.DebugLevel)
	} else if levelStr := v.GetString("log_level"); levelStr != "" {
		level, err := log.ParseLevel(levelStr)
		if err != nil {
			return errors.Annotatef(err, "unexpected log_level: %s", levelStr)
		}
		log.SetLevel(level)
	}

	if p.LogToStderr {
		log.SetOutput(os.Stderr)
	}

	commandName := path.Base(os.Args[0])
	switch p.Output {
	case "bunyan":
		log.SetFormatter(&bunyan.Formatter{Name: commandName})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text":
		log.SetFormatter(newTextFormatter(p.Colorize, v))
	case "message":
		log.SetFormatter(&MessageOnlyFormatter{})
	default:
		return fmt.Errorf("unexpected output format specified: %s", p.Output)
	}

	return nil
}

// LoadRecipe resolves src as a local file first and falls back to a
// go-getter source like github.com/org/repo//recipes/pg.yaml.
func (p *Application) LoadRecipe(src string) (*RecipeDef, error) {
	var recipe *RecipeDef
	var err error

	if fileutil.Exists(src) {
		recipe, err = ReadRecipeFromFile(src)
	} else if strings.Contains(src, "//") {
		var data []byte
		data, err = get.GetBytes(src)
		if err != nil {
			return nil, errors.Annotatef(err, "failed fetching recipe %s", src)
		}
		recipe, err = readRecipe(src, data)
	} else {
		return nil, fmt.Errorf("%s does not exist", src)
	}

	if err != nil {
		return nil, errors.Trace(err)
	}

	if recipe.Name == "" {
		base := filepath.Base(src)
		recipe.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return recipe, nil
}

func (p *Application) RunRecipe(src string, vars map[string]interface{}) (string, error) {
	recipe, err := p.LoadRecipe(src)
	if err != nil {
		return "", err
	}

	ctx := log.WithFields(log.Fields{"recipe": recipe.Name})
	ctx.Debugf("app started provisioning run from %s", src)

	output, err := p.Engine.RunRecipe(recipe, vars)

	if err != nil {
		return output, errors.Annotatef(err, "app failed provisioning %s", recipe.Name)
	}

	ctx.Debugf("app finished provisioning run")

	return output, nil
}
