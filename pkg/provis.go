package provis

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/juju/errors"
	"github.com/spf13/viper"

	"github.com/provis-run/provis/pkg/cli/env"
	"github.com/provis-run/provis/pkg/util/fileutil"
)

type Opts struct {
	Name        string
	ConfigFile  string
	Verbose     bool
	Output      string
	Colorize    bool
	LogToStderr bool
}

// Init wires viper, the env file and the logging configuration into an
// Application ready to load and run recipes.
func Init(opts Opts) (*Application, error) {
	name := opts.Name
	if name == "" {
		name = "provis"
	}

	output := opts.Output
	if output == "" {
		output = "text"
	}

	envFromFile, err := env.New(name).GetOrDefault("dev")
	if err != nil {
		return nil, errors.Trace(err)
	}

	v := viper.GetViper()

	// Set default log level.
	v.SetDefault("log_level", "info")

	// Set default colors for the logs.
	v.SetDefault("log_color_panic", "red")
	v.SetDefault("log_color_fatal", "red")
	v.SetDefault("log_color_error", "red")
	v.SetDefault("log_color_warn", "red")
	v.SetDefault("log_color_info", "cyan")
	v.SetDefault("log_color_debug", "dark_gray")
	v.SetDefault("log_color_trace", "dark_gray")

	p := &Application{
		Name:        name,
		ConfigFile:  opts.ConfigFile,
		Verbose:     opts.Verbose,
		Output:      output,
		Colorize:    opts.Colorize,
		LogToStderr: opts.LogToStderr,
		Env:         envFromFile,
		Viper:       v,
		Engine:      NewEngine(),
	}

	if p.ConfigFile != "" {
		v.SetConfigFile(p.ConfigFile)

		if err := v.MergeInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		v.SetConfigName(name)
		commonConfigFile := fmt.Sprintf("%s.yaml", name)
		commonConfigMsg := fmt.Sprintf("loading config file %s...", commonConfigFile)
		if fileutil.Exists(commonConfigFile) {
			if err := v.MergeInConfig(); err != nil {
				log.Errorf("%serror", commonConfigMsg)
				return nil, err
			}
			log.Debugf("%sdone", commonConfigMsg)
		} else {
			log.Debugf("%smissing", commonConfigMsg)
		}

		envConfigName := fmt.Sprintf("config/environments/%s", p.Env)
		envConfigFile := fmt.Sprintf("%s.yaml", envConfigName)
		envConfigMsg := fmt.Sprintf("loading config file %s...", envConfigFile)
		v.SetConfigName(envConfigName)
		if fileutil.Exists(envConfigFile) {
			if err := v.MergeInConfig(); err != nil {
				log.Errorf("%serror", envConfigMsg)
				return nil, err
			}
			log.Debugf("%sdone", envConfigMsg)
		} else {
			log.Debugf("%smissing", envConfigMsg)
		}
	}

	env.SetAppName(name)

	v.SetEnvPrefix(strings.ToUpper(name))
	v.AutomaticEnv()

	replacer := strings.NewReplacer(".", "_", "-", "_")
	v.SetEnvKeyReplacer(replacer)

	if err := p.UpdateLoggingConfiguration(); err != nil {
		return nil, errors.Trace(err)
	}

	return p, nil
}
