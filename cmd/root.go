package cmd

import (
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	provis "github.com/provis-run/provis/pkg"
)

var (
	verbose     bool
	output      string
	colorize    bool
	configFile  string
	logToStderr bool
)

func init() {
	logrus.SetOutput(os.Stdout)

	verboseEnv := false
	logtostderrEnv := false
	for _, e := range os.Environ() {
		if strings.Contains(e, "VERBOSE=") {
			verboseEnv = true
			break
		}
		if strings.Contains(e, "LOGTOSTDERR=") {
			logtostderrEnv = true
			break
		}
	}

	if verboseEnv {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if logtostderrEnv {
		logrus.SetOutput(os.Stderr)
	}

	provis.Register(provis.NewRunStepLoader())
	provis.Register(provis.NewUserStepLoader())
	provis.Register(provis.NewWorkdirStepLoader())
	provis.Register(provis.NewEnvStepLoader())
	provis.Register(provis.NewFetchStepLoader())
	provis.Register(provis.NewPackagesStepLoader())

	addCommonFlags(RootCmd.PersistentFlags())

	RootCmd.AddCommand(RunCmd)
	RootCmd.AddCommand(ValidateCmd)
	RootCmd.AddCommand(InspectCmd)
	RootCmd.AddCommand(InitCmd)
	RootCmd.AddCommand(EnvCmd)
	RootCmd.AddCommand(VersionCmd)
}

func addCommonFlags(flagset *pflag.FlagSet) {
	flagset.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flagset.StringVarP(&output, "output", "o", "text", "Output format. One of: json|text|bunyan|message")
	flagset.BoolVarP(&colorize, "color", "C", true, "Colorize output")
	flagset.StringVarP(&configFile, "config-file", "c", "", "Path to config file")
	flagset.BoolVar(&logToStderr, "logtostderr", true, "write log messages to stderr")
}

var RootCmd = &cobra.Command{
	Use:   "provis",
	Short: "Run declarative provisioning recipes",
	Long: `provis reads an ordered list of provisioning steps from a YAML recipe
and runs them one by one under an explicit execution context (active user,
working directory, environment), stopping at the first failing step.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func newApp() (*provis.Application, error) {
	return provis.Init(provis.Opts{
		Verbose:     verbose,
		Output:      output,
		Colorize:    colorize,
		ConfigFile:  configFile,
		LogToStderr: logToStderr,
	})
}

// MustRun executes the root command and exits the process with the failing
// step's exit code when provisioning fails.
func MustRun() {
	args := os.Args[1:]

	if len(args) == 0 {
		if envArgs, err := provis.ArgsFromEnvVars(); err == nil && len(envArgs) > 0 {
			args = envArgs
		}
	}

	RootCmd.SetArgs(args)

	if err := RootCmd.Execute(); err != nil {
		HandleError(err)
	}
}

func HandleError(err error) {
	switch cause := errors.Cause(err).(type) {
	case *provis.StepFailed:
		logrus.Errorf("provisioning failed at step[%d] %q: %v", cause.Index, cause.Name, cause.Err)
		code := cause.ExitCode
		if code == 0 {
			code = 1
		}
		os.Exit(code)
	case *provis.ParseError:
		logrus.Errorf("%v", cause)
		os.Exit(1)
	default:
		logrus.Errorf("%v", err)
		os.Exit(1)
	}
}
