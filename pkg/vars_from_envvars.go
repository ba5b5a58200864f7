package provis

import (
	"os"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// VarsFromEnvVars collects recipe vars from PROVIS_VAR_* environment
// variables, so CI systems can inject values without touching the command
// line. PROVIS_VAR_PG_VERSION=13 becomes {"pg_version": "13"}.
func VarsFromEnvVars() map[string]interface{} {
	return varsFromEnvVars(os.Environ())
}

func varsFromEnvVars(environ []string) map[string]interface{} {
	const prefix = "PROVIS_VAR_"

	vars := map[string]interface{}{}

	for _, pair := range environ {
		if !strings.HasPrefix(pair, prefix) {
			continue
		}
		splits := strings.SplitN(strings.TrimPrefix(pair, prefix), "=", 2)
		if len(splits) != 2 || splits[0] == "" {
			continue
		}
		vars[strings.ToLower(splits[0])] = splits[1]
	}

	return vars
}

// ArgsFromEnvVars turns PROVIS_RUN into a command line, so a wrapper can
// invoke provis with nothing but environment variables set.
func ArgsFromEnvVars() ([]string, error) {
	return argsFromEnvVars(os.Getenv)
}

func argsFromEnvVars(getenv func(string) string) ([]string, error) {
	const (
		Run           = "PROVIS_RUN"
		RunTrimPrefix = "PROVIS_RUN_TRIM_PREFIX"
	)

	run := getenv(Run)
	prefix := getenv(RunTrimPrefix)

	if run != "" {
		run = strings.TrimSpace(run)
		if prefix != "" {
			run = strings.TrimPrefix(run, prefix)
		}

		return shellwords.Parse(run)
	}
	return nil, nil
}
