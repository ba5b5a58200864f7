package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	env "github.com/provis-run/provis/pkg/cli/env"

	subcommands "github.com/provis-run/provis/cmd/env"
)

var EnvCmd = &cobra.Command{
	Use:   "env",
	Short: "Print currently selected environment",
	Long: `Print currently selected environment. The environment can be set via the command "provis env set".

Example:
provis env set dev
provis env #=> Prints "dev"
`,
	Run: func(cmd *cobra.Command, args []string) {
		env, err := env.Get()
		if err != nil {
			panic(err)
		}
		fmt.Println(env)
	},
}

func init() {
	EnvCmd.AddCommand(subcommands.SetCmd)
}
