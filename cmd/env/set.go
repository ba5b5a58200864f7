package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/provis-run/provis/pkg/cli/env"
)

var SetCmd = &cobra.Command{
	Use:     "set <environment name>",
	Aliases: []string{"switch", "use"},
	Short:   "Switch to another environment",
	Long: `Switch to another environment.

Environments may be one of those: dev(elopment), stg/staging, prod(uction) or etc.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := env.Set(args[0]); err != nil {
			panic(err)
		}

		env, err := env.Get()
		if err != nil {
			panic(err)
		}
		fmt.Printf("Environment is now: %s", env)
	},
}
