package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	provis "github.com/provis-run/provis/pkg"
)

var runVars []string

func init() {
	RunCmd.Flags().StringArrayVar(&runVars, "var", []string{}, "set a recipe var, e.g. --var pg_version=13")
}

var RunCmd = &cobra.Command{
	Use:   "run RECIPE",
	Short: "Run all steps of a provisioning recipe in declared order",
	Long: `Run all steps of a provisioning recipe in declared order.

RECIPE is a local YAML file or a go-getter source like
github.com/provis-run/recipes//pg/pgx.yaml.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		vars := provis.VarsFromEnvVars()
		for _, kv := range runVars {
			splits := strings.SplitN(kv, "=", 2)
			if len(splits) != 2 {
				return fmt.Errorf("invalid --var %q: want key=value", kv)
			}
			vars[splits[0]] = splits[1]
		}

		output, err := app.RunRecipe(args[0], vars)
		if err != nil {
			return err
		}

		if output != "" {
			fmt.Println(output)
		}

		return nil
	},
}
