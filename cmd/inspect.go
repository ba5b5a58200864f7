package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/provis-run/provis/pkg/load"
)

var InspectCmd = &cobra.Command{
	Use:   "inspect RECIPE",
	Short: "Print the parsed form of a recipe",
	Long:  `Print the parsed form of a recipe, with loaded steps and defaulted names.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipe, err := load.File(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%#v\n", recipe)
		return nil
	},
}
