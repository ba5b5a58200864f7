package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ValidateCmd = &cobra.Command{
	Use:   "validate RECIPE",
	Short: "Check a recipe against the step schema without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		recipe, err := app.LoadRecipe(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s: ok (%d step(s))\n", args[0], len(recipe.Steps))

		return nil
	},
}
