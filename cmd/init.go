package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/spf13/cobra"
)

const starterRecipe = `name: my-environment
description: Provision a build environment

vars:
  greeting: hello

steps:
- name: say-hello
  run: echo {{ get "greeting" }} from provis
`

var InitCmd = &cobra.Command{
	Use:   "init [FILE]",
	Short: "Create a provis recipe",
	Long: `Create a provis recipe with a starter step list.

Example:
provis init
provis run Provisfile
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := "Provisfile"
		if len(args) > 0 {
			file = args[0]
		}

		if _, err := os.Stat(file); err == nil {
			return fmt.Errorf("%s already exists", file)
		}

		if err := ioutil.WriteFile(file, []byte(starterRecipe), 0644); err != nil {
			return err
		}

		fmt.Printf("wrote %s\n", file)

		return nil
	},
}
