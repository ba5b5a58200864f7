package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/provis-run/provis/version"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of provis",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := version.Get()
		if err != nil {
			return err
		}
		fmt.Println(v.Version)
		return nil
	},
}
