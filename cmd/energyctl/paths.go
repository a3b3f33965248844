package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the resolved data, model and rules paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolvePaths()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data:  %s\n", p.DataPath)
		fmt.Fprintf(out, "model: %s\n", p.ModelPath)
		fmt.Fprintf(out, "rules: %s\n", p.RulesPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
