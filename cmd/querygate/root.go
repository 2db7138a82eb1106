package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "querygate",
	Short: "Ad-hoc query permission pre-flight",
	Long: `querygate - ad-hoc query permission pre-flight

Computes the permission paths a principal must hold to run a query,
without executing it. Queries are described as JSON; catalog and
saved-query metadata come from a SQLite database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
