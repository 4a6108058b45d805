// Package main contains the CLI commands for the dashboard, built using
// the Cobra library.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repo-health",
	Short: "A web dashboard that scores the health of GitHub repositories.",
	Long: `repo-health serves a web dashboard that fetches a GitHub repository's
public activity (issues, pull requests, commits, contributors, community
profile) and derives responsiveness, activity and community-health metrics.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
