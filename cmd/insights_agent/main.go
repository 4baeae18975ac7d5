// Package main provides the insights_agent CLI: candidate profiles, search and the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "insights_agent",
	Short: "Candidate Performance Insights",
	Long:  "Candidate Insights aggregates a candidate's assessment history into comparable metrics, a global profile and faceted search, from the command line or a read-only REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
