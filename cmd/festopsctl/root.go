package main

import (
	"log"

	"github.com/spf13/cobra"
)

const (
	FlagServerURL = "server-url"
	FlagEmail     = "email"
	FlagPassword  = "password"
)

// rootCmd is a base command.
var rootCmd = &cobra.Command{
	Use:   "festopsctl",
	Short: "festops admin CLI: seeding, benchmarks and day-to-day operations",
}

func init() {
	rootCmd.PersistentFlags().String(FlagServerURL, "http://localhost:8080", "API base URL")
	rootCmd.PersistentFlags().String(FlagEmail, "admin@festops.dev", "operator email")
	rootCmd.PersistentFlags().String(FlagPassword, "", "operator password (FESTOPS_PASSWORD env as fallback)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("rootCmd.Execute: %v", err)
	}
}
