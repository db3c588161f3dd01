// Package main is the entry point for the puente CLI: the guide workspace
// server, the preference-store migrations and a headless one-shot generator.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"puente-backend/internal/shared/config"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "puente",
	Short: "Puente Cultural guide workspace",
	Long: `puente serves the Puente Cultural guide workspace: a form where educators
describe a topic, a subject and their students, and receive a culturally
inclusive lesson guide in markdown from the generation service.

Configuration comes from environment variables, optionally seeded from .env
or cmd/.env.`,
	SilenceUsage: true,
}

func loadConfig() config.Config {
	return config.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
