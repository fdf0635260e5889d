package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "artifix",
	Short: "Validate and auto-repair AI-generated React components",
	Long: `Artifix type-checks AI-generated React/TypeScript components against an
in-memory virtual filesystem and repairs broken ones through an AI repair
loop. No files are written to disk and no compiler subprocess is spawned.

Available commands:
  validate - Validate artifact files, repairing failures when a model is configured
  serve    - Run the validation HTTP server with WebSocket progress streaming
  version  - Print version information`,
}

var (
	cfgPath string
)

// Execute runs the root command. Called once from main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a JSON config file")
}
