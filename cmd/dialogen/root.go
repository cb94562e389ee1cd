package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dialogen",
		Short: "Generate and post-process synthetic dialogue datasets",
		Long: `dialogen generates synthetic dialogue datasets by calling the Gemini API
with a rotating pool of credentials, then reshapes the output into the
alternating user/assistant turn format used by training pipelines.

Configuration is read from dialogen.yaml, a .env file, and DIALOGEN_*
environment variables; API keys come from GEMINI_API_KEY_1..N.`,
		Version:      version,
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newConvertCommand())
	cmd.AddCommand(newMergeCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
