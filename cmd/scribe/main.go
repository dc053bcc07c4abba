// Command scribe transcribes recordings through the adaptive pipeline.
//
//	scribe serve --config scribe.yml
//	scribe transcribe call.mp3 --language en
//	scribe watch --dir ./inbox
//	scribe migrate up
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/scribe/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "scribe",
		Short:         "Adaptive transcription pipeline",
		Version:       version.GetShortVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().String("env", "", "path to a .env file")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTranscribeCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
