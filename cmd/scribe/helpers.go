package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/scribe/app"
)

// loadConfig reads the config named by the persistent --config and --env flags.
func loadConfig(cmd *cobra.Command) (*app.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env")
	return app.Load(configFile, envFile)
}

func newApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
