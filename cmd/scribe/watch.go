package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/scribe/app"
)

func newWatchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "watch",
		Short: "Transcribe recordings dropped into a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
				cfg.Watch.Dir = dir
			}
			if scan, _ := cmd.Flags().GetBool("scan-existing"); scan {
				cfg.Watch.ScanExisting = true
			}

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			a.OnConfigure(func(_ context.Context, a *app.App) error {
				_, err := a.AddWatcher()
				return err
			})
			return a.Run(cmd.Context())
		},
	}
	c.Flags().String("dir", "", "inbox directory (overrides watch.dir)")
	c.Flags().Bool("scan-existing", false, "process files already in the directory at startup")
	return c
}
