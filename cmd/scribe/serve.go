package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/scribe/app"
)

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			localPaths, _ := cmd.Flags().GetBool("local-paths")
			watch, _ := cmd.Flags().GetBool("watch")

			a.OnConfigure(func(_ context.Context, a *app.App) error {
				if _, err := a.AddServer(localPaths); err != nil {
					return err
				}
				if watch {
					_, err := a.AddWatcher()
					return err
				}
				return nil
			})
			return a.Run(cmd.Context())
		},
	}
	c.Flags().Bool("local-paths", false, "accept audio_path requests naming files on this host")
	c.Flags().Bool("watch", false, "also watch the configured inbox directory")
	return c
}
