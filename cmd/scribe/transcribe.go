package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/scribe/pipeline"
	"github.com/kbukum/scribe/watcher"
)

func newTranscribeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "transcribe <file>...",
		Short: "Transcribe one or more recordings and print the outcomes",
		Long: "Each file is stored under a recording id derived from its name unless " +
			"--id is given. Files already transcribed are reported without calling the provider.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			object, _ := cmd.Flags().GetBool("object")
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			if id != "" && len(args) > 1 {
				return fmt.Errorf("--id needs exactly one file")
			}
			opts := pipeline.RunOptions{}
			opts.Language, _ = cmd.Flags().GetString("language")
			opts.MaxAttempts, _ = cmd.Flags().GetInt("max-attempts")

			jobs := make([]pipeline.Job, len(args))
			for i, arg := range args {
				job := pipeline.Job{RecordingID: id, Options: opts}
				if job.RecordingID == "" {
					job.RecordingID = watcher.RecordingID(arg)
				}
				if object {
					job.ObjectKey = arg
				} else {
					job.Path = arg
				}
				jobs[i] = job
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return a.RunTask(cmd.Context(), func(ctx context.Context) error {
				var errs []error
				for _, res := range a.Service().RunBatch(ctx, jobs, concurrency) {
					if res.Err != nil {
						errs = append(errs, fmt.Errorf("%s: %w", res.Job.RecordingID, res.Err))
						continue
					}
					if err := printJSON(cmd.OutOrStdout(), res.Outcome); err != nil {
						return err
					}
				}
				return errors.Join(errs...)
			})
		},
	}
	c.Flags().String("id", "", "recording id (single file only)")
	c.Flags().String("language", "", "ISO-639-1 language hint")
	c.Flags().Int("max-attempts", 0, "attempt budget (0 uses transcription.max_attempts)")
	c.Flags().Int("concurrency", 0, "parallel recordings (0 uses pipeline.concurrency)")
	c.Flags().Bool("object", false, "arguments are object storage keys")
	return c
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Report how a recording would be processed without transcribing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return a.RunTask(cmd.Context(), func(ctx context.Context) error {
				preview, err := a.Service().Preview(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), preview)
			})
		},
	}
}
