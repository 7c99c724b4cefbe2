package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"picpp/internal/config"
	"picpp/internal/domain"
	appErrors "picpp/internal/errors"
	"picpp/internal/infra/watch"
)

func newWatchCmd() *cobra.Command {
	var flags config.Flags

	cmd := &cobra.Command{
		Use:   "watch [flags] <dir>",
		Short: "Convert images as they appear in a folder",
		Long: "Watch one folder and convert every new image once the folder has been quiet for a moment.\n" +
			"Jobs run one after another; interrupt to stop after the current job.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			// Jobs are started unattended, so the interactive view is never used.
			cfg.Plain = true

			dir, err := filepath.Abs(args[0])
			if err != nil {
				return appErrors.Wrap(appErrors.InvalidInput, "abs", args[0], err)
			}
			info, err := os.Stat(dir)
			if err != nil {
				return appErrors.Wrap(appErrors.NotFound, "stat", dir, err)
			}
			if !info.IsDir() {
				return appErrors.New(appErrors.InvalidInput, "watch", dir, "not a directory")
			}

			s, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			return watchFolder(cmd.Context(), s, dir)
		},
	}

	config.Bind(cmd.Flags(), &flags)
	return cmd
}

func watchFolder(ctx context.Context, s *session, dir string) error {
	accept := func(path string) bool {
		return domain.IsImagePath(path) && !s.cfg.Format.Denotes(filepath.Ext(path))
	}
	w, err := watch.New(dir, accept, watch.DefaultQuiet, s.logger)
	if err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "watch", dir, err)
	}

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- w.Run(ctx)
	}()

	// An interrupt ends the watch loop; the job in progress runs to completion.
	jobCtx := context.WithoutCancel(ctx)
	for batch := range w.Batches() {
		job, err := s.newJob(batch)
		if err != nil {
			s.logger.Warnf("Skipping batch: %s", appErrors.UserMessage(err))
			continue
		}
		if _, err := s.run(jobCtx, job); err != nil {
			s.logger.Warnf("Job %s failed: %s", job.ID, appErrors.UserMessage(err))
		}
	}
	return <-watchErr
}
