package main

import (
	"github.com/spf13/cobra"

	"picpp/internal/app"
	"picpp/internal/config"
)

func newConvertCmd() *cobra.Command {
	var flags config.Flags

	cmd := &cobra.Command{
		Use:   "convert [flags] <file|dir>...",
		Short: "Convert images to JPG, WEBP or AVIF",
		Long: "Convert the given files, and the images inside the given folders, to one target format.\n" +
			"Use --inplace to write next to the originals or --output <dir> to keep them untouched.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}

			s, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			files, err := app.Collect(s.filesys, args, cfg.Recursive)
			if err != nil {
				return err
			}
			job, err := s.newJob(files)
			if err != nil {
				return err
			}
			s.logger.Infof("Converting %d files to %s %s", len(job.Files), job.Format, describeMode(cfg))

			_, err = s.run(cmd.Context(), job)
			return err
		},
	}

	config.Bind(cmd.Flags(), &flags)
	return cmd
}
