package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"picpp/internal/app"
	"picpp/internal/config"
	"picpp/internal/domain"
	appErrors "picpp/internal/errors"
	"picpp/internal/infra/codec"
	"picpp/internal/infra/exif"
	"picpp/internal/infra/fs"
	"picpp/internal/logging"
	"picpp/internal/presentation"
	"picpp/internal/tui"
)

const eventBuffer = 64

// session owns the converter and logging for one command invocation.
type session struct {
	cfg       config.Config
	filesys   fs.OSFS
	converter *app.Converter
	logger    logging.Logger
	logFile   io.Closer
}

func resolveConfig(cmd *cobra.Command, flags config.Flags) (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, appErrors.Wrap(appErrors.InvalidConfig, "dotenv", ".env", err)
	}
	cfg, err := config.Resolve(cmd.Flags(), flags)
	if err != nil {
		return config.Config{}, appErrors.Ensure(appErrors.InvalidConfig, "config", "", err)
	}
	if !cfg.Plain && !isatty.IsTerminal(os.Stdout.Fd()) {
		cfg.Plain = true
	}
	return cfg, nil
}

func newSession(cfg config.Config) (*session, error) {
	s := &session{cfg: cfg, filesys: fs.OSFS{}}

	var logWriter io.Writer
	switch {
	case cfg.LogFile != "":
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, appErrors.Wrap(appErrors.IOFailure, "open", cfg.LogFile, err)
		}
		logWriter = file
		s.logFile = file
	case cfg.Plain:
		logWriter = os.Stderr
	}
	s.logger = logging.New(logWriter, cfg.Verbose)

	s.converter = &app.Converter{
		FS: s.filesys,
		Codec: codec.Codec{
			AutoOrient: cfg.AutoOrient,
			Exif:       exif.Reader{},
		},
		Logger: s.logger,
	}
	return s, nil
}

func (s *session) Close() {
	if s.logFile != nil {
		_ = s.logFile.Close()
	}
}

func (s *session) newJob(files []string) (domain.Job, error) {
	return domain.NewJob(files, s.cfg.Format, s.cfg.Mode, s.cfg.OutputDir, s.cfg.Quality)
}

// runPlain streams events to stdout while the job runs.
func (s *session) runPlain(ctx context.Context, job domain.Job) (domain.Summary, error) {
	events := make(chan domain.Event, eventBuffer)
	printer := presentation.Printer{Writer: os.Stdout, Verbose: s.cfg.Verbose}

	done := make(chan struct{})
	go func() {
		printer.Consume(events)
		close(done)
	}()

	summary, err := s.converter.Run(ctx, job, events)
	close(events)
	<-done
	return summary, err
}

type runResult struct {
	summary domain.Summary
	err     error
}

// runTUI drives the job from a goroutine and renders it with bubbletea.
// Keyboard interrupts reach the model, which asks the converter to stop.
func (s *session) runTUI(ctx context.Context, job domain.Job) (domain.Summary, error) {
	events := make(chan domain.Event, eventBuffer)
	model := tui.NewModel(tui.Config{
		Job:    job,
		Events: events,
		Cancel: s.converter.Stop,
	})
	program := tea.NewProgram(model, tea.WithContext(ctx))

	results := make(chan runResult, 1)
	go func() {
		summary, err := s.converter.Run(ctx, job, events)
		close(events)
		if err != nil {
			program.Send(tui.ErrorMsg{Err: errors.New(appErrors.UserMessage(err))})
		}
		results <- runResult{summary: summary, err: err}
	}()

	final, uiErr := program.Run()

	// The view may exit before the job does; keep the worker unblocked.
	s.converter.Stop()
	go func() {
		for range events {
		}
	}()

	res := <-results
	if res.err == nil && uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled) {
		return res.summary, appErrors.Wrap(appErrors.Internal, "tui", "", uiErr)
	}
	// A view closed early is blank, so print the outcome once the job ends.
	if m, ok := final.(tui.Model); ok && m.Quitting && res.err == nil {
		printer := presentation.Printer{Writer: os.Stdout}
		printer.PrintSummary(res.summary)
	}
	return res.summary, res.err
}

func (s *session) run(ctx context.Context, job domain.Job) (domain.Summary, error) {
	s.logger.Verbosef("Job %s: %d files to %s (%s, quality %d)", job.ID, len(job.Files), job.Format, job.Mode, job.Quality)
	if s.cfg.Plain {
		return s.runPlain(ctx, job)
	}
	return s.runTUI(ctx, job)
}

func describeMode(cfg config.Config) string {
	if cfg.Mode == domain.ModeOverwrite {
		return "in place"
	}
	return fmt.Sprintf("into %s", cfg.OutputDir)
}
