package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sync/atomic"

	"picpp/internal/domain"
	appErrors "picpp/internal/errors"
	"picpp/internal/logging"
)

const backupPrefix = "error_"

// Converter runs conversion jobs one at a time.
type Converter struct {
	FS     FileSystem
	Codec  Codec
	Logger logging.Logger

	running atomic.Bool
	stop    atomic.Bool
}

// Stop asks the running job to finish after the current file.
func (c *Converter) Stop() {
	c.stop.Store(true)
}

func (c *Converter) Running() bool {
	return c.running.Load()
}

// Run converts every file of job in order and sends progress on events.
// Per-file failures end up in the summary; the returned error is reserved
// for problems that prevent the job from running at all. Run never closes
// events, and a nil channel disables them.
func (c *Converter) Run(ctx context.Context, job domain.Job, events chan<- domain.Event) (domain.Summary, error) {
	if c.FS == nil || c.Codec == nil {
		return domain.Summary{}, errors.New("converter requires FS and Codec")
	}
	if err := job.Validate(); err != nil {
		return domain.Summary{}, err
	}
	if !c.running.CompareAndSwap(false, true) {
		return domain.Summary{}, appErrors.New(appErrors.Busy, "run", "", "another job is running")
	}
	defer c.running.Store(false)
	c.stop.Store(false)

	emit := func(ev domain.Event) {
		if events != nil {
			events <- ev
		}
	}

	log := c.Logger.With(shortID(job.ID))
	stopTimer := log.Measure(fmt.Sprintf("Converting %d files", len(job.Files)))
	defer stopTimer()

	summary := domain.Summary{
		JobID:     job.ID,
		Total:     len(job.Files),
		OutputDir: job.OutputDir,
		ErrorDir:  job.ErrorDir(),
		OriginDir: job.OriginDir(),
	}

	if job.Mode == domain.ModeSaveTo {
		if err := c.FS.MkdirAll(job.OutputDir, 0o755); err != nil {
			return summary, appErrors.Wrap(appErrors.IOFailure, "mkdir", job.OutputDir, err)
		}
	}
	if err := c.FS.MkdirAll(summary.ErrorDir, 0o755); err != nil {
		return summary, appErrors.Wrap(appErrors.IOFailure, "mkdir", summary.ErrorDir, err)
	}

	emit(domain.Info(fmt.Sprintf("Starting %d image files", summary.Total)))
	emit(domain.Info(fmt.Sprintf("Output format: %s", job.Format)))
	emit(domain.Info(fmt.Sprintf("Save mode: %s", job.Mode)))
	if job.Mode == domain.ModeSaveTo {
		emit(domain.Info(fmt.Sprintf("Output directory: %s", job.OutputDir)))
	}
	emit(domain.Info(fmt.Sprintf("Quality: %d%%", job.Quality)))
	emit(domain.Info(fmt.Sprintf("Failed files are copied to: %s", summary.ErrorDir)))

	for i, src := range job.Files {
		if c.stop.Load() || ctx.Err() != nil {
			summary.Cancelled = true
			emit(domain.Info(fmt.Sprintf("Cancelled after %d of %d files", summary.Processed, summary.Total)))
			break
		}

		idx := i + 1
		outcome := c.convertOne(job, idx, src, summary.ErrorDir, emit, log)
		summary.Record(outcome)

		emit(domain.Event{
			Kind:     domain.EventProgress,
			Index:    idx,
			Path:     src,
			Progress: idx * 100 / summary.Total,
		})
	}

	log.Verbosef("Finished: %d succeeded, %d failed, %d skipped", summary.Succeeded, summary.Failed, summary.Skipped)
	emit(domain.Info("Conversion finished"))
	final := summary
	emit(domain.Event{Kind: domain.EventSummary, Summary: &final})

	return summary, nil
}

func (c *Converter) convertOne(job domain.Job, idx int, src, errDir string, emit func(domain.Event), log logging.Logger) domain.Outcome {
	name := filepath.Base(src)
	total := len(job.Files)
	emit(domain.Event{
		Kind:    domain.EventProcessing,
		Index:   idx,
		Path:    src,
		Message: fmt.Sprintf("Processing %d/%d: %s", idx, total, name),
	})

	out := job.OutputPath(src)
	if reason, skip, err := c.shouldSkip(job, src, out); err != nil {
		return c.fail(idx, src, errDir, err, emit)
	} else if skip {
		emit(domain.Event{
			Kind:    domain.EventInfo,
			Index:   idx,
			Path:    src,
			Message: fmt.Sprintf("Skipped: %s (%s)", name, reason),
		})
		return domain.Outcome{Path: src, Status: domain.OutcomeSkipped, OutputPath: out, Reason: reason}
	}

	if err := c.convert(job, src, out, log); err != nil {
		return c.fail(idx, src, errDir, err, emit)
	}

	msg := fmt.Sprintf("Converted: %s → %s", name, filepath.Base(out))
	if out == src {
		msg = fmt.Sprintf("Converted: %s (updated in place)", name)
	}
	if job.Mode == domain.ModeOverwrite && out != src {
		if err := c.FS.Remove(src); err != nil {
			return c.fail(idx, src, errDir, appErrors.Wrap(appErrors.IOFailure, "remove", src, err), emit)
		}
	}

	emit(domain.Event{Kind: domain.EventSuccess, Index: idx, Path: src, Message: msg})
	return domain.Outcome{Path: src, Status: domain.OutcomeSuccess, OutputPath: out}
}

func (c *Converter) shouldSkip(job domain.Job, src, out string) (string, bool, error) {
	if out == src {
		if job.Mode == domain.ModeSaveTo {
			return "output would overwrite input", true, nil
		}
		return "", false, nil
	}
	exists, err := c.FS.Exists(out)
	if err != nil {
		return "", false, appErrors.Wrap(appErrors.IOFailure, "stat", out, err)
	}
	if exists {
		return "target already exists", true, nil
	}
	return "", false, nil
}

func (c *Converter) convert(job domain.Job, src, out string, log logging.Logger) error {
	stop := log.Measure("Decoding " + filepath.Base(src))
	img, kind, err := c.Codec.Decode(src)
	stop()
	if err != nil {
		return appErrors.Ensure(appErrors.DecodeFailure, "decode", src, err)
	}
	bounds := img.Bounds()
	log.Verbosef("Decoded %s as %s (%dx%d)", filepath.Base(src), kind, bounds.Dx(), bounds.Dy())

	perm := fs.FileMode(0o644)
	if info, err := c.FS.Stat(src); err == nil {
		perm = info.Mode().Perm()
	}

	stop = log.Measure("Encoding " + filepath.Base(out))
	defer stop()
	err = c.FS.WriteAtomic(out, perm, func(w io.Writer) error {
		return c.Codec.Encode(w, img, job.Format, job.Quality)
	})
	return appErrors.Ensure(appErrors.IOFailure, "write", out, err)
}

// fail copies the untouched original into errDir and reports the error.
func (c *Converter) fail(idx int, src, errDir string, err error, emit func(domain.Event)) domain.Outcome {
	name := filepath.Base(src)
	outcome := domain.Outcome{Path: src, Status: domain.OutcomeFailed, Err: err}

	backup := filepath.Join(errDir, backupPrefix+name)
	if copyErr := c.FS.CopyFile(src, backup); copyErr != nil {
		outcome.BackupErr = copyErr
		emit(domain.Event{
			Kind:    domain.EventError,
			Index:   idx,
			Path:    src,
			Message: fmt.Sprintf("Failed and could not be backed up: %s", name),
		})
	} else {
		outcome.BackupPath = backup
		emit(domain.Event{
			Kind:    domain.EventError,
			Index:   idx,
			Path:    src,
			Message: fmt.Sprintf("Failed: %s (copied to the error directory)", name),
		})
	}

	emit(domain.Event{
		Kind:    domain.EventErrorDetail,
		Index:   idx,
		Path:    src,
		Message: fmt.Sprintf("error kind: %s\nerror message: %v", appErrors.KindOf(err), err),
	})
	return outcome
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
