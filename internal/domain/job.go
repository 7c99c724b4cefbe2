package domain

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	appErrors "picpp/internal/errors"
)

const (
	MinQuality     = 10
	MaxQuality     = 100
	DefaultQuality = 80
)

// ErrorDirName is the per-run directory that receives copies of failed inputs.
const ErrorDirName = "processing-errors"

type SaveMode int

const (
	ModeOverwrite SaveMode = iota
	ModeSaveTo
)

func ParseSaveMode(s string) (SaveMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overwrite", "inplace", "in-place":
		return ModeOverwrite, nil
	case "save-to", "saveto", "output":
		return ModeSaveTo, nil
	default:
		return ModeOverwrite, fmt.Errorf("unknown mode %q, use overwrite or save-to", s)
	}
}

func (m SaveMode) String() string {
	if m == ModeSaveTo {
		return "save-to"
	}
	return "overwrite"
}

// Job is one batch conversion request. It is not modified once a run starts.
type Job struct {
	ID        string
	Files     []string
	Format    Format
	Mode      SaveMode
	OutputDir string
	Quality   int
}

func NewJob(files []string, format Format, mode SaveMode, outputDir string, quality int) (Job, error) {
	job := Job{
		ID:        uuid.New().String(),
		Files:     append([]string(nil), files...),
		Format:    format,
		Mode:      mode,
		OutputDir: outputDir,
		Quality:   quality,
	}
	if err := job.Validate(); err != nil {
		return Job{}, err
	}
	return job, nil
}

func (j Job) Validate() error {
	if len(j.Files) == 0 {
		return appErrors.New(appErrors.InvalidInput, "job", "", "no input files")
	}
	for _, file := range j.Files {
		if strings.TrimSpace(file) == "" {
			return appErrors.New(appErrors.InvalidInput, "job", "", "empty file path")
		}
	}
	if j.Format == FormatUnknown {
		return appErrors.New(appErrors.InvalidInput, "job", "", "target format not set")
	}
	if err := ValidateQuality(j.Quality); err != nil {
		return appErrors.Wrap(appErrors.InvalidInput, "job", "", err)
	}
	if j.Mode == ModeSaveTo && strings.TrimSpace(j.OutputDir) == "" {
		return appErrors.New(appErrors.InvalidInput, "job", "", "save-to mode requires an output directory")
	}
	return nil
}

func ValidateQuality(q int) error {
	if q < MinQuality || q > MaxQuality {
		return fmt.Errorf("quality %d out of range [%d,%d]", q, MinQuality, MaxQuality)
	}
	return nil
}

// OriginDir is the directory of the first input file.
func (j Job) OriginDir() string {
	if len(j.Files) == 0 {
		return ""
	}
	return filepath.Dir(j.Files[0])
}

// BaseDir is where the processing-errors directory lives for this job.
func (j Job) BaseDir() string {
	if j.Mode == ModeSaveTo {
		return j.OutputDir
	}
	return j.OriginDir()
}

func (j Job) ErrorDir() string {
	return filepath.Join(j.BaseDir(), ErrorDirName)
}

// OutputPath resolves where the converted form of src is written.
func (j Job) OutputPath(src string) string {
	name := filepath.Base(src)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	if j.Mode == ModeSaveTo {
		return filepath.Join(j.OutputDir, base+j.Format.Extension())
	}
	if j.Format.Denotes(ext) {
		return src
	}
	return filepath.Join(filepath.Dir(src), base+j.Format.Extension())
}
