package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"picpp/internal/domain"
)

type Config struct {
	Format     domain.Format
	Quality    int
	Mode       domain.SaveMode
	OutputDir  string
	Recursive  bool
	AutoOrient bool
	Plain      bool
	Verbose    bool
	LogFile    string
}

// Flags holds the raw command line values bound by Bind.
type Flags struct {
	Format     string
	Quality    int
	InPlace    bool
	OutputDir  string
	Recursive  bool
	AutoOrient bool
	Plain      bool
	Verbose    bool
	LogFile    string
	ConfigFile string
}

// settings is the intermediate layer every source writes into.
type settings struct {
	Format     string `yaml:"format"`
	Quality    int    `yaml:"quality"`
	Mode       string `yaml:"mode"`
	OutputDir  string `yaml:"output_dir"`
	Recursive  bool   `yaml:"recursive"`
	AutoOrient bool   `yaml:"auto_orient"`
	Plain      bool   `yaml:"plain"`
	Verbose    bool   `yaml:"verbose"`
	LogFile    string `yaml:"log_file"`
}

func defaults() settings {
	return settings{Format: "webp", Quality: domain.DefaultQuality}
}

func Bind(fs *pflag.FlagSet, f *Flags) {
	fs.StringVarP(&f.Format, "format", "f", "webp", "target format: jpg, webp or avif")
	fs.IntVarP(&f.Quality, "quality", "q", domain.DefaultQuality, fmt.Sprintf("lossy quality (%d-%d)", domain.MinQuality, domain.MaxQuality))
	fs.BoolVarP(&f.InPlace, "inplace", "i", false, "convert next to the originals, replacing them when the format changes")
	fs.StringVarP(&f.OutputDir, "output", "o", "", "write converted files to this directory")
	fs.BoolVarP(&f.Recursive, "recursive", "r", false, "descend into subdirectories")
	fs.BoolVar(&f.AutoOrient, "auto-orient", false, "apply EXIF orientation before encoding")
	fs.BoolVar(&f.Plain, "plain", false, "print a plain log instead of the interactive view")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "verbose output")
	fs.StringVar(&f.LogFile, "log-file", "", "append log output to this file")
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "YAML file with default settings")
}

// LoadDotEnv reads a .env file from the working directory when one exists.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load()
}

// Resolve merges defaults, the YAML file, PICPP_* variables and explicitly
// set flags, in increasing order of precedence.
func Resolve(fs *pflag.FlagSet, f Flags) (Config, error) {
	s := defaults()

	configFile := f.ConfigFile
	if configFile == "" {
		configFile = envOrEmpty("PICPP_CONFIG")
	}
	if configFile != "" {
		if err := s.loadFile(configFile); err != nil {
			return Config{}, err
		}
	}
	if err := s.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := s.applyFlags(fs, f); err != nil {
		return Config{}, err
	}
	return s.build()
}

func (s *settings) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (s *settings) applyEnv() error {
	if v := envOrEmpty("PICPP_FORMAT"); v != "" {
		s.Format = v
	}
	if v := envOrEmpty("PICPP_QUALITY"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PICPP_QUALITY %q", v)
		}
		s.Quality = q
	}
	if v := envOrEmpty("PICPP_MODE"); v != "" {
		s.Mode = v
	}
	if v := envOrEmpty("PICPP_OUTPUT_DIR"); v != "" {
		s.OutputDir = v
	}
	if v := envOrEmpty("PICPP_LOG_FILE"); v != "" {
		s.LogFile = v
	}
	s.Recursive = s.Recursive || envTruthy("PICPP_RECURSIVE")
	s.AutoOrient = s.AutoOrient || envTruthy("PICPP_AUTO_ORIENT")
	s.Plain = s.Plain || envTruthy("PICPP_PLAIN")
	s.Verbose = s.Verbose || envTruthy("PICPP_VERBOSE")
	return nil
}

func (s *settings) applyFlags(fs *pflag.FlagSet, f Flags) error {
	changed := func(name string) bool {
		return fs != nil && fs.Changed(name)
	}

	if changed("inplace") && f.InPlace && changed("output") {
		return errors.New("--inplace cannot be used with --output")
	}
	if changed("format") {
		s.Format = f.Format
	}
	if changed("quality") {
		s.Quality = f.Quality
	}
	if changed("inplace") && f.InPlace {
		s.Mode = domain.ModeOverwrite.String()
		s.OutputDir = ""
	}
	if changed("output") {
		s.Mode = domain.ModeSaveTo.String()
		s.OutputDir = f.OutputDir
	}
	if changed("recursive") {
		s.Recursive = f.Recursive
	}
	if changed("auto-orient") {
		s.AutoOrient = f.AutoOrient
	}
	if changed("plain") {
		s.Plain = f.Plain
	}
	if changed("verbose") {
		s.Verbose = f.Verbose
	}
	if changed("log-file") {
		s.LogFile = f.LogFile
	}
	return nil
}

func (s settings) build() (Config, error) {
	format, err := domain.ParseFormat(s.Format)
	if err != nil {
		return Config{}, err
	}
	if err := domain.ValidateQuality(s.Quality); err != nil {
		return Config{}, err
	}

	modeName := s.Mode
	if modeName == "" && s.OutputDir != "" {
		modeName = domain.ModeSaveTo.String()
	}
	if modeName == "" {
		return Config{}, errors.New("choose --inplace or --output <dir>")
	}
	mode, err := domain.ParseSaveMode(modeName)
	if err != nil {
		return Config{}, err
	}
	if mode == domain.ModeSaveTo && s.OutputDir == "" {
		return Config{}, errors.New("save-to mode requires an output directory")
	}

	outputDir := s.OutputDir
	if mode == domain.ModeOverwrite {
		outputDir = ""
	}

	return Config{
		Format:     format,
		Quality:    s.Quality,
		Mode:       mode,
		OutputDir:  outputDir,
		Recursive:  s.Recursive,
		AutoOrient: s.AutoOrient,
		Plain:      s.Plain,
		Verbose:    s.Verbose,
		LogFile:    s.LogFile,
	}, nil
}

func envOrEmpty(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envTruthy(key string) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	return val == "1" || val == "true" || val == "yes" || val == "y"
}
