package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Copy error policies accepted by scan.on_copy_error.
const (
	CopyErrorFail = "fail"
	CopyErrorSkip = "skip"
)

// Paths contains the directories a run reads from and writes to.
type Paths struct {
	SourceDir string `toml:"source_dir"`
	TargetDir string `toml:"target_dir"`
	LockDir   string `toml:"lock_dir"`
	LogDir    string `toml:"log_dir"`
}

// Scan contains options for the deduplication pass.
type Scan struct {
	DryRun       bool   `toml:"dry_run"`
	VerifyCopies bool   `toml:"verify_copies"`
	OnCopyError  string `toml:"on_copy_error"`
	ReportPath   string `toml:"report_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for fpdedup.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Scan    Scan    `toml:"scan"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/fpdedup/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file is not an error; defaults are used
// and the returned bool is false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("fpdedup.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// SetSourceDir expands and stores a source directory override.
func (c *Config) SetSourceDir(path string) error {
	expanded, err := expandPath(strings.TrimSpace(path))
	if err != nil {
		return fmt.Errorf("source dir: %w", err)
	}
	c.Paths.SourceDir = expanded
	return nil
}

// SetTargetDir expands and stores a target directory override.
func (c *Config) SetTargetDir(path string) error {
	expanded, err := expandPath(strings.TrimSpace(path))
	if err != nil {
		return fmt.Errorf("target dir: %w", err)
	}
	c.Paths.TargetDir = expanded
	return nil
}

// SetReportPath expands and stores a report path override.
func (c *Config) SetReportPath(path string) error {
	expanded, err := expandPath(strings.TrimSpace(path))
	if err != nil {
		return fmt.Errorf("report path: %w", err)
	}
	c.Scan.ReportPath = expanded
	return nil
}

// EnsureDirectories creates directories the CLI needs before a run. The target
// directory is left to the scanner so dry runs never create it.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LockDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
