package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable. Source and target are not
// required here so commands that never scan can load an empty config; see
// ValidateScanPaths.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Paths.LockDir) == "" {
		return errors.New("paths.lock_dir must be set")
	}
	return nil
}

// ValidateScanPaths checks the directories a scan needs. It is called after
// command-line overrides have been applied.
func (c *Config) ValidateScanPaths() error {
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		return errors.New("paths.source_dir is required (set it in the config, FPDEDUP_SOURCE_DIR, or --source)")
	}
	if strings.TrimSpace(c.Paths.TargetDir) == "" {
		return errors.New("paths.target_dir is required (set it in the config, FPDEDUP_TARGET_DIR, or --target)")
	}
	if filepath.Clean(c.Paths.SourceDir) == filepath.Clean(c.Paths.TargetDir) {
		return fmt.Errorf("paths.source_dir and paths.target_dir must differ (both %s)", c.Paths.SourceDir)
	}
	if sameExistingDir(c.Paths.SourceDir, c.Paths.TargetDir) {
		return fmt.Errorf("paths.source_dir and paths.target_dir must differ (%s resolves to %s)", c.Paths.TargetDir, c.Paths.SourceDir)
	}
	if report := strings.TrimSpace(c.Scan.ReportPath); report != "" {
		if within(c.Paths.TargetDir, report) {
			return fmt.Errorf("scan.report_path %s must not be inside the target directory", report)
		}
	}
	return nil
}

func (c *Config) validateScan() error {
	switch c.Scan.OnCopyError {
	case CopyErrorFail, CopyErrorSkip:
	default:
		return fmt.Errorf("scan.on_copy_error must be %q or %q, got %q", CopyErrorFail, CopyErrorSkip, c.Scan.OnCopyError)
	}
	if report := strings.TrimSpace(c.Scan.ReportPath); report != "" {
		switch strings.ToLower(filepath.Ext(report)) {
		case ".json", ".yaml", ".yml":
		default:
			return fmt.Errorf("scan.report_path must end in .json, .yaml or .yml, got %q", report)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}

// sameExistingDir reports whether both paths exist and name the same
// directory, e.g. through a symlink or bind mount.
func sameExistingDir(a, b string) bool {
	aInfo, err := os.Stat(a)
	if err != nil {
		return false
	}
	bInfo, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(aInfo, bInfo)
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
