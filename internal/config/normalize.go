package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeScan(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		if value, ok := os.LookupEnv("FPDEDUP_SOURCE_DIR"); ok {
			c.Paths.SourceDir = value
		}
	}
	if strings.TrimSpace(c.Paths.TargetDir) == "" {
		if value, ok := os.LookupEnv("FPDEDUP_TARGET_DIR"); ok {
			c.Paths.TargetDir = value
		}
	}

	var err error
	if c.Paths.SourceDir, err = expandPath(strings.TrimSpace(c.Paths.SourceDir)); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if c.Paths.TargetDir, err = expandPath(strings.TrimSpace(c.Paths.TargetDir)); err != nil {
		return fmt.Errorf("paths.target_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockDir) == "" {
		c.Paths.LockDir = defaultLockDir
	}
	if c.Paths.LockDir, err = expandPath(strings.TrimSpace(c.Paths.LockDir)); err != nil {
		return fmt.Errorf("paths.lock_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() error {
	c.Scan.OnCopyError = strings.ToLower(strings.TrimSpace(c.Scan.OnCopyError))
	if c.Scan.OnCopyError == "" {
		c.Scan.OnCopyError = defaultOnCopyError
	}
	var err error
	if c.Scan.ReportPath, err = expandPath(strings.TrimSpace(c.Scan.ReportPath)); err != nil {
		return fmt.Errorf("scan.report_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
