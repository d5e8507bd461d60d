package dedup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Report formats accepted by WriteReport, chosen from the file extension.
const (
	ReportJSON = "json"
	ReportYAML = "yaml"
)

// ReportFormat maps a report path to its encoding.
func ReportFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReportJSON, nil
	case ".yaml", ".yml":
		return ReportYAML, nil
	default:
		return "", fmt.Errorf("report %q: unsupported extension (want .json, .yaml or .yml)", path)
	}
}

// WriteReport writes result to path. The file is written to a temporary name
// in the same directory and renamed into place.
func WriteReport(path string, result *Result) error {
	format, err := ReportFormat(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".fpdedup-report-*")
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := EncodeReport(tmp, format, result); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	return nil
}

// EncodeReport writes result to w in the given format.
func EncodeReport(w io.Writer, format string, result *Result) error {
	switch format {
	case ReportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}
		return nil
	case ReportYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}
