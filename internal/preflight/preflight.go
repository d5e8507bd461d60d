package preflight

import (
	"context"

	"fpdedup/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the preflight checks for the given config. Dry runs never
// write to the target, so its writability is only checked for real runs.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckReadableDirectory("Source directory", cfg.Paths.SourceDir))
	if !cfg.Scan.DryRun {
		results = append(results, CheckCreatableDirectory("Target directory", cfg.Paths.TargetDir))
	}
	results = append(results, CheckCreatableDirectory("Lock directory", cfg.Paths.LockDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckCreatableDirectory("Log directory", cfg.Paths.LogDir))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
