package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"fpdedup/internal/config"
	"fpdedup/internal/dedup"
	"fpdedup/internal/logging"
	"fpdedup/internal/preflight"
	"fpdedup/internal/runlock"
)

const logProgressBucketPercent = 10

func newScanCommand(ctx *commandContext) *cobra.Command {
	var source string
	var target string
	var reportPath string
	var onCopyError string
	var dryRun bool
	var verify bool
	var jsonOutput bool
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Copy the first record of every distinct fingerprint into the target directory",
		Long: "Scan reads every *.json file directly inside the source directory in lexical order,\n" +
			"derives a key from canvas, webgl, width and height, and copies each file whose key\n" +
			"has not been seen yet into the target directory. Malformed files are skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.runConfig()
			if err != nil {
				return err
			}
			if err := applyPathOverrides(cmd, cfg, source, target); err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("dry-run") {
				cfg.Scan.DryRun = dryRun
			}
			if flags.Changed("verify") {
				cfg.Scan.VerifyCopies = verify
			}
			if flags.Changed("on-copy-error") {
				cfg.Scan.OnCopyError = strings.ToLower(strings.TrimSpace(onCopyError))
			}
			if flags.Changed("report") {
				if err := cfg.SetReportPath(reportPath); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.ValidateScanPaths(); err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			logger, err := newCommandLogger(cmd, cfg)
			if err != nil {
				return err
			}
			return runScan(cmd, cfg, logger, scanOutput{json: jsonOutput, noProgress: noProgress})
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Directory holding the fingerprint JSON files")
	cmd.Flags().StringVar(&target, "target", "", "Directory receiving one file per unique fingerprint")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be copied without touching the target")
	cmd.Flags().BoolVar(&verify, "verify", false, "Verify each copy with a SHA-256 comparison")
	cmd.Flags().StringVar(&onCopyError, "on-copy-error", "", "Copy failure policy: fail or skip")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write a JSON or YAML run report to this file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run result as JSON")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable progress output")
	return cmd
}

type scanOutput struct {
	json       bool
	noProgress bool
}

func runScan(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, out scanOutput) error {
	runCtx := logging.WithRunID(cmd.Context(), uuid.NewString())
	runLogger := logging.WithContext(runCtx, logger)

	if failed := preflight.Failed(preflight.RunAll(runCtx, cfg)); len(failed) > 0 {
		return preflightError(failed)
	}

	if !cfg.Scan.DryRun {
		lock, err := runlock.Acquire(cfg.Paths.LockDir, cfg.Paths.TargetDir)
		if err != nil {
			if errors.Is(err, runlock.ErrLocked) {
				return fmt.Errorf("target %s is in use by another run: %w", cfg.Paths.TargetDir, err)
			}
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				runLogger.Warn("release run lock failed", logging.Error(err))
			}
		}()
	}

	policy, err := dedup.ParseCopyErrorPolicy(cfg.Scan.OnCopyError)
	if err != nil {
		return err
	}

	scanner := dedup.NewScanner(dedup.Options{
		DryRun:       cfg.Scan.DryRun,
		VerifyCopies: cfg.Scan.VerifyCopies,
		OnCopyError:  policy,
		Progress:     selectProgress(cmd, runLogger, out.noProgress),
		Logger:       logger,
	})
	result, scanErr := scanner.Scan(runCtx, cfg.Paths.SourceDir, cfg.Paths.TargetDir)

	if cfg.Scan.ReportPath != "" && result != nil {
		if err := dedup.WriteReport(cfg.Scan.ReportPath, result); err != nil {
			if scanErr == nil {
				return fmt.Errorf("write report: %w", err)
			}
			runLogger.Warn("write report failed", logging.Error(err))
		}
	}
	if scanErr != nil {
		if !errors.Is(scanErr, context.Canceled) {
			logging.ErrorWithContext(runLogger, "scan failed", "scan_failed",
				logging.Error(scanErr),
				logging.String(logging.FieldErrorHint, "files copied before the failure remain in the target"),
			)
		}
		return scanErr
	}

	if out.json {
		return writeJSON(cmd, result)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), renderScanSummary(result, writerIsTerminal(cmd.OutOrStdout())))
	return err
}

func selectProgress(cmd *cobra.Command, logger *slog.Logger, disabled bool) dedup.Progress {
	if disabled {
		return dedup.NopProgress{}
	}
	if errOut := cmd.ErrOrStderr(); writerIsTerminal(errOut) {
		return dedup.NewBarProgress(errOut)
	}
	return dedup.NewLogProgress(logger, logProgressBucketPercent)
}

func preflightError(failed []preflight.Result) error {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
}
