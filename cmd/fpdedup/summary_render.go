package main

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"fpdedup/internal/dedup"
)

var countPrinter = message.NewPrinter(language.English)

func formatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

func renderScanSummary(result *dedup.Result, colorize bool) string {
	if result == nil {
		return ""
	}

	copiedLabel := "Copied"
	copied := result.Copied
	if result.DryRun {
		copiedLabel = "Would copy"
		copied = len(result.CopiedNames())
	}

	rows := [][]string{
		{"Candidates", formatCount(result.Candidates)},
		{"Unique fingerprints", formatCount(result.Unique)},
		{copiedLabel, formatCount(copied)},
		{"Duplicates", formatCount(result.Duplicates)},
		{"Malformed", formatCount(result.Malformed)},
		{"Copy failures", formatCount(result.CopyFailures)},
		{"Bytes copied", humanize.Bytes(uint64(max(result.BytesCopied, 0)))},
		{"Elapsed", elapsed(result).String()},
	}

	var b strings.Builder
	b.WriteString(renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
	b.WriteString("\n")
	kind, msg := scanStatus(result)
	b.WriteString(renderStatusLine("Scan", kind, msg, colorize))
	b.WriteString("\n")
	b.WriteString(renderStatusLine("Target", statusInfo, result.TargetDir, colorize))
	b.WriteString("\n")
	return b.String()
}

func scanStatus(result *dedup.Result) (statusKind, string) {
	switch {
	case result.CopyFailures > 0:
		return statusWarn, countPrinter.Sprintf("%d copy failure(s); target is incomplete", result.CopyFailures)
	case result.DryRun:
		return statusInfo, countPrinter.Sprintf("dry run: %d file(s) would be copied, target untouched", len(result.CopiedNames()))
	case result.Malformed > 0:
		return statusWarn, countPrinter.Sprintf("%d malformed file(s) skipped", result.Malformed)
	default:
		return statusOK, countPrinter.Sprintf("%d unique of %d", result.Unique, result.Candidates)
	}
}

func elapsed(result *dedup.Result) time.Duration {
	if result.StartedAt.IsZero() || result.FinishedAt.Before(result.StartedAt) {
		return 0
	}
	return result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond)
}
