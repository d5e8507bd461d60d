package main

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"fpdedup/internal/dedup"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Scan", statusError, "failed", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Scan:", "[ERROR] failed")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Scan", statusOK, "done", true)
	if !strings.HasPrefix(got, "\x1b[32m") {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, "\x1b[0m") {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestRenderScanSummaryFormatsCounts(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	result := &dedup.Result{
		TargetDir:   "/data/unique",
		StartedAt:   start,
		FinishedAt:  start.Add(1500 * time.Millisecond),
		Candidates:  12345,
		Unique:      1200,
		Copied:      1200,
		Duplicates:  11145,
		BytesCopied: 3 * 1000 * 1000,
	}
	out := renderScanSummary(result, false)
	requireContains(t, out, "12,345")
	requireContains(t, out, "11,145")
	requireContains(t, out, "3.0 MB")
	requireContains(t, out, "1.5s")
	requireContains(t, out, "[OK] 1,200 unique of 12,345")
	requireContains(t, out, "/data/unique")
}

func TestScanStatusPrefersCopyFailures(t *testing.T) {
	kind, msg := scanStatus(&dedup.Result{CopyFailures: 2, Malformed: 1})
	if kind != statusWarn {
		t.Fatalf("kind = %v, want warn", kind)
	}
	requireContains(t, msg, "2 copy failure(s)")
}
