package dedup_test

import (
	"bytes"
	"strings"
	"testing"

	"fpdedup/internal/dedup"
	"fpdedup/internal/logging"
)

func TestLogProgressSamplesByBucket(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	p := dedup.NewLogProgress(logger, 25)
	p.Start(100)
	for i := 0; i < 100; i++ {
		p.Advance("f.json")
	}
	p.Finish()

	if p.Done() != 100 {
		t.Fatalf("Done = %d, want 100", p.Done())
	}
	lines := strings.Count(buf.String(), "scanning files")
	// 1% falls in bucket 0, then 25/50/75/100.
	if lines != 5 {
		t.Fatalf("expected 5 progress lines, got %d:\n%s", lines, buf.String())
	}
	if !strings.Contains(buf.String(), "considered=100 total=100 percent=100") {
		t.Fatalf("expected final progress line, got %s", buf.String())
	}
}

func TestLogProgressRestart(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	p := dedup.NewLogProgress(logger, 50)
	p.Start(2)
	p.Advance("a.json")
	p.Advance("b.json")
	p.Start(1)
	p.Advance("c.json")
	if p.Done() != 1 {
		t.Fatalf("Done = %d after restart, want 1", p.Done())
	}
	if !strings.Contains(buf.String(), "file=c.json") {
		t.Fatalf("restart should log again, got %s", buf.String())
	}
}

func TestBarProgressRendersCount(t *testing.T) {
	var buf bytes.Buffer
	p := dedup.NewBarProgress(&buf)
	p.Start(3)
	p.Advance("a.json")
	p.Advance("b.json")
	p.Advance("c.json")
	p.Finish()

	if !strings.Contains(buf.String(), "3/3") {
		t.Fatalf("expected count in bar output, got %q", buf.String())
	}
}

func TestBarProgressZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	p := dedup.NewBarProgress(&buf)
	p.Start(0)
	p.Advance("x.json")
	p.Finish()
	if buf.Len() != 0 {
		t.Fatalf("empty scan should not render a bar, got %q", buf.String())
	}
}
