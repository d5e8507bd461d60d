package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fpdedup/internal/config"
)

func TestCheckReadableDirectory_OK(t *testing.T) {
	result := CheckReadableDirectory("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckReadableDirectory_NotExist(t *testing.T) {
	result := CheckReadableDirectory("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckReadableDirectory_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.json")
	if err := os.WriteFile(f, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if CheckReadableDirectory("test", f).Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckReadableDirectory_Empty(t *testing.T) {
	if CheckReadableDirectory("test", "").Passed {
		t.Fatal("expected failure for unset path")
	}
}

func TestCheckCreatableDirectory(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing", base, true},
		{"missing nested", filepath.Join(base, "a", "b", "c"), true},
		{"file in the way", blocker, false},
		{"under a file", filepath.Join(blocker, "target"), false},
		{"unset", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckCreatableDirectory("test", tt.path)
			if got.Passed != tt.want {
				t.Fatalf("Passed = %v, want %v (%s)", got.Passed, tt.want, got.Detail)
			}
		})
	}
}

func TestRunAll(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceDir = filepath.Join(base, "src")
	cfg.Paths.TargetDir = filepath.Join(base, "dst")
	cfg.Paths.LockDir = filepath.Join(base, "locks")

	results := RunAll(context.Background(), &cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Source directory" {
		t.Fatalf("expected only the missing source to fail, got %+v", failed)
	}

	if err := os.MkdirAll(cfg.Paths.SourceDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg.Scan.DryRun = true
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	results = RunAll(context.Background(), &cfg)
	if len(Failed(results)) != 0 {
		t.Fatalf("expected all checks to pass, got %+v", results)
	}
	for _, r := range results {
		if r.Name == "Target directory" {
			t.Fatal("dry runs must not check the target directory")
		}
	}
	if RunAll(context.Background(), nil) != nil {
		t.Fatal("nil config should yield no results")
	}
}
