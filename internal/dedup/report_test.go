package dedup_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"fpdedup/internal/dedup"
	"fpdedup/internal/testsupport"
)

func scanFixture(t *testing.T) *dedup.Result {
	t.Helper()
	src, dst := dirs(t)
	testsupport.WriteRecord(t, src, "a.json", testsupport.Record{Canvas: "a", Width: 1, Height: 2})
	testsupport.WriteRecord(t, src, "b.json", testsupport.Record{Canvas: "a", Width: 1, Height: 2})
	testsupport.WriteFile(t, src, "bad.json", "{")
	result, err := dedup.Scan(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return result
}

func TestWriteReportJSON(t *testing.T) {
	result := scanFixture(t)
	path := filepath.Join(t.TempDir(), "reports", "run.json")

	if err := dedup.WriteReport(path, result); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var decoded dedup.Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if decoded.Copied != 1 || decoded.Duplicates != 1 || decoded.Malformed != 1 || len(decoded.Files) != 3 {
		t.Fatalf("unexpected report: %+v", decoded)
	}
	if decoded.Files[1].DuplicateOf != "a.json" {
		t.Fatalf("duplicate_of = %q", decoded.Files[1].DuplicateOf)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary report files left behind: %d entries", len(entries))
	}
}

func TestWriteReportYAML(t *testing.T) {
	result := scanFixture(t)
	for _, name := range []string{"run.yaml", "run.yml"} {
		path := filepath.Join(t.TempDir(), name)
		if err := dedup.WriteReport(path, result); err != nil {
			t.Fatalf("WriteReport(%s): %v", name, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read report: %v", err)
		}
		var decoded map[string]any
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("decode yaml: %v", err)
		}
		if decoded["copied"] != 1 || decoded["malformed"] != 1 {
			t.Fatalf("unexpected yaml report: %v", decoded)
		}
		files, ok := decoded["files"].([]any)
		if !ok || len(files) != 3 {
			t.Fatalf("expected three file entries, got %v", decoded["files"])
		}
	}
}

func TestWriteReportRejectsUnknownExtension(t *testing.T) {
	if err := dedup.WriteReport(filepath.Join(t.TempDir(), "run.txt"), &dedup.Result{}); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}
