package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// WriteFile writes content to dir/name, creating dir when needed, and returns
// the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Record describes a fingerprint fixture. Nil Width or Height omits the field.
type Record struct {
	Canvas string
	WebGL  string
	Width  any
	Height any
	Extra  map[string]any
}

// WriteRecord encodes rec as a fingerprint JSON document at dir/name.
func WriteRecord(t testing.TB, dir, name string, rec Record) string {
	t.Helper()

	doc := map[string]any{
		"perfectcanvas": map[string]any{
			"2452430454": rec.Canvas,
			"2950473529": rec.WebGL,
		},
	}
	if rec.Width != nil {
		doc["width"] = rec.Width
	}
	if rec.Height != nil {
		doc["height"] = rec.Height
	}
	for k, v := range rec.Extra {
		doc[k] = v
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	return WriteFile(t, dir, name, string(data))
}

// ListFiles returns the sorted names of regular files directly inside dir.
func ListFiles(t testing.TB, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

// AssertSameBytes fails the test unless a and b hold identical content.
func AssertSameBytes(t testing.TB, a, b string) {
	t.Helper()

	left, err := os.ReadFile(a)
	if err != nil {
		t.Fatalf("read %s: %v", a, err)
	}
	right, err := os.ReadFile(b)
	if err != nil {
		t.Fatalf("read %s: %v", b, err)
	}
	if string(left) != string(right) {
		t.Fatalf("content of %s differs from %s", b, a)
	}
}
