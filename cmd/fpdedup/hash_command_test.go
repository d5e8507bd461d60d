package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"fpdedup/internal/fingerprint"
	"fpdedup/internal/testsupport"
)

func TestHashCommandPrintsKeys(t *testing.T) {
	dir := t.TempDir()
	a := testsupport.WriteRecord(t, dir, "a.json", testsupport.Record{Canvas: "X", WebGL: "Y", Width: 800, Height: 600})
	b := testsupport.WriteRecord(t, dir, "b.json", testsupport.Record{Canvas: "X", WebGL: "Y", Width: 800, Height: 600,
		Extra: map[string]any{"ip": "10.0.0.1"}})

	stdout, _, err := runCLI(t, []string{"hash", "-v", a, b}, "")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	want := fingerprint.Fingerprint{Canvas: "X", WebGL: "Y", Width: "800", Height: "600"}
	requireContains(t, stdout, want.Key()+"  "+a)
	requireContains(t, stdout, want.Key()+"  "+b)
	requireContains(t, stdout, "X|Y|800|600")
}

func TestHashCommandSkipsConfigLoad(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.toml")
	testsupport.WriteFile(t, dir, "broken.toml", "not = [valid")
	file := testsupport.WriteRecord(t, dir, "a.json", testsupport.Record{Canvas: "X", WebGL: "Y"})

	if _, _, err := runCLI(t, []string{"hash", file}, broken); err != nil {
		t.Fatalf("hash must not depend on the config file: %v", err)
	}
}

func TestHashCommandReportsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	good := testsupport.WriteRecord(t, dir, "good.json", testsupport.Record{Canvas: "X", WebGL: "Y"})
	bad := testsupport.WriteFile(t, dir, "bad.json", "[1, 2]")
	missing := filepath.Join(dir, "missing.json")

	stdout, stderr, err := runCLI(t, []string{"hash", good, bad, missing}, "")
	if err == nil {
		t.Fatal("expected error when some files cannot be hashed")
	}
	requireContains(t, err.Error(), "2 of 3")
	requireContains(t, stdout, good)
	requireContains(t, stderr, bad+": ")
	requireContains(t, stderr, "malformed fingerprint record")
	requireContains(t, stderr, missing+": ")
}

func TestHashCommandJSON(t *testing.T) {
	dir := t.TempDir()
	file := testsupport.WriteFile(t, dir, "a.json", `{"perfectcanvas":{"2452430454":"X"},"width":800}`)

	stdout, _, err := runCLI(t, []string{"hash", "--json", file}, "")
	if err != nil {
		t.Fatalf("hash --json: %v", err)
	}
	var entries []hashEntry
	if err := json.Unmarshal([]byte(stdout), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if got := entries[0].Fingerprint; got != "X||800|None" {
		t.Fatalf("fingerprint = %q, want %q", got, "X||800|None")
	}
	if !strings.EqualFold(entries[0].Key, fingerprint.Fingerprint{Canvas: "X", Width: "800", Height: "None"}.Key()) {
		t.Fatalf("unexpected key %q", entries[0].Key)
	}
}
