package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func writeSource(t *testing.T, dir, name string, content []byte, perm os.FileMode) (string, []byte, os.FileInfo) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, perm); err != nil {
		t.Fatal(err)
	}
	data, info, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return path, data, info
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`{"width":100}`)
	_, data, info := writeSource(t, dir, "src.json", content, 0o644)
	dst := filepath.Join(dir, "dst.json")

	n, err := WriteFile(dst, data, info)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(content)) {
		t.Fatalf("written = %d, want %d", n, len(content))
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestWriteFileOverwritesAndKeepsMode(t *testing.T) {
	dir := t.TempDir()
	_, data, info := writeSource(t, dir, "src.json", []byte("new"), 0o600)
	dst := filepath.Join(dir, "dst.json")
	if err := os.WriteFile(dst, []byte("older and longer"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := WriteFile(dst, data, info); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("content mismatch: got %q", got)
	}
	st, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %o, want 600", st.Mode().Perm())
	}
}

func TestWriteFileWritesBytesAlreadyRead(t *testing.T) {
	dir := t.TempDir()
	src, data, info := writeSource(t, dir, "src.json", []byte("original"), 0o644)
	if err := os.WriteFile(src, []byte("changed after read"), 0o644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "dst.json")

	if _, err := WriteFile(dst, data, info); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "original" {
		t.Fatalf("expected the bytes that were read, got %q", got)
	}
}

func TestWriteFileRefusesSameFile(t *testing.T) {
	dir := t.TempDir()
	src, data, info := writeSource(t, dir, "a.json", []byte(`{"width":1}`), 0o644)
	link := filepath.Join(t.TempDir(), "alias")
	if err := os.Symlink(dir, link); err != nil {
		t.Fatal(err)
	}

	for _, dst := range []string{src, filepath.Join(link, "a.json")} {
		if _, err := WriteFile(dst, data, info); !errors.Is(err, ErrSameFile) {
			t.Fatalf("WriteFile(%s) err = %v, want ErrSameFile", dst, err)
		}
	}
	got, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"width":1}` {
		t.Fatalf("source modified: %q", got)
	}
}

func TestWriteFileVerified(t *testing.T) {
	dir := t.TempDir()
	content := []byte("verified copy content")
	_, data, info := writeSource(t, dir, "src.bin", content, 0o644)
	dst := filepath.Join(dir, "dst.bin")

	if _, err := WriteFileVerified(dst, data, info); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestWriteFileIntoDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	_, data, info := writeSource(t, dir, "src.json", []byte("x"), 0o644)
	dst := filepath.Join(dir, "squatter")
	if err := os.Mkdir(dst, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteFile(dst, data, info); err == nil {
		t.Fatal("expected error writing over a directory")
	}
}

func TestReadFile_MissingSource(t *testing.T) {
	if _, _, err := ReadFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestReadFile_DirectorySource(t *testing.T) {
	if _, _, err := ReadFile(t.TempDir()); err == nil {
		t.Fatal("expected error for directory source")
	}
}

func TestReadFile_FIFODoesNotBlock(t *testing.T) {
	fifo := filepath.Join(t.TempDir(), "pipe.json")
	if err := syscall.Mkfifo(fifo, 0o644); err != nil {
		t.Skipf("mkfifo unavailable: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, _, err := ReadFile(fifo)
		done <- err
	}()
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected error for FIFO source")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ReadFile blocked on a FIFO")
	}
}
