// Package fileutil holds the read and publish primitives used for unique records.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ErrSameFile reports a destination that resolves to the source file.
var ErrSameFile = errors.New("source and destination are the same file")

// ReadFile reads path through a single handle and returns its content with
// the handle's file info. Anything other than a regular file is rejected.
func ReadFile(path string) ([]byte, os.FileInfo, error) {
	// Opening a FIFO blocks until a writer appears, so check before opening.
	pre, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if !pre.Mode().IsRegular() {
		return nil, nil, fmt.Errorf("read %s: not a regular file", path)
	}

	in, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, nil, fmt.Errorf("read %s: not a regular file", path)
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, info, nil
}

// WriteFile writes data, previously read from the file described by src, to
// dst, truncating any existing dst. The destination takes the permission bits
// of src. It fails with ErrSameFile when dst already resolves to src, and
// removes a partially written dst on failure.
func WriteFile(dst string, data []byte, src os.FileInfo) (int64, error) {
	return writeFile(dst, data, src, false)
}

// WriteFileVerified behaves like WriteFile, then reads dst back and compares
// its size and SHA-256 against data. dst is removed on mismatch.
func WriteFileVerified(dst string, data []byte, src os.FileInfo) (int64, error) {
	return writeFile(dst, data, src, true)
}

func writeFile(dst string, data []byte, src os.FileInfo, verify bool) (int64, error) {
	perm := os.FileMode(0o644)
	if src != nil {
		perm = src.Mode().Perm()
	}

	existing, err := os.Stat(dst)
	switch {
	case err == nil:
		if src != nil && os.SameFile(src, existing) {
			return 0, fmt.Errorf("write %s: %w", dst, ErrSameFile)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return 0, fmt.Errorf("stat destination: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return 0, err
	}
	written, err := out.Write(data)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return 0, err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return 0, err
	}
	// Permissions are only applied on create; keep an overwritten target in line.
	if err := os.Chmod(dst, perm); err != nil {
		return int64(written), fmt.Errorf("chmod %s: %w", dst, err)
	}

	if !verify {
		return int64(written), nil
	}
	if err := verifyContent(dst, data); err != nil {
		_ = os.Remove(dst)
		return 0, err
	}
	return int64(written), nil
}

func verifyContent(path string, want []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("verify %s: %w", path, err)
	}
	defer f.Close()

	hasher := sha256.New()
	n, err := io.Copy(hasher, f)
	if err != nil {
		return fmt.Errorf("verify %s: %w", path, err)
	}
	if n != int64(len(want)) {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", len(want), n)
	}
	wantSum := sha256.Sum256(want)
	if !bytes.Equal(hasher.Sum(nil), wantSum[:]) {
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}
