package dedup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fpdedup/internal/fileutil"
	"fpdedup/internal/fingerprint"
	"fpdedup/internal/logging"
)

// CandidateSuffix is the case-sensitive suffix a source entry needs to be scanned.
const CandidateSuffix = ".json"

// ErrSameDirectory reports a target directory that resolves to the source.
var ErrSameDirectory = errors.New("target directory is the source directory")

// CopyErrorPolicy decides what happens when publishing a unique file fails.
type CopyErrorPolicy string

const (
	// CopyErrorFail stops the run and returns the copy error.
	CopyErrorFail CopyErrorPolicy = "fail"
	// CopyErrorSkip logs the failure and continues with the next file.
	CopyErrorSkip CopyErrorPolicy = "skip"
)

// Outcome describes what happened to one candidate file.
type Outcome string

const (
	OutcomeCopied     Outcome = "copied"
	OutcomeWouldCopy  Outcome = "would_copy"
	OutcomeDuplicate  Outcome = "duplicate"
	OutcomeMalformed  Outcome = "malformed"
	OutcomeCopyFailed Outcome = "copy_failed"
)

// FileResult records the outcome for one candidate file.
type FileResult struct {
	Name        string  `json:"name" yaml:"name"`
	Outcome     Outcome `json:"outcome" yaml:"outcome"`
	Key         string  `json:"key,omitempty" yaml:"key,omitempty"`
	DuplicateOf string  `json:"duplicate_of,omitempty" yaml:"duplicate_of,omitempty"`
	Bytes       int64   `json:"bytes,omitempty" yaml:"bytes,omitempty"`
	Error       string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result summarizes a scan. It is returned even when the scan stops early so
// callers can report partial progress.
type Result struct {
	RunID        string       `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	SourceDir    string       `json:"source_dir" yaml:"source_dir"`
	TargetDir    string       `json:"target_dir" yaml:"target_dir"`
	DryRun       bool         `json:"dry_run" yaml:"dry_run"`
	StartedAt    time.Time    `json:"started_at" yaml:"started_at"`
	FinishedAt   time.Time    `json:"finished_at" yaml:"finished_at"`
	Candidates   int          `json:"candidates" yaml:"candidates"`
	Considered   int          `json:"considered" yaml:"considered"`
	Unique       int          `json:"unique" yaml:"unique"`
	Copied       int          `json:"copied" yaml:"copied"`
	Duplicates   int          `json:"duplicates" yaml:"duplicates"`
	Malformed    int          `json:"malformed" yaml:"malformed"`
	CopyFailures int          `json:"copy_failures" yaml:"copy_failures"`
	BytesCopied  int64        `json:"bytes_copied" yaml:"bytes_copied"`
	Files        []FileResult `json:"files" yaml:"files"`
}

// Options configures a Scanner. The zero value copies without verification,
// fails on the first copy error, and reports no progress.
type Options struct {
	DryRun       bool
	VerifyCopies bool
	OnCopyError  CopyErrorPolicy
	Progress     Progress
	Logger       *slog.Logger
}

// Scanner performs deduplication passes.
type Scanner struct {
	opts      Options
	logger    *slog.Logger
	progress  Progress
	writeFile func(dst string, data []byte, src os.FileInfo) (int64, error)
}

// NewScanner constructs a Scanner with the given options.
func NewScanner(opts Options) *Scanner {
	if opts.OnCopyError == "" {
		opts.OnCopyError = CopyErrorFail
	}
	progress := opts.Progress
	if progress == nil {
		progress = NopProgress{}
	}
	writeFile := fileutil.WriteFile
	if opts.VerifyCopies {
		writeFile = fileutil.WriteFileVerified
	}
	return &Scanner{
		opts:      opts,
		logger:    logging.NewComponentLogger(opts.Logger, "dedup"),
		progress:  progress,
		writeFile: writeFile,
	}
}

// Scan copies sourceDir files with unseen fingerprint keys into targetDir
// using default options.
func Scan(ctx context.Context, sourceDir, targetDir string) (*Result, error) {
	return NewScanner(Options{}).Scan(ctx, sourceDir, targetDir)
}

// ListCandidates returns the names of scannable entries directly inside dir,
// sorted lexically. Only regular files and symlinks that do not resolve to
// something else (directories, FIFOs, devices) are listed; a dangling symlink
// is kept so it is reported as unreadable.
func ListCandidates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read source directory %q: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, CandidateSuffix) {
			continue
		}
		switch mode := entry.Type(); {
		case mode.IsRegular():
		case mode&os.ModeSymlink != 0:
			info, err := os.Stat(filepath.Join(dir, name))
			if err == nil && !info.Mode().IsRegular() {
				continue
			}
		default:
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Scan runs one deduplication pass. A missing or unreadable source directory
// and a target directory that cannot be created are fatal. Under
// CopyErrorFail the first copy error is fatal too; files already copied stay
// in place. The context is checked between files.
func (s *Scanner) Scan(ctx context.Context, sourceDir, targetDir string) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.WithContext(ctx, s.logger)
	runID, _ := logging.RunIDFromContext(ctx)

	result := &Result{
		RunID:     runID,
		SourceDir: sourceDir,
		TargetDir: targetDir,
		DryRun:    s.opts.DryRun,
		StartedAt: time.Now().UTC(),
	}
	defer func() {
		result.FinishedAt = time.Now().UTC()
	}()

	names, err := ListCandidates(sourceDir)
	if err != nil {
		return result, err
	}
	result.Candidates = len(names)
	result.Files = make([]FileResult, 0, len(names))

	if !s.opts.DryRun {
		if err := os.MkdirAll(targetDir, 0o755); err != nil {
			return result, fmt.Errorf("create target directory %q: %w", targetDir, err)
		}
	}
	if err := checkDistinctDirs(sourceDir, targetDir); err != nil {
		return result, err
	}

	logger.Info("scan started",
		logging.String("source", sourceDir),
		logging.String("target", targetDir),
		logging.Int("candidates", len(names)),
		logging.Bool("dry_run", s.opts.DryRun),
	)

	seen := NewSeenSet()
	s.progress.Start(len(names))
	defer s.progress.Finish()

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			result.Unique = seen.Len()
			return result, err
		}

		fr, err := s.processFile(logger, seen, sourceDir, targetDir, name)
		result.record(fr)
		s.progress.Advance(name)
		if err != nil {
			result.Unique = seen.Len()
			return result, err
		}
	}

	result.Unique = seen.Len()
	logger.Info("scan completed",
		logging.Int("candidates", result.Candidates),
		logging.Int("unique", result.Unique),
		logging.Int("copied", result.Copied),
		logging.Int("duplicates", result.Duplicates),
		logging.Int("malformed", result.Malformed),
		logging.Int("copy_failures", result.CopyFailures),
		logging.Int64("bytes_copied", result.BytesCopied),
	)
	return result, nil
}

func (s *Scanner) processFile(logger *slog.Logger, seen *SeenSet, sourceDir, targetDir, name string) (FileResult, error) {
	fr := FileResult{Name: name}
	src := filepath.Join(sourceDir, name)

	data, info, err := fileutil.ReadFile(src)
	if err != nil {
		fr.Outcome = OutcomeMalformed
		fr.Error = err.Error()
		logging.WarnWithContext(logger, "unreadable input skipped", "input_unreadable",
			logging.String(logging.FieldFile, name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check file permissions"),
		)
		return fr, nil
	}

	rec, err := fingerprint.Parse(data)
	if err != nil {
		fr.Outcome = OutcomeMalformed
		fr.Error = err.Error()
		logging.WarnWithContext(logger, "malformed input skipped", "input_malformed",
			logging.String(logging.FieldFile, name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "file must hold one UTF-8 JSON object"),
		)
		return fr, nil
	}

	fr.Key = fingerprint.DeriveKey(rec)
	if first, added := seen.Add(fr.Key, name); !added {
		fr.Outcome = OutcomeDuplicate
		fr.DuplicateOf = first
		logger.Debug("duplicate fingerprint",
			logging.String(logging.FieldFile, name),
			logging.String(logging.FieldKey, fr.Key),
			logging.String("duplicate_of", first),
		)
		return fr, nil
	}

	if s.opts.DryRun {
		fr.Outcome = OutcomeWouldCopy
		fr.Bytes = int64(len(data))
		return fr, nil
	}

	dst := filepath.Join(targetDir, name)
	written, err := s.writeFile(dst, data, info)
	if err != nil {
		fr.Outcome = OutcomeCopyFailed
		fr.Error = err.Error()
		if s.opts.OnCopyError == CopyErrorSkip {
			logging.WarnWithContext(logger, "copy failed; continuing", "copy_failed",
				logging.String(logging.FieldFile, name),
				logging.Error(err),
				logging.String(logging.FieldImpact, "unique record missing from target"),
				logging.String(logging.FieldErrorHint, "check free space and target permissions"),
			)
			return fr, nil
		}
		return fr, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}

	fr.Outcome = OutcomeCopied
	fr.Bytes = written
	logger.Debug("unique fingerprint copied",
		logging.String(logging.FieldFile, name),
		logging.String(logging.FieldKey, fr.Key),
		logging.Int64("bytes", written),
	)
	return fr, nil
}

// checkDistinctDirs fails when targetDir is the same directory as sourceDir,
// including through symlinks or bind mounts. A target that does not exist yet
// (dry runs) cannot alias the source.
func checkDistinctDirs(sourceDir, targetDir string) error {
	srcInfo, err := os.Stat(sourceDir)
	if err != nil {
		return fmt.Errorf("stat source directory %q: %w", sourceDir, err)
	}
	dstInfo, err := os.Stat(targetDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat target directory %q: %w", targetDir, err)
	}
	if os.SameFile(srcInfo, dstInfo) {
		return fmt.Errorf("%w: %s and %s", ErrSameDirectory, sourceDir, targetDir)
	}
	return nil
}

func (r *Result) record(fr FileResult) {
	r.Files = append(r.Files, fr)
	r.Considered++
	switch fr.Outcome {
	case OutcomeCopied:
		r.Copied++
		r.BytesCopied += fr.Bytes
	case OutcomeDuplicate:
		r.Duplicates++
	case OutcomeMalformed:
		r.Malformed++
	case OutcomeCopyFailed:
		r.CopyFailures++
	}
}

// CopiedNames returns the names of files published to the target, in scan order.
func (r *Result) CopiedNames() []string {
	if r == nil {
		return nil
	}
	var names []string
	for _, fr := range r.Files {
		if fr.Outcome == OutcomeCopied || fr.Outcome == OutcomeWouldCopy {
			names = append(names, fr.Name)
		}
	}
	return names
}

// ParseCopyErrorPolicy validates a policy string.
func ParseCopyErrorPolicy(value string) (CopyErrorPolicy, error) {
	switch policy := CopyErrorPolicy(strings.ToLower(strings.TrimSpace(value))); policy {
	case "", CopyErrorFail:
		return CopyErrorFail, nil
	case CopyErrorSkip:
		return CopyErrorSkip, nil
	default:
		return "", errors.New("copy error policy must be \"fail\" or \"skip\"")
	}
}
