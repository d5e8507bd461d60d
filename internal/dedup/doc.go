// Package dedup copies the first record seen for each fingerprint key from a
// source directory into a target directory.
//
// A Scanner walks the *.json entries directly inside the source directory in
// lexical order, parses each one with the fingerprint package, and consults a
// SeenSet owned by that single Scan call. The first file producing a key is
// copied byte-for-byte under its original name; later files with the same key
// are counted as duplicates and left alone. Files that cannot be read or
// parsed are skipped with a warning. The source directory is never modified.
//
// Scans are sequential. Progress is reported once per candidate file through
// the Progress interface, and the per-file outcomes are returned in a Result
// that WriteReport can persist as JSON or YAML.
package dedup
