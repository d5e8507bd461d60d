// Package preflight provides readiness checks for the filesystem paths a scan
// depends on.
//
// These checks run in two contexts:
//   - The scan command calls RunAll before taking the target lock and stops
//     when any check fails, so a run never starts against a path it cannot use.
//   - The "fpdedup check" command prints one status line per result.
//
// The target directory may not exist yet; in that case the nearest existing
// ancestor must be writable so the scanner can create it.
package preflight
