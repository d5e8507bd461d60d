// Package fingerprint derives deterministic keys from browser/device
// fingerprint records.
//
// A record is a JSON object carrying a perfectcanvas mapping with the canvas
// and WebGL signatures plus top-level width and height values. Extract pulls
// those four values into their canonical string form and Key hashes the
// pipe-joined tuple with SHA-256. Parse performs the strict decoding used by
// the scanner: invalid UTF-8, malformed JSON, trailing data, and non-object
// documents are all reported as ErrMalformed.
//
// Rendering rules are fixed: absent or null width/height render as "None",
// booleans as "True"/"False", numbers keep the literal text from the file,
// and nested values render as compact JSON. Canvas and WebGL fall back to the
// empty string when the perfectcanvas mapping or the key is missing.
package fingerprint
