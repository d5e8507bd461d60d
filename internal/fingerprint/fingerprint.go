package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// CanvasField is the perfectcanvas entry holding the canvas signature.
	CanvasField = "2452430454"
	// WebGLField is the perfectcanvas entry holding the WebGL signature.
	WebGLField = "2950473529"

	perfectCanvasKey = "perfectcanvas"
	widthKey         = "width"
	heightKey        = "height"

	// Absent is the rendering of a missing or null value.
	Absent = "None"

	separator = "|"
)

// ErrMalformed reports input that cannot be treated as a fingerprint record.
var ErrMalformed = errors.New("malformed fingerprint record")

// Record is a decoded top-level JSON object. Values stay raw so numbers keep
// their original spelling.
type Record map[string]json.RawMessage

// Fingerprint holds the canonical renderings of the four identifying values.
type Fingerprint struct {
	Canvas string `json:"canvas"`
	WebGL  string `json:"webgl"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// Parse decodes data as a single JSON object. The input must be valid UTF-8.
func Parse(data []byte) (Record, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrMalformed)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrMalformed)
	}
	return rec, nil
}

// Extract pulls the identifying values out of rec. It never fails; missing
// fields take their default renderings.
func Extract(rec Record) Fingerprint {
	fp := Fingerprint{
		Width:  renderField(rec, widthKey),
		Height: renderField(rec, heightKey),
	}
	if raw, ok := rec[perfectCanvasKey]; ok {
		var canvas map[string]json.RawMessage
		if err := json.Unmarshal(raw, &canvas); err == nil {
			if v, ok := canvas[CanvasField]; ok {
				fp.Canvas = render(v)
			}
			if v, ok := canvas[WebGLField]; ok {
				fp.WebGL = render(v)
			}
		}
	}
	return fp
}

// String returns the pipe-joined form that is hashed into the key.
func (f Fingerprint) String() string {
	return strings.Join([]string{f.Canvas, f.WebGL, f.Width, f.Height}, separator)
}

// Key returns the lowercase hex SHA-256 digest of the fingerprint.
func (f Fingerprint) Key() string {
	sum := sha256.Sum256([]byte(f.String()))
	return hex.EncodeToString(sum[:])
}

// DeriveKey extracts the fingerprint from rec and returns its key.
func DeriveKey(rec Record) string {
	return Extract(rec).Key()
}

// DeriveKeyFromBytes parses data and returns its key.
func DeriveKeyFromBytes(data []byte) (string, error) {
	rec, err := Parse(data)
	if err != nil {
		return "", err
	}
	return DeriveKey(rec), nil
}

func renderField(rec Record, key string) string {
	raw, ok := rec[key]
	if !ok {
		return Absent
	}
	return render(raw)
}

func render(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Absent
	}
	switch trimmed[0] {
	case 'n':
		return Absent
	case 't':
		return "True"
	case 'f':
		return "False"
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return string(trimmed)
		}
		return s
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return string(trimmed)
		}
		return buf.String()
	default:
		return string(trimmed)
	}
}
