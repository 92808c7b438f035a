// Package codec centralizes JSON encoding for shard documents, chunk files,
// and manifests. Selecting a codec is a compatibility boundary: shard files
// written with one codec must stay readable by the other, which plain JSON
// guarantees.
package codec

// Codec encodes and decodes values. Implementations must be safe for
// concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	// MarshalIndent matches the pretty-printed layout consumers of the
	// shard files expect (two-space indentation).
	MarshalIndent(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used throughout the module.
var Default Codec = GoJSON{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}
