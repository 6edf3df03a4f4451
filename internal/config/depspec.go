package config

import "fmt"

// A single dependency declaration: a tagged union over the value forms a
// dependency map entry may take.
//
// Exactly one field is set after decoding:
//
//   - Version: plain string pin (`curl = "7.88"`) or versioned object
//     (`curl = { version = "7.88" }`).
//   - Ext: extension back-reference (`net = { ext = "net" }`).
//   - Compile: compile-unit reference (`app = { compile = "app" }`).
type DepSpec struct {
	Version string
	Ext     string
	Compile string
}

// Decodes the union from its TOML value.
//
// A bare string is a version pin. A table is dispatched on its single
// recognized key, checked in version, ext, compile order. Anything else is
// a configuration error, surfaced before any container is spawned.
func (d *DepSpec) UnmarshalTOML(v any) error {
	switch value := v.(type) {
	case string:
		d.Version = value
		return nil

	case map[string]any:
		if s, ok := stringKey(value, "version"); ok {
			d.Version = s
			return nil
		}
		if s, ok := stringKey(value, "ext"); ok {
			d.Ext = s
			return nil
		}
		if s, ok := stringKey(value, "compile"); ok {
			d.Compile = s
			return nil
		}
		return fmt.Errorf("%w: object must carry a version, ext, or compile key", ErrInvalidDepSpec)

	default:
		return fmt.Errorf("%w: unsupported value of type %T", ErrInvalidDepSpec, v)
	}
}

func stringKey(m map[string]any, key string) (string, bool) {
	raw, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}
