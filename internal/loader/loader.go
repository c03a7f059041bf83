// Package loader parses raw configuration documents (YAML, JSON or TOML)
// into immutable, flattened resolver documents. Parsing is all-or-nothing
// per document: a malformed document never contributes partial keys.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/confhub/internal/resolver"
)

// ErrMalformedDocument indicates a document could not be parsed.
var ErrMalformedDocument = errors.New("malformed configuration document")

// MalformedError carries the origin of the document that failed to parse.
type MalformedError struct {
	Origin string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed configuration document %s: %s", e.Origin, e.Reason)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformedDocument
}

// Parse converts one raw document into a flattened resolver.Document. The
// extension selects the format: yml/yaml, json or toml.
func Parse(name, ext string, raw []byte, origin string) (*resolver.Document, error) {
	nested := make(map[string]any)

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yml", "yaml":
		if err := yaml.Unmarshal(raw, &nested); err != nil {
			return nil, &MalformedError{Origin: origin, Reason: err.Error()}
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&nested); err != nil {
			return nil, &MalformedError{Origin: origin, Reason: err.Error()}
		}
	case "toml":
		if err := toml.Unmarshal(raw, &nested); err != nil {
			return nil, &MalformedError{Origin: origin, Reason: err.Error()}
		}
	default:
		return nil, &MalformedError{Origin: origin, Reason: fmt.Sprintf("unsupported extension %q", ext)}
	}

	keys := make(map[string]any)
	if err := flatten(nested, "", keys); err != nil {
		return nil, &MalformedError{Origin: origin, Reason: err.Error()}
	}

	return &resolver.Document{
		Name:   name,
		Keys:   keys,
		Origin: origin,
	}, nil
}

// flatten walks an arbitrarily nested structure and writes dotted-path
// scalar entries into out. Sequences get numeric path segments ("list.0").
func flatten(value any, prefix string, out map[string]any) error {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			if err := flatten(child, join(prefix, key), out); err != nil {
				return err
			}
		}
	case map[any]any:
		// Older YAML shapes; keys must still be strings.
		for key, child := range v {
			name, ok := key.(string)
			if !ok {
				return fmt.Errorf("non-string key %v under %q", key, prefix)
			}
			if err := flatten(child, join(prefix, name), out); err != nil {
				return err
			}
		}
	case []any:
		for i, child := range v {
			if err := flatten(child, join(prefix, strconv.Itoa(i)), out); err != nil {
				return err
			}
		}
	default:
		if prefix == "" {
			return fmt.Errorf("document root must be a mapping")
		}
		out[prefix] = normalizeScalar(v)
	}
	return nil
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// normalizeScalar maps format-specific scalar types onto the canonical set
// (string, int64, float64, bool, nil) so values compare equal regardless of
// which document format supplied them.
func normalizeScalar(value any) any {
	switch v := value.(type) {
	case nil, bool, string, int64, float64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint64:
		if v > uint64(int64(^uint64(0)>>1)) {
			return float64(v)
		}
		return int64(v)
	case float32:
		return float64(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
