package resolver

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Decode unmarshals the resolved properties under basePath into target,
// which may be a struct (using yaml tags) or a map. The flat dotted-key map
// is rebuilt into nested form first; sequence entries flattened to numeric
// segments stay addressable as string keys ("hosts.0").
func (e *Effective) Decode(basePath string, target any) error {
	nested := make(map[string]any)
	for key, value := range e.Properties {
		setNested(nested, key, value)
	}

	subtree := any(nested)
	if basePath != "" {
		for _, segment := range strings.Split(basePath, ".") {
			m, ok := subtree.(map[string]any)
			if !ok {
				return fmt.Errorf("property path segment %q is not a map", segment)
			}
			subtree, ok = m[segment]
			if !ok {
				subtree = map[string]any{}
				break
			}
		}
	}

	subtreeMap, ok := subtree.(map[string]any)
	if !ok {
		return fmt.Errorf("property path %q does not refer to a map", basePath)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}

	if err := decoder.Decode(subtreeMap); err != nil {
		return fmt.Errorf("decode properties under %q: %w", basePath, err)
	}
	return nil
}

// setNested writes a dotted-path value into a nested map, creating
// intermediate maps as needed. A scalar already occupying an intermediate
// segment is replaced, mirroring the flat map's last-write-wins semantics.
func setNested(nested map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	current := nested
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}
