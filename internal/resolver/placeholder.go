package resolver

import (
	"sort"
	"strings"
)

// substituteAll replaces every ${NAME} and ${NAME:default} token in string
// values of the merged property map. Keys are visited in sorted order so a
// map with several unresolved placeholders always reports the same one.
func substituteAll(properties map[string]any, env Lookup) error {
	keys := make([]string, 0, len(properties))
	for key := range properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw, ok := properties[key].(string)
		if !ok || !strings.Contains(raw, "$") {
			continue
		}
		resolved, err := substitute(key, raw, env)
		if err != nil {
			return err
		}
		properties[key] = resolved
	}
	return nil
}

// substitute expands placeholders in a single value. "$${...}" escapes a
// literal "${...}". The default is everything after the first colon, so
// defaults may themselves contain colons (URLs, addresses).
func substitute(key, value string, env Lookup) (string, error) {
	var out strings.Builder
	for i := 0; i < len(value); {
		c := value[i]
		if c != '$' {
			out.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(value) && value[i+1] == '$' {
			out.WriteByte('$')
			i += 2
			continue
		}
		if i+1 >= len(value) || value[i+1] != '{' {
			out.WriteByte(c)
			i++
			continue
		}

		end := strings.IndexByte(value[i+2:], '}')
		if end < 0 {
			// Unterminated token, keep it verbatim.
			out.WriteString(value[i:])
			break
		}
		token := value[i+2 : i+2+end]
		i += end + 3

		name, fallback, hasDefault := strings.Cut(token, ":")
		if looked, ok := env.Lookup(name); ok {
			out.WriteString(looked)
			continue
		}
		if hasDefault {
			out.WriteString(fallback)
			continue
		}
		return "", &PlaceholderError{Key: key, Variable: name}
	}
	return out.String(), nil
}
