package resource

import (
	"reflect"
	"unicode"
)

// fieldName returns the external name for a struct field. A name set in the
// name struct tag takes precedence. Otherwise the name is the Go name
// converted to snake_case. Initialisms stay together, FastlyAPIKey becomes
// fastly_api_key.
func fieldName(f reflect.StructField) string {
	if n, ok := f.Tag.Lookup("name"); ok {
		return n
	}
	return snakeCase(f.Name)
}

func snakeCase(name string) string {
	runes := []rune(name)
	out := make([]rune, 0, len(runes)+4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			boundary := unicode.IsLower(prev) || unicode.IsDigit(prev)
			if !boundary && i+1 < len(runes) {
				// An initialism ends when the next word starts.
				boundary = unicode.IsUpper(prev) && unicode.IsLower(runes[i+1])
			}
			if boundary {
				out = append(out, '_')
			}
		}
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}
