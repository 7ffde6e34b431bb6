// Package envkey derives and normalizes environment variable names from
// configuration prefixes and struct field names.
package envkey

import (
	"reflect"
	"strings"
)

// Join combines a prefix with a field name segment into a derived
// environment variable name. Both parts are upper-cased so that derived
// names are stable regardless of the caller's casing.
// Examples:
//   - Join("app", "port") → "APP_PORT"
//   - Join("APP_DATABASE", "host") → "APP_DATABASE_HOST"
func Join(prefix, name string) string {
	return strings.ToUpper(prefix) + "_" + strings.ToUpper(name)
}

// Normalize upper-cases an environment variable name so lookups are
// case-insensitive: "app_port" and "APP_PORT" normalize identically.
func Normalize(name string) string {
	return strings.ToUpper(name)
}

// FieldName returns the key segment for a struct field and whether the
// field participates in loading. A yaml tag renames the segment, matching
// how the field would serialize; yaml:"-" excludes the field entirely.
func FieldName(f reflect.StructField) (string, bool) {
	tag, ok := f.Tag.Lookup("yaml")
	if !ok {
		return f.Name, true
	}

	name := tag
	if i := strings.IndexByte(tag, ','); i >= 0 {
		name = tag[:i]
	}

	switch name {
	case "-":
		return "", false
	case "":
		return f.Name, true
	default:
		return name, true
	}
}
