package helpers

import "strings"

// Ptr returns a pointer to the provided value.
func Ptr[T any](val T) *T {
	return &val
}

// Value returns the dereferenced value or the zero value if nil.
func Value[T any](val *T) T {
	if val == nil {
		var zero T
		return zero
	}
	return *val
}

// TrimmedOr returns the trimmed string, or fallback when val is nil or blank.
func TrimmedOr(val *string, fallback string) string {
	if val == nil {
		return fallback
	}
	if s := strings.TrimSpace(*val); s != "" {
		return s
	}
	return fallback
}
