// Package config holds the configuration sections shared by catalog binaries.
// Every section renders itself for the startup log and validates its own fields.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every validation error returned from this package.
var ErrInvalid = errors.New("invalid configuration")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

type field struct {
	key   string
	value any
}

// section renders a titled block of key/value lines.
func section(title string, fields ...field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n--- %s ---\n", title)
	for _, f := range fields {
		fmt.Fprintf(&b, "  %s: %v\n", f.key, f.value)
	}
	return b.String()
}

func positive[T ~int | ~int64 | ~uint | ~uint32](name string, v T) error {
	if v <= 0 {
		return invalid("%s must be greater than 0, got %v", name, v)
	}
	return nil
}
