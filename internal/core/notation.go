// FILE: internal/core/notation.go
package core

import (
	"fmt"
	"strings"
)

// ParseSquare reads a square name such as "c3"
func ParseSquare(s string) (Vector, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return Vector{}, fmt.Errorf("%w: square %q", ErrInvalidCoordinate, s)
	}
	if s[0] < 'a' || s[0] >= 'a'+CellsPerSide || s[1] < '1' || s[1] >= '1'+CellsPerSide {
		return Vector{}, fmt.Errorf("%w: square %q", ErrInvalidCoordinate, s)
	}
	return Vector{X: int(s[0] - 'a'), Y: CellsPerSide - int(s[1]-'0')}, nil
}

// ParsePath reads squares separated by '-' or 'x', e.g. "c3-c4" or "d6xd4xb4"
func ParsePath(s string) ([]Vector, error) {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '-' || r == 'x' || r == ' ' || r == ','
	})
	if len(fields) < 2 {
		return nil, fmt.Errorf("path %q needs at least two squares", s)
	}
	path := make([]Vector, 0, len(fields))
	for _, f := range fields {
		v, err := ParseSquare(f)
		if err != nil {
			return nil, err
		}
		path = append(path, v)
	}
	return path, nil
}

// FormatPath joins squares with 'x' for captures and '-' otherwise
func FormatPath(path []Vector, capture bool) string {
	sep := "-"
	if capture {
		sep = "x"
	}
	parts := make([]string, len(path))
	for i, v := range path {
		parts[i] = v.String()
	}
	return strings.Join(parts, sep)
}
