package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Miller is a crystallographic plane orientation (h, k, l).
type Miller [3]int

// H returns the first index.
func (m Miller) H() int { return m[0] }

// K returns the second index.
func (m Miller) K() int { return m[1] }

// L returns the third index.
func (m Miller) L() int { return m[2] }

// IsZero reports whether all three indices are zero.
func (m Miller) IsZero() bool {
	return m[0] == 0 && m[1] == 0 && m[2] == 0
}

// String renders the index as "(h, k, l)".
func (m Miller) String() string {
	return fmt.Sprintf("(%d, %d, %d)", m[0], m[1], m[2])
}

// Compact renders the index as "hkl", the form used in file names.
// Negative components keep their sign, e.g. (1, -1, 0) -> "1-10".
func (m Miller) Compact() string {
	return fmt.Sprintf("%d%d%d", m[0], m[1], m[2])
}

// ParseMiller parses a Miller index.
//
// Accepted forms: "1,0,1", "1 0 1", "(1, 0, 1)", "[1,0,1]" and the compact
// three-digit form "101" for non-negative single-digit indices.
func ParseMiller(s string) (Miller, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")

	fields := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	// Compact form: exactly three digits
	if len(fields) == 1 && len(fields[0]) == 3 {
		f := fields[0]
		fields = []string{f[0:1], f[1:2], f[2:3]}
	}

	if len(fields) != 3 {
		return Miller{}, fmt.Errorf("%w: %q (want three integers)", ErrInvalidMiller, s)
	}

	var m Miller
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return Miller{}, fmt.Errorf("%w: %q: %v", ErrInvalidMiller, s, err)
		}
		m[i] = v
	}
	if m.IsZero() {
		return Miller{}, fmt.Errorf("%w: %q is the zero index", ErrInvalidMiller, s)
	}
	return m, nil
}

// MustParseMiller is like ParseMiller but panics on error. Intended for tests
// and package-level literals.
func MustParseMiller(s string) Miller {
	m, err := ParseMiller(s)
	if err != nil {
		panic(err)
	}
	return m
}
