package args

import "strings"

// Options is the option map produced by Collect for a single invocation.
type Options struct {
	values     map[string]string
	Positional []string
	Unknown    []string
}

// Has reports whether the flag was given.
func (o Options) Has(flag string) bool {
	_, ok := o.values[flag]
	return ok
}

// String returns the flag's value, or def when the flag was not given.
func (o Options) String(flag, def string) string {
	if v, ok := o.values[flag]; ok {
		return v
	}
	return def
}

// Int returns the flag's value coerced with Int, or def when absent.
func (o Options) Int(flag string, def int) int {
	if v, ok := o.values[flag]; ok {
		return Int(v)
	}
	return def
}

// Len returns the number of distinct flags given.
func (o Options) Len() int {
	return len(o.values)
}

// Int converts the leading integer of s. Surrounding whitespace is ignored,
// trailing garbage is dropped, and input without leading digits yields 0.
func Int(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		if n > 1<<31 {
			n = 1 << 31
		}
	}
	if neg {
		return -n
	}
	return n
}
