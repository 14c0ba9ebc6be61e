package domain

import "strings"

// CoalesceStr returns the first value that is not blank after trimming.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// ValueOr dereferences p, or returns fallback when p is nil. Plan files use
// pointers to tell "absent" from zero.
func ValueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
