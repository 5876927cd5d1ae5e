package service

import (
	"strings"

	"github.com/jackson-sweet/opsapp-sub001/internal/dupcheck"
)

// containsFold reports whether any of fields contains query, ignoring case.
// An empty query matches everything.
func containsFold(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func matcherOrDefault(m dupcheck.Matcher) dupcheck.Matcher {
	if m == nil {
		return dupcheck.NewMatcher(dupcheck.DefaultThreshold)
	}
	return m
}
