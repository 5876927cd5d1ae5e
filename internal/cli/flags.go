package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/pflag"
)

// enumValue is a string flag restricted to a fixed set of values.
type enumValue struct {
	value   *string
	allowed map[string]bool
}

var _ pflag.Value = (*enumValue)(nil)

func newEnumValue(p *string, allowed map[string]bool) *enumValue {
	return &enumValue{value: p, allowed: allowed}
}

func (e *enumValue) String() string {
	if e.value == nil {
		return ""
	}
	return *e.value
}

func (e *enumValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !e.allowed[s] {
		return fmt.Errorf("must be one of %s", strings.Join(e.choices(), ", "))
	}
	*e.value = s
	return nil
}

func (e *enumValue) Type() string {
	return "string"
}

func (e *enumValue) choices() []string {
	out := make([]string, 0, len(e.allowed))
	for v := range e.allowed {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
