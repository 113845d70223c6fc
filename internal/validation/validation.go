package validation

import (
	"strings"
	"time"
)

// Violations maps a field name to a short machine-readable reason.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Required marks the field when value is blank.
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// MaxLen marks the field when value exceeds n characters.
func MaxLen(field, value string, n int, v Violations) {
	if len(value) > n {
		v[field] = "too_long"
	}
}

// OneOf marks the field when value is set but not in the allowed list.
func OneOf(field, value string, allowed []string, v Violations) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "invalid_value"
}

// DateOrder marks the field when both dates are set and to precedes from.
func DateOrder(field string, from, to *time.Time, v Violations) {
	if from != nil && to != nil && to.Before(*from) {
		v[field] = "ends_before_start"
	}
}
