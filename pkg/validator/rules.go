package validator

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

func rule(field, message string, check func() bool) Rule {
	return Rule{Check: check, Error: ValidationError{Field: field, Message: message}}
}

// Required fails on empty or whitespace-only strings.
func Required(field, value string) Rule {
	return rule(field, "field is required", func() bool {
		return strings.TrimSpace(value) != ""
	})
}

func MaxLen(field, value string, max int) Rule {
	return rule(field, fmt.Sprintf("must be at most %d characters long", max), func() bool {
		return len(value) <= max
	})
}

// Matches checks value against pattern; description names the expected form.
func Matches(field, value string, pattern *regexp.Regexp, description string) Rule {
	return rule(field, "must be "+description, func() bool {
		return pattern.MatchString(value)
	})
}

func InList[T comparable](field string, value T, allowed []T) Rule {
	return rule(field, fmt.Sprintf("must be one of: %v", allowed), func() bool {
		return slices.Contains(allowed, value)
	})
}

// ValidURLWithScheme requires an absolute URL with one of schemes and a host.
func ValidURLWithScheme(field, value string, schemes []string) Rule {
	return rule(field, fmt.Sprintf("must be a valid URL with scheme: %s", strings.Join(schemes, ", ")), func() bool {
		u, err := url.ParseRequestURI(strings.TrimSpace(value))
		if err != nil {
			return false
		}
		return u.Host != "" && slices.Contains(schemes, u.Scheme)
	})
}

func RequiredSlice[T any](field string, value []T) Rule {
	return rule(field, "field is required", func() bool {
		return len(value) > 0
	})
}

func MaxLenSlice[T any](field string, value []T, max int) Rule {
	return rule(field, fmt.Sprintf("must have at most %d items", max), func() bool {
		return len(value) <= max
	})
}
