package validator_test

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wagate/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(
		validator.Required("to", "123"),
		validator.InList("type", "text", []string{"text", "image"}),
	))

	err := validator.Apply(
		validator.Required("to", "  "),
		validator.MaxLen("to", "  ", 1),
		validator.InList("type", "video", []string{"text", "image"}),
	)
	require.Error(t, err)
	assert.True(t, validator.IsValidationError(err))

	ve := validator.ExtractValidationErrors(err)
	require.Len(t, ve, 3)
	assert.True(t, ve.Has("to"))
	assert.Equal(t, map[string][]string{
		"to":   {"field is required", "must be at most 1 characters long"},
		"type": {"must be one of: [text image]"},
	}, ve.Fields())
	assert.Contains(t, err.Error(), "to: field is required")
}

func TestExtractValidationErrors_Wrapped(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("bind: %w", validator.Apply(validator.Required("x", "")))
	assert.Len(t, validator.ExtractValidationErrors(err), 1)
	assert.Nil(t, validator.ExtractValidationErrors(errors.New("other")))
	assert.False(t, validator.IsValidationError(nil))
}

func TestRules(t *testing.T) {
	t.Parallel()
	digits := regexp.MustCompile(`^\d+$`)
	https := []string{"http", "https"}

	tests := []struct {
		name string
		rule validator.Rule
		ok   bool
	}{
		{"matches", validator.Matches("to", "123", digits, "digits"), true},
		{"does not match", validator.Matches("to", "12a", digits, "digits"), false},
		{"url ok", validator.ValidURLWithScheme("url", "https://example.com/a.png", https), true},
		{"url wrong scheme", validator.ValidURLWithScheme("url", "ftp://example.com/a", https), false},
		{"url relative", validator.ValidURLWithScheme("url", "/a.png", https), false},
		{"url empty", validator.ValidURLWithScheme("url", "", https), false},
		{"slice required", validator.RequiredSlice("buttons", []int{}), false},
		{"slice max", validator.MaxLenSlice("buttons", []int{1, 2, 3, 4}, 3), false},
		{"slice ok", validator.MaxLenSlice("buttons", []int{1, 2, 3}, 3), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.rule.Check())
		})
	}
}
