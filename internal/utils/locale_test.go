package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopfx/currency-service/internal/utils"
)

func TestNormalizeLocale(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"cs", "cs"},
		{"CS", "cs"},
		{"cs_CZ", "cs"},
		{"en-US", "en"},
		{"  de  ", "de"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, utils.NormalizeLocale(c.input), "input %q", c.input)
	}
}
