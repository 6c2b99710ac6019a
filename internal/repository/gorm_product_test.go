package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPatternEscapesWildcards(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"tenun", "%tenun%"},
		{"100%", `%100\%%`},
		{"ikat_sumba", `%ikat\_sumba%`},
		{`a\b`, `%a\\b%`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, containsPattern(tt.term), tt.term)
	}
}
