package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDomain(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		valid  bool
	}{
		{"empty", "", false},
		{"too long", strings.Repeat("a", 256), false},
		{"max length", strings.Repeat("a", 255), true},
		{"path traversal", "a..b", false},
		{"path separator", "a/b", false},
		{"backslash", `a\b`, false},
		{"colon", "example.com:8080", false},
		{"space", "example .com", false},
		{"plain", "example.com", true},
		{"subdomain with dash and digit", "sub.example-1.com", true},
		{"underscore", "_dmarc.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.valid, Domain(tt.domain))
		})
	}
}
