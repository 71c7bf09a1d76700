package log

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{
			name:  "plain key untouched",
			key:   "client_ip",
			value: "203.0.113.7",
			want:  "203.0.113.7",
		},
		{
			name:  "token masked",
			key:   "provider_token",
			value: "r8_abcdefghijklmnopqrstuvwxyz1234",
			want:  "r8_a" + strings.Repeat("*", 25) + "1234",
		},
		{
			name:  "authorization header masked",
			key:   "Authorization",
			value: "Token r8_secretsecretsecret",
			want:  "Toke" + strings.Repeat("*", 19) + "cret",
		},
		{
			name:  "short secret keeps only edges",
			key:   "api_key",
			value: "short",
			want:  "s***t",
		},
		{
			name:  "tiny secret fully masked",
			key:   "secret",
			value: "ab",
			want:  "**",
		},
		{
			name:  "empty value untouched",
			key:   "token",
			value: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeField(tt.key, tt.value))
		})
	}
}
