package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAcceptedType(t *testing.T) {
	tests := []struct {
		name      string
		mediaType string
		want      bool
	}{
		{"jpeg", "image/jpeg", true},
		{"png", "image/png", true},
		{"gif", "image/gif", false},
		{"webp", "image/webp", false},
		{"pdf", "application/pdf", false},
		{"empty", "", false},
		{"jpeg with params", "image/jpeg; charset=utf-8", false},
		{"uppercase", "IMAGE/JPEG", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAcceptedType(tt.mediaType))
		})
	}
}

func TestIsAcceptedSize(t *testing.T) {
	assert.True(t, IsAcceptedSize(0))
	assert.True(t, IsAcceptedSize(1024))
	assert.True(t, IsAcceptedSize(MaxFileSize))
	assert.False(t, IsAcceptedSize(MaxFileSize+1))
	assert.False(t, IsAcceptedSize(-1))
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		decimals int
		want     string
	}{
		{0, 2, "0 Bytes"},
		{512, 2, "512 Bytes"},
		{1024, 2, "1 KB"},
		{1536, 2, "1.5 KB"},
		{5 * 1024 * 1024, 2, "5 MB"},
		{6 * 1024 * 1024, 2, "6 MB"},
		{1610612736, 2, "1.5 GB"},
		{1536, -1, "2 KB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.bytes, tt.decimals))
	}
}
