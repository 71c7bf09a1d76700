package log

import (
	"strings"
)

// sensitiveKeywords are key substrings that mark a field value as a secret.
var sensitiveKeywords = []string{
	"password", "passwd", "pwd",
	"api_key", "apikey", "api-key",
	"token", "access_token", "refresh_token",
	"secret", "auth", "authorization",
	"credential", "private_key", "privatekey",
}

// SanitizeField checks if the key contains sensitive keywords and masks the
// value. The provider bearer token must never appear in full in any log line.
func SanitizeField(key, value string) string {
	if value == "" {
		return value
	}

	lowerKey := strings.ToLower(key)

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			return sanitizeToken(value)
		}
	}

	return value
}

// sanitizeToken masks secret values showing only the first 4 and last 4
// characters.
func sanitizeToken(value string) string {
	if len(value) <= 8 {
		if len(value) <= 2 {
			return strings.Repeat("*", len(value))
		}
		return string(value[0]) + strings.Repeat("*", len(value)-2) + string(value[len(value)-1])
	}

	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}
