// Package validate provides pure helpers for checking client uploads before
// any provider call is made. It is stateless and performs no I/O.
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxFileSize is the upload size ceiling: 5 MiB.
const MaxFileSize int64 = 5 * 1024 * 1024

// AcceptedFileTypes are the declared media types the service processes.
var AcceptedFileTypes = []string{"image/jpeg", "image/png"}

// AcceptedFileExtensions lists the matching extensions for error messages.
var AcceptedFileExtensions = []string{".jpeg", ".jpg", ".png"}

// IsAcceptedType reports whether the declared media type is processable.
// Parameters such as "; charset=..." are not part of the accepted set and
// cause a rejection, matching the strict comparison of the upload contract.
func IsAcceptedType(mediaType string) bool {
	for _, t := range AcceptedFileTypes {
		if mediaType == t {
			return true
		}
	}
	return false
}

// IsAcceptedSize reports whether a payload of byteLength bytes fits under
// the MaxFileSize ceiling.
func IsAcceptedSize(byteLength int64) bool {
	return byteLength >= 0 && byteLength <= MaxFileSize
}

// FormatBytes renders a byte count in human-readable form, e.g. "1.5 MB".
// Used for log and error messages only; never for limit comparisons.
func FormatBytes(bytes int64, decimals int) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	if decimals < 0 {
		decimals = 0
	}

	const k = 1024
	sizes := []string{"Bytes", "KB", "MB", "GB", "TB"}

	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(k)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}

	value := float64(bytes) / math.Pow(k, float64(i))
	s := strconv.FormatFloat(value, 'f', decimals, 64)
	// Trim trailing zeros so 5.00 MB reads as 5 MB.
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return fmt.Sprintf("%s %s", s, sizes[i])
}
