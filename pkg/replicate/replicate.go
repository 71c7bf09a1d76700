// Package replicate provides a minimal client for the Replicate predictions
// API. It covers the three operations the background-removal workflow needs:
// create a prediction, read its status, and download its output.
package replicate

import (
	"encoding/base64"
	"fmt"
	"time"
)

const (
	// DefaultBaseURL is the Replicate API root.
	DefaultBaseURL = "https://api.replicate.com/v1"

	// RembgVersion pins the danielgatis/rembg (U²-Net) release used for
	// background removal.
	RembgVersion = "danielgatis/rembg:adf11c7e5806af2b9f29d91caecff33a45e1602691f2667604546a8ab7144220"

	// DefaultTimeout bounds a single HTTP call against the API.
	DefaultTimeout = 15 * time.Second

	// UserAgent identifies ClearCut to the provider.
	UserAgent = "ClearCut/1.0"
)

// Prediction lifecycle states as reported by the provider. Anything that is
// not Succeeded or Failed is non-terminal and worth polling again.
const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// PredictionInput carries the rembg model inputs. The alpha-matting
// thresholds are fixed tuning values for edge quality.
type PredictionInput struct {
	Image                           string `json:"image"`
	AlphaMatting                    bool   `json:"alpha_matting"`
	AlphaMattingForegroundThreshold int    `json:"alpha_matting_foreground_threshold"`
	AlphaMattingBackgroundThreshold int    `json:"alpha_matting_background_threshold"`
}

// createPredictionRequest is the POST /predictions body.
type createPredictionRequest struct {
	Version string          `json:"version"`
	Input   PredictionInput `json:"input"`
}

// Prediction is the provider's view of one submitted job. Output holds a
// fetchable URL and is populated only on success.
type Prediction struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// errorResponse is the provider's error body shape.
type errorResponse struct {
	Detail string `json:"detail"`
}

// APIError is returned when the provider answers with a non-success status.
type APIError struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("replicate API error (HTTP %d)", e.StatusCode)
	}
	return fmt.Sprintf("replicate API error (HTTP %d): %s", e.StatusCode, e.Detail)
}

// DataURI encodes image bytes as a self-describing base64 data URI, the
// transport encoding the predictions API expects for embedded inputs.
func DataURI(mediaType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(data))
}
