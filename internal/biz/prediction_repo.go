package biz

import (
	"context"

	"ClearCut/internal/model"
)

// PredictionRepo drives asynchronous background-removal jobs on the
// inference provider.
// Following Kratos v2 DDD architecture, interfaces are defined in biz layer.
// Implementation is in data layer (data.PredictionRepo).
type PredictionRepo interface {
	// Create submits a new background-removal job for the given image
	// bytes and returns its initial state.
	Create(ctx context.Context, image []byte, contentType string) (*model.Prediction, error)

	// Get returns the current state of a previously created job.
	Get(ctx context.Context, id string) (*model.Prediction, error)

	// FetchOutput downloads the processed image from the URL a succeeded
	// prediction reports.
	FetchOutput(ctx context.Context, url string) (*model.ResultImage, error)
}
