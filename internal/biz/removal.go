package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"ClearCut/internal/conf"
	"ClearCut/internal/model"
	clog "ClearCut/pkg/log"
)

// Sentinel errors for the removal pipeline. The HTTP layer maps all of
// them to the same opaque 500 response; they exist for logging and the
// audit trail.
var (
	// ErrJobFailed means the provider ran the job and reported failure.
	ErrJobFailed = errors.New("prediction failed on the provider")
	// ErrTimedOut means the job did not finish within the polling budget.
	ErrTimedOut = errors.New("background removal timed out")
	// ErrMissingOutput means a succeeded prediction carried no output URL.
	ErrMissingOutput = errors.New("prediction succeeded without output")
)

// RemovalUseCase orchestrates one background-removal job: submit the
// image, poll until the prediction settles, then fetch the processed
// result. There is exactly one submit and one fetch per request; only
// polling repeats.
type RemovalUseCase struct {
	repo         PredictionRepo
	pollInterval time.Duration
	pollBudget   time.Duration
	logger       *clog.LogHelper
}

// NewRemovalUseCase creates a new removal use case.
func NewRemovalUseCase(c *conf.Provider, repo PredictionRepo, logger log.Logger) *RemovalUseCase {
	return &RemovalUseCase{
		repo:         repo,
		pollInterval: c.PollInterval.AsDuration(),
		pollBudget:   c.PollBudget.AsDuration(),
		logger:       clog.NewLogHelper(logger),
	}
}

// Remove runs the full pipeline and returns the processed image.
// Cancellation of ctx aborts polling; the provider-side job is left to
// finish on its own.
func (uc *RemovalUseCase) Remove(ctx context.Context, image []byte, contentType string) (*model.ResultImage, error) {
	start := time.Now()

	pred, err := uc.repo.Create(ctx, image, contentType)
	if err != nil {
		return nil, fmt.Errorf("submit prediction: %w", err)
	}

	uc.logger.Provider("Prediction submitted",
		"prediction_id", pred.ID,
		"status", pred.Status,
		"image_bytes", len(image),
	)

	// The polling budget starts once the job exists; submit latency is
	// not deducted from it.
	deadline := time.Now().Add(uc.pollBudget)
	for !pred.Terminal() {
		if time.Now().After(deadline) {
			uc.logger.Provider("Polling budget exhausted",
				"prediction_id", pred.ID,
				"last_status", pred.Status,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return nil, ErrTimedOut
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrTimedOut, ctx.Err())
		case <-time.After(uc.pollInterval):
		}

		pred, err = uc.repo.Get(ctx, pred.ID)
		if err != nil {
			return nil, fmt.Errorf("poll prediction: %w", err)
		}
	}

	switch pred.Status {
	case model.PredictionSucceeded:
		// proceed to fetch below
	case model.PredictionFailed, model.PredictionCanceled:
		return nil, fmt.Errorf("%w: %s", ErrJobFailed, pred.Detail)
	default:
		return nil, fmt.Errorf("unexpected terminal status %q", pred.Status)
	}

	if pred.OutputURL == "" {
		return nil, ErrMissingOutput
	}

	img, err := uc.repo.FetchOutput(ctx, pred.OutputURL)
	if err != nil {
		return nil, fmt.Errorf("fetch output: %w", err)
	}
	if img.ContentType == "" {
		img.ContentType = "image/png"
	}

	uc.logger.Success("Background removal completed",
		"prediction_id", pred.ID,
		"duration_ms", time.Since(start).Milliseconds(),
		"output_bytes", len(img.Data),
	)
	return img, nil
}
