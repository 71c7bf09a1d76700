package data

import (
	"context"
	"fmt"

	"ClearCut/internal/conf"
	"ClearCut/internal/model"
	"ClearCut/pkg/replicate"

	"github.com/go-kratos/kratos/v2/log"
)

// Alpha matting thresholds tuned for the rembg U²-Net model.
const (
	alphaMattingForeground = 240
	alphaMattingBackground = 10
)

// PredictionRepo implements biz.PredictionRepo on top of the Replicate
// API client.
type PredictionRepo struct {
	client  *replicate.Client
	version string
	logger  *log.Helper
}

// NewPredictionRepo creates the provider-backed prediction repository.
func NewPredictionRepo(c *conf.Provider, logger log.Logger) (*PredictionRepo, error) {
	client, err := replicate.NewClient(replicate.Options{
		BaseURL:  c.BaseUrl,
		Token:    c.Token,
		ProxyURL: c.ProxyUrl,
		Timeout:  c.RequestTimeout.AsDuration(),
	})
	if err != nil {
		return nil, fmt.Errorf("create provider client: %w", err)
	}

	version := c.ModelVersion
	if version == "" {
		version = replicate.RembgVersion
	}

	return &PredictionRepo{
		client:  client,
		version: version,
		logger:  log.NewHelper(logger),
	}, nil
}

// Create submits the image as a base64 data URI with alpha matting on.
func (r *PredictionRepo) Create(ctx context.Context, image []byte, contentType string) (*model.Prediction, error) {
	pred, err := r.client.CreatePrediction(ctx, r.version, replicate.PredictionInput{
		Image:                           replicate.DataURI(contentType, image),
		AlphaMatting:                    true,
		AlphaMattingForegroundThreshold: alphaMattingForeground,
		AlphaMattingBackgroundThreshold: alphaMattingBackground,
	})
	if err != nil {
		return nil, err
	}
	return toModel(pred), nil
}

// Get returns one job's current state.
func (r *PredictionRepo) Get(ctx context.Context, id string) (*model.Prediction, error) {
	pred, err := r.client.GetPrediction(ctx, id)
	if err != nil {
		return nil, err
	}
	return toModel(pred), nil
}

// FetchOutput downloads the processed image.
func (r *PredictionRepo) FetchOutput(ctx context.Context, url string) (*model.ResultImage, error) {
	data, contentType, err := r.client.FetchOutput(ctx, url)
	if err != nil {
		return nil, err
	}
	return &model.ResultImage{Data: data, ContentType: contentType}, nil
}

func toModel(p *replicate.Prediction) *model.Prediction {
	return &model.Prediction{
		ID:        p.ID,
		Status:    p.Status,
		OutputURL: p.Output,
		Detail:    p.Error,
	}
}
