// Package biz contains business logic layer implementations.
// This layer holds the core business rules and domain models.
package biz

import (
	"ClearCut/internal/data"

	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewRateLimiterUseCase,
	NewRemovalUseCase,
	// Import data layer providers
	data.NewRateLimitStore,
	data.NewPredictionRepo,
	data.NewAuditLogger,
	// Bind data layer implementations to biz layer interfaces
	wire.Bind(new(RateLimitStore), new(data.RateLimitStore)),
	wire.Bind(new(PredictionRepo), new(*data.PredictionRepo)),
	wire.Bind(new(AuditLogger), new(*data.AuditLoggerImpl)),
)
