// Package service implements the HTTP-facing request gateway.
package service

import (
	"github.com/google/wire"

	"ClearCut/internal/biz"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(
	NewRemovalService,
	wire.Bind(new(BackgroundRemover), new(*biz.RemovalUseCase)),
)
