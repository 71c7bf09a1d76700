// Package data provides data access layer implementations.
// It handles provider transport, rate limit stores and the audit trail.
package data

import (
	"github.com/google/wire"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewRedisClient,
	NewMySQLClient,
)
