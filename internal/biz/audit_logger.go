package biz

import (
	"context"
	"time"

	"ClearCut/internal/model"
)

// AuditLogger records removal request outcomes for the optional audit
// trail. Implementations must never block the request path.
type AuditLogger interface {
	// Record enqueues one audit row. It is fire-and-forget; failures are
	// logged, not returned.
	Record(entry *model.RemovalAudit)

	// PruneOlderThan deletes audit rows created before cutoff and returns
	// how many were removed.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
