package data

import (
	"context"
	"time"

	"ClearCut/internal/model"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// AuditLoggerImpl implements biz.AuditLogger. Rows are written from a
// background goroutine fed by a buffered channel so the request path
// never waits on the database. With no database configured every call is
// a no-op.
type AuditLoggerImpl struct {
	db      *gorm.DB
	logChan chan *model.RemovalAudit
	logger  *log.Helper
}

// NewAuditLogger creates the async audit logger.
func NewAuditLogger(db *gorm.DB, logger log.Logger) *AuditLoggerImpl {
	al := &AuditLoggerImpl{
		db:      db,
		logChan: make(chan *model.RemovalAudit, 1000),
		logger:  log.NewHelper(logger),
	}

	if db != nil {
		go al.start()
	}

	return al
}

// start drains the channel into the database.
func (a *AuditLoggerImpl) start() {
	for entry := range a.logChan {
		if err := a.db.WithContext(context.Background()).Create(entry).Error; err != nil {
			a.logger.Errorw(
				"msg", "failed to write audit log",
				"client_id", entry.ClientID,
				"outcome", entry.Outcome,
				"error", err.Error(),
			)
		} else {
			a.logger.Debugw(
				"msg", "audit log written",
				"client_id", entry.ClientID,
				"outcome", entry.Outcome,
				"type", "audit",
			)
		}
	}
}

// Record enqueues one audit row without blocking.
func (a *AuditLoggerImpl) Record(entry *model.RemovalAudit) {
	if a.db == nil || entry == nil {
		return
	}

	select {
	case a.logChan <- entry:
	default:
		a.logger.Warnw(
			"msg", "audit log channel full, dropping event",
			"client_id", entry.ClientID,
			"outcome", entry.Outcome,
		)
	}
}

// PruneOlderThan deletes audit rows created before cutoff.
func (a *AuditLoggerImpl) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if a.db == nil {
		return 0, nil
	}

	res := a.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.RemovalAudit{})
	return res.RowsAffected, res.Error
}
