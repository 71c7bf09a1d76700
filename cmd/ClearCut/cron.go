package main

import (
	"context"
	"time"

	"ClearCut/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/robfig/cron/v3"
)

// auditRetention is how long audit rows are kept before the nightly
// prune removes them.
const auditRetention = 30 * 24 * time.Hour

// newAuditPruneCron schedules the nightly audit trail prune at 04:00.
// The returned cleanup stops the scheduler.
func newAuditPruneCron(audit biz.AuditLogger, logger log.Logger) (*cron.Cron, func()) {
	helper := log.NewHelper(logger)

	c := cron.New(cron.WithSeconds())

	// Cron 表达式：0 0 4 * * * （秒 分 时 日 月 周）
	_, err := c.AddFunc("0 0 4 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		removed, err := audit.PruneOlderThan(ctx, time.Now().Add(-auditRetention))
		if err != nil {
			helper.Errorw("msg", "audit prune failed", "error", err.Error(), "type", "scheduler")
			return
		}
		helper.Infow("msg", "audit prune completed", "rows_removed", removed, "type", "scheduler")
	})
	if err != nil {
		helper.Errorw("msg", "failed to register audit prune cron job", "error", err.Error())
	}

	c.Start()
	helper.Info("Audit prune cron job started: runs daily at 04:00")

	return c, func() {
		<-c.Stop().Done()
	}
}
