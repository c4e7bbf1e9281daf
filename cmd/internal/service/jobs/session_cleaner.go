package jobs

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
)

type ExpiredSessionDeleter interface {
	DeleteExpired(ctx context.Context, now int64) (int64, error)
}

type PurgeRecorder interface {
	RecordSessionsPurged(count int64)
}

// SessionCleaner removes expired session rows. Expired sessions are already
// ignored on lookup, this only keeps the table small.
type SessionCleaner struct {
	sessions ExpiredSessionDeleter
	metrics  PurgeRecorder
	interval time.Duration
	now      func() time.Time
}

func NewSessionCleaner(sessions ExpiredSessionDeleter, metrics PurgeRecorder) *SessionCleaner {
	return &SessionCleaner{
		sessions: sessions,
		metrics:  metrics,
		interval: time.Hour,
		now:      time.Now,
	}
}

func (c *SessionCleaner) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	log.Info("Session cleaner cron started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping session cleaner...")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *SessionCleaner) cleanup(ctx context.Context) {
	n, err := c.sessions.DeleteExpired(ctx, c.now().UnixMilli())
	if err != nil {
		log.Errorf("Cleaner: failed to delete expired sessions: %v", err)
		return
	}

	if n == 0 {
		return
	}

	log.Infof("Cleaner: deleted %d expired sessions", n)
	if c.metrics != nil {
		c.metrics.RecordSessionsPurged(n)
	}
}
