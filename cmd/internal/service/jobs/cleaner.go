package jobs

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
)

type ConnectionSweeper interface {
	Sweep(ctx context.Context) int
}

type SweepRecorder interface {
	RecordConnectionsSwept(count int)
}

// ConnectionCleaner terminates realtime connections that stopped sending
// heartbeats or outlived the gateway connection limit.
type ConnectionCleaner struct {
	sweeper  ConnectionSweeper
	metrics  SweepRecorder
	interval time.Duration
}

func NewConnectionCleaner(sweeper ConnectionSweeper, metrics SweepRecorder) *ConnectionCleaner {
	return &ConnectionCleaner{sweeper: sweeper, metrics: metrics, interval: 5 * time.Minute}
}

func (c *ConnectionCleaner) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	log.Info("Connection cleaner cron started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping connection cleaner...")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *ConnectionCleaner) cleanup(ctx context.Context) {
	n := c.sweeper.Sweep(ctx)
	if n == 0 {
		return
	}

	log.Infof("Cleaner: terminated %d stale connections", n)
	if c.metrics != nil {
		c.metrics.RecordConnectionsSwept(n)
	}
}
