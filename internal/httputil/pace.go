// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"time"
)

// DefaultInterval is the pause between consecutive row fetch sequences.
const DefaultInterval = 1 * time.Second

// Pacer inserts a fixed pause between consecutive operations so a run
// stays under the API's rate limits. The first call to Wait returns
// immediately; every later call sleeps the full Interval, however long the
// work since the previous call took. A Pacer is not safe for concurrent use.
type Pacer struct {
	Interval time.Duration

	started bool
}

// NewPacer returns a Pacer with the given interval. A non-positive
// interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{Interval: interval}
}

// Wait sleeps Interval unless this is the first call. If the context is
// cancelled while waiting, Wait returns ctx.Err().
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.started {
		p.started = true
		return nil
	}
	if p.Interval <= 0 {
		return nil
	}
	timer := time.NewTimer(p.Interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
