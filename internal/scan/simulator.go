// Package scan simulates the progress of an on-site 3D scan.
package scan

import (
	"context"
	"time"
)

const (
	DefaultStep     = 2
	DefaultInterval = 50 * time.Millisecond
	Complete        = 100
)

type Simulator struct {
	Step     int
	Interval time.Duration
}

func New() Simulator {
	return Simulator{Step: DefaultStep, Interval: DefaultInterval}
}

// Run reports 0, Step, 2*Step, ... up to Complete, one value per Interval.
// It returns nil once Complete is reported, ctx.Err() if cancelled first,
// or the first error from onProgress.
func (s Simulator) Run(ctx context.Context, onProgress func(percent int) error) error {
	step := s.Step
	if step <= 0 {
		step = DefaultStep
	}
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	progress := 0
	for {
		if err := onProgress(progress); err != nil {
			return err
		}
		if progress >= Complete {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		progress = min(progress+step, Complete)
	}
}
