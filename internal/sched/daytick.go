// Package sched runs the day-boundary tick on a schedule so streaks and
// daily flags roll over at midnight even when no screen asks for the
// collection. The pass itself is idempotent, so a tick racing a user-driven
// load is harmless.
package sched

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"daytrack/internal/store"
)

type DayTick struct {
	cron *cron.Cron
	log  *zap.Logger
}

func NewDayTick(schedule string, s *store.Store, log *zap.Logger) (*DayTick, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := s.LoadAll(context.Background()); err != nil {
			log.Warn("day tick failed", zap.Error(err))
			return
		}
		log.Info("day tick applied", zap.String("today", s.Today().String()))
	})
	if err != nil {
		return nil, err
	}
	return &DayTick{cron: c, log: log}, nil
}

func (d *DayTick) Start() {
	if d == nil || d.cron == nil {
		return
	}
	d.cron.Start()
}

// Stop halts scheduling and waits for an in-flight tick to finish.
func (d *DayTick) Stop() {
	if d == nil || d.cron == nil {
		return
	}
	<-d.cron.Stop().Done()
}
