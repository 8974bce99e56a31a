package token

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magiskboy/blog-backend/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Sweeper periodically walks the alive set and evicts tokens whose encoded
// validity window has run out, as well as tokens that no longer parse.
// Logout remains the only synchronous revocation path; the sweep just keeps
// the set from growing without bound.
type Sweeper struct {
	store    Store
	service  *Service
	schedule cron.Schedule
	logger   *slog.Logger
	now      func() time.Time
}

func NewSweeper(store Store, service *Service, scheduleExpr string, logger *slog.Logger) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(scheduleExpr)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", scheduleExpr, err)
	}

	return &Sweeper{
		store:    store,
		service:  service,
		schedule: schedule,
		logger:   logger.With("component", "token_sweeper"),
		now:      time.Now,
	}, nil
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("token sweeper started")

	for {
		next := s.schedule.Next(s.now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("token sweeper shut down")
			return
		case <-timer.C:
			if removed, err := s.Sweep(ctx); err != nil {
				s.logger.Error("token sweep", "error", err)
			} else if removed > 0 {
				s.logger.Info("token sweep evicted stale tokens", "count", removed)
			}
		}
	}
}

// Sweep runs one eviction cycle and returns the number of tokens removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	start := s.now()
	defer func() {
		metrics.SweepCycleDuration.Observe(time.Since(start).Seconds())
	}()

	tokens, err := s.store.Members(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, tok := range tokens {
		if !s.stale(tok) {
			continue
		}
		if err := s.store.Remove(ctx, tok); err != nil {
			return removed, err
		}
		removed++
	}

	metrics.TokensSweptTotal.Add(float64(removed))
	return removed, nil
}

func (s *Sweeper) stale(tok string) bool {
	claims, err := s.service.Decode(tok)
	if err != nil {
		// Unparseable entries can never authenticate; drop them too.
		return true
	}
	return claims.ExpiresAt().Before(s.now())
}
