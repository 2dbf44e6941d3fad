package monitoring

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/sdpro1234/skin-disease-ai/internal/services"
	"github.com/sdpro1234/skin-disease-ai/internal/session"
)

// retainAnalyses is how long analysis history is kept before the sweeper
// trims it.
const retainAnalyses = 30 * 24 * time.Hour

// Sweeper runs periodic housekeeping: expired sessions are purged and old
// analysis records trimmed, on a cron-defined schedule.
type Sweeper struct {
	sessions    *session.Store
	analysisSvc services.AnalysisServiceProvider
	schedule    cron.Schedule
	nextRun     time.Time
	ticker      *time.Ticker
	done        chan bool
}

// NewSweeper creates a Sweeper. spec is a standard cron expression.
func NewSweeper(sessions *session.Store, analysisSvc services.AnalysisServiceProvider, spec string) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return &Sweeper{
		sessions:    sessions,
		analysisSvc: analysisSvc,
		schedule:    schedule,
		nextRun:     schedule.Next(time.Now()),
		done:        make(chan bool),
	}, nil
}

// Run starts the sweeper's ticking loop.
func (s *Sweeper) Run() {
	log.Info().Time("next_run", s.nextRun).Msg("Starting background sweeper...")
	s.ticker = time.NewTicker(30 * time.Second)
	defer s.ticker.Stop()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping background sweeper.")
			return
		case <-s.ticker.C:
			now := time.Now()
			if now.After(s.nextRun) {
				s.sweep()
				s.nextRun = s.schedule.Next(now)
			}
		}
	}
}

// Stop halts the sweeper.
func (s *Sweeper) Stop() {
	s.done <- true
}

func (s *Sweeper) sweep() {
	purged := s.sessions.PurgeExpired()
	if purged > 0 {
		log.Info().Int("purged", purged).Msg("Sweeper: Purged expired sessions")
	}

	trimmed, err := s.analysisSvc.TrimOlderThan(retainAnalyses)
	if err != nil {
		log.Error().Err(err).Msg("Sweeper: Failed to trim analysis history")
		return
	}
	if trimmed > 0 {
		log.Info().Int64("trimmed", trimmed).Msg("Sweeper: Trimmed old analyses")
	}
}
