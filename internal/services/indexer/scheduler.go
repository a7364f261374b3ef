package indexer

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/coquus/internal/common"
)

// Scheduler re-indexes the corpus on a cron schedule so the index tracks
// recipe changes without operator intervention.
type Scheduler struct {
	config  *common.ProcessingConfig
	indexer *Service
	cron    *cron.Cron
	logger  arbor.ILogger
}

// NewScheduler creates a scheduler around an indexer.
func NewScheduler(config *common.ProcessingConfig, indexer *Service, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		config:  config,
		indexer: indexer,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start registers the re-index job and begins the cron loop. Disabled
// processing is a no-op.
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Debug().Msg("Scheduled indexing disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		report, err := s.indexer.IndexAll(context.Background(), false)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Scheduled indexing failed")
			return
		}
		s.logger.Info().
			Int("indexed", report.Indexed).
			Str("provider", report.Provider).
			Msg("Scheduled indexing complete")
	})
	if err != nil {
		return fmt.Errorf("invalid processing schedule %q: %w", s.config.Schedule, err)
	}

	s.cron.Start()
	s.logger.Info().Str("schedule", s.config.Schedule).Msg("Scheduled indexing started")
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
