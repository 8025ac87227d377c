package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/funchapp/funch-server/internal/config"
	"github.com/funchapp/funch-server/internal/domain/models"
	repo "github.com/funchapp/funch-server/internal/repository/mongodb"
)

// CatalogResolver answers whether a referenced item still exists.
type CatalogResolver interface {
	Resolve(ctx context.Context, ref models.MenuRef) (bool, error)
}

// Scheduler runs the pending-change digest: a periodic sweep that logs
// which periods still carry unconfirmed changes and flags change entries
// whose items have vanished from the catalogue, for operator follow-up.
type Scheduler struct {
	cron    *cron.Cron
	changes repo.ChangeStore
	catalog CatalogResolver
	cfg     config.DigestConfig
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.DigestConfig, changes repo.ChangeStore, catalog CatalogResolver, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:    cron.New(cron.WithLocation(location)),
		changes: changes,
		catalog: catalog,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDigest); err != nil {
		s.logger.Error("failed to schedule pending-change digest", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	periods, err := s.changes.ListPendingPeriods(ctx)
	if err != nil {
		s.logger.Error("failed listing pending periods", zap.Error(err))
		return
	}

	if len(periods) == 0 {
		s.logger.Info("pending-change digest: nothing outstanding")
		return
	}

	var totalEntries, dangling int
	for _, period := range periods {
		cm, err := s.changes.GetChangeMap(ctx, period)
		if err != nil {
			s.logger.Error("failed loading change map",
				zap.String("period", period.String()), zap.Error(err))
			continue
		}

		totalEntries += len(cm.CommonChanges) + len(cm.OriginalChanges)
		dangling += s.countDangling(ctx, period, cm)
	}

	s.logger.Info("pending-change digest",
		zap.Int("periods", len(periods)),
		zap.Int("entries", totalEntries),
		zap.Int("dangling", dangling))
}

func (s *Scheduler) countDangling(ctx context.Context, period models.Period, cm models.ChangeMap) int {
	var count int

	check := func(ref models.MenuRef) {
		known, err := s.catalog.Resolve(ctx, ref)
		if err != nil {
			s.logger.Error("failed resolving reference",
				zap.String("item", ref.String()), zap.Error(err))
			return
		}
		if !known {
			s.logger.Warn("dangling pending reference",
				zap.String("period", period.String()), zap.String("item", ref.String()))
			count++
		}
	}

	for key := range cm.CommonChanges {
		if code, ok := models.ParseStandardKey(key); ok {
			check(models.StandardRef(code))
		}
	}
	for key := range cm.OriginalChanges {
		check(models.OriginalRef(key))
	}

	return count
}
