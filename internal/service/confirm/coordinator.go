package confirm

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/funchapp/funch-server/internal/domain/models"
	repo "github.com/funchapp/funch-server/internal/repository/mongodb"
)

// CatalogResolver answers whether a referenced item still exists.
type CatalogResolver interface {
	Resolve(ctx context.Context, ref models.MenuRef) (bool, error)
}

// Coordinator folds pending changes into the committed day and month
// menus. Each period is processed independently: a failure in one never
// rolls back or blocks the others, and a period's change map is cleared
// only after its membership write has succeeded.
type Coordinator struct {
	memberships repo.MembershipStore
	changes     repo.ChangeStore
	catalog     CatalogResolver
	logger      *zap.Logger
}

// NewCoordinator wires a confirmation coordinator instance.
func NewCoordinator(memberships repo.MembershipStore, changes repo.ChangeStore, catalog CatalogResolver, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		memberships: memberships,
		changes:     changes,
		catalog:     catalog,
		logger:      logger,
	}
}

// PeriodFailure records one period whose confirmation failed; its change
// map is left intact so re-invoking confirmation retries it.
type PeriodFailure struct {
	Period models.Period `json:"period"`
	Error  string        `json:"error"`
}

// Report summarizes one confirmation run for the caller, which owns
// retry and user feedback.
type Report struct {
	Confirmed []models.Period  `json:"confirmed"`
	Failed    []PeriodFailure  `json:"failed"`
	Skipped   []models.MenuRef `json:"skipped,omitempty"`
}

// ConfirmAll discovers every period with outstanding changes, days and
// months alike, and confirms each.
func (c *Coordinator) ConfirmAll(ctx context.Context) (Report, error) {
	periods, err := c.changes.ListPendingPeriods(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("discover pending periods: %w", err)
	}
	return c.ConfirmPeriods(ctx, periods), nil
}

// ConfirmPeriods confirms an explicit set of periods. The HTTP confirm
// endpoint uses ConfirmAll for parity with the legacy behavior; this
// scoped variant exists for callers that already know their targets.
func (c *Coordinator) ConfirmPeriods(ctx context.Context, periods []models.Period) Report {
	var report Report

	for _, period := range periods {
		skipped, err := c.confirmPeriod(ctx, period)
		report.Skipped = append(report.Skipped, skipped...)
		if err != nil {
			c.logger.Error("period confirmation failed",
				zap.String("period", period.String()), zap.Error(err))
			report.Failed = append(report.Failed, PeriodFailure{Period: period, Error: err.Error()})
			continue
		}
		report.Confirmed = append(report.Confirmed, period)
	}

	return report
}

// confirmPeriod folds one period's change map into its committed
// membership. The merged result is written as a full overwrite; the
// change map is cleared strictly afterwards.
func (c *Coordinator) confirmPeriod(ctx context.Context, period models.Period) ([]models.MenuRef, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	cm, err := c.changes.GetChangeMap(ctx, period)
	if err != nil {
		return nil, err
	}
	if cm.Empty() {
		// Already confirmed by an earlier (possibly retried) run.
		return nil, c.changes.ClearChangeMap(ctx, period)
	}

	membership, err := c.loadMembership(ctx, period)
	if err != nil {
		return nil, err
	}

	var skipped []models.MenuRef
	apply := func(ref models.MenuRef, pending bool) error {
		if !pending {
			membership.Remove(ref)
			return nil
		}

		known, err := c.catalog.Resolve(ctx, ref)
		if err != nil {
			return err
		}
		if !known {
			// Dangling reference: the item vanished from the catalogue
			// while its add was pending. Skip it, keep confirming.
			c.logger.Warn("skipping dangling menu reference",
				zap.String("period", period.String()), zap.String("item", ref.String()))
			skipped = append(skipped, ref)
			return nil
		}

		membership.Add(ref)
		return nil
	}

	for _, key := range sortedKeys(cm.CommonChanges) {
		code, ok := models.ParseStandardKey(key)
		if !ok {
			c.logger.Warn("skipping malformed change key",
				zap.String("period", period.String()), zap.String("key", key))
			continue
		}
		if err := apply(models.StandardRef(code), cm.CommonChanges[key]); err != nil {
			return skipped, err
		}
	}
	for _, key := range sortedKeys(cm.OriginalChanges) {
		if err := apply(models.OriginalRef(key), cm.OriginalChanges[key]); err != nil {
			return skipped, err
		}
	}

	if err := c.writeMembership(ctx, period, membership); err != nil {
		return skipped, err
	}

	if err := c.changes.ClearChangeMap(ctx, period); err != nil {
		return skipped, err
	}

	c.logger.Info("period confirmed", zap.String("period", period.String()),
		zap.Int("common_items", len(membership.CommonIDs)),
		zap.Int("original_items", len(membership.OriginalIDs)))
	return skipped, nil
}

func (c *Coordinator) loadMembership(ctx context.Context, period models.Period) (models.Membership, error) {
	if period.Kind == models.PeriodMonth {
		return c.memberships.GetMonthMembership(ctx, period.Key)
	}
	return c.memberships.GetDayMembership(ctx, period.Key)
}

func (c *Coordinator) writeMembership(ctx context.Context, period models.Period, m models.Membership) error {
	if period.Kind == models.PeriodMonth {
		return c.memberships.SetMonthMembership(ctx, period.Key, m)
	}
	return c.memberships.SetDayMembership(ctx, period.Key, m)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
