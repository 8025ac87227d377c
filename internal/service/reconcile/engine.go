package reconcile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/funchapp/funch-server/internal/domain/models"
	repo "github.com/funchapp/funch-server/internal/repository/mongodb"
)

// ErrUnsupportedAction indicates an event action outside add/remove/revert.
var ErrUnsupportedAction = errors.New("unsupported change action")

// Engine decides the outcome of a single placement or removal gesture
// against one period's committed-plus-pending state. It never mutates
// the committed menu itself; every decision materializes as a change-map
// patch that the confirmation step folds in later.
type Engine struct {
	memberships repo.MembershipStore
	changes     repo.ChangeStore
	logger      *zap.Logger
}

// NewEngine wires a reconciliation engine instance.
func NewEngine(memberships repo.MembershipStore, changes repo.ChangeStore, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		memberships: memberships,
		changes:     changes,
		logger:      logger,
	}
}

// HandleEvent dispatches one UI gesture. Remove and revert gestures
// report no outcome label; their response echoes an empty outcome.
func (e *Engine) HandleEvent(ctx context.Context, period models.Period, event models.ChangeEvent) (models.Outcome, error) {
	switch models.ParseChangeAction(event.Action) {
	case models.ActionAdd:
		return e.ProposeAdd(ctx, period, event.Item)
	case models.ActionRemove:
		return "", e.ProposeRemove(ctx, period, event.Item)
	case models.ActionRevert:
		return "", e.Revert(ctx, period, event.Item)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAction, event.Action)
	}
}

// ProposeAdd decides what dropping an item onto a period means:
//
//   - the item is committed and flagged for removal: the flag is erased
//     and the item revived;
//   - the item is committed with no pending entry: the drop is ignored;
//   - the item is not committed: a pending-add entry is recorded.
//
// Committed membership is read once per call, so two back-to-back adds
// of an uncommitted item both report "added"; the duplicate write sets
// the same key to true and is harmless.
func (e *Engine) ProposeAdd(ctx context.Context, period models.Period, ref models.MenuRef) (models.Outcome, error) {
	if err := validate(period, ref); err != nil {
		return "", err
	}

	membership, err := e.membership(ctx, period)
	if err != nil {
		return "", err
	}

	if !membership.Contains(ref) {
		if err := e.changes.SetChange(ctx, period, ref, true); err != nil {
			return "", err
		}
		e.logger.Debug("pending add recorded", zap.String("period", period.String()), zap.String("item", ref.String()))
		return models.OutcomeAdded, nil
	}

	cm, err := e.changes.GetChangeMap(ctx, period)
	if err != nil {
		return "", err
	}

	if pending, ok := cm.Lookup(ref); ok && !pending {
		if err := e.changes.DeleteChange(ctx, period, ref); err != nil {
			return "", err
		}
		e.logger.Debug("pending removal revived", zap.String("period", period.String()), zap.String("item", ref.String()))
		return models.OutcomeRevived, nil
	}

	// Already present and not marked for removal; re-adding is a no-op.
	return models.OutcomeIgnored, nil
}

// ProposeRemove flags a displayed item for removal. The UI only offers
// removal for items currently displayed, so no membership read is needed:
// the flag is recorded unconditionally.
func (e *Engine) ProposeRemove(ctx context.Context, period models.Period, ref models.MenuRef) error {
	if err := validate(period, ref); err != nil {
		return err
	}

	if err := e.changes.SetChange(ctx, period, ref, false); err != nil {
		return err
	}
	e.logger.Debug("pending removal recorded", zap.String("period", period.String()), zap.String("item", ref.String()))
	return nil
}

// Revert erases an item's pending entry entirely, whatever its value.
// Distinct from ProposeRemove: revert always erases, remove always flags.
func (e *Engine) Revert(ctx context.Context, period models.Period, ref models.MenuRef) error {
	if err := validate(period, ref); err != nil {
		return err
	}

	if err := e.changes.DeleteChange(ctx, period, ref); err != nil {
		return err
	}
	e.logger.Debug("pending change reverted", zap.String("period", period.String()), zap.String("item", ref.String()))
	return nil
}

func (e *Engine) membership(ctx context.Context, period models.Period) (models.Membership, error) {
	if period.Kind == models.PeriodMonth {
		return e.memberships.GetMonthMembership(ctx, period.Key)
	}
	return e.memberships.GetDayMembership(ctx, period.Key)
}

func validate(period models.Period, ref models.MenuRef) error {
	if err := period.Validate(); err != nil {
		return err
	}
	return ref.Validate()
}
