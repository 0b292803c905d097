// Package ledger owns every balance and inventory mutation of an account:
// capped currency credits, item grants with charm auto-activation, item
// consumption and charm bookkeeping. Other engines compose the *Tx
// operations inside their own transactions.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/metrics"
	"github.com/osse101/EconomyBot_Go/internal/repository"
)

// WeekendChecker reports whether a guild currently has its weekend boost active.
type WeekendChecker interface {
	IsWeekend(ctx context.Context, guildID string) bool
}

// WeekendFunc adapts a plain function to WeekendChecker.
type WeekendFunc func(ctx context.Context, guildID string) bool

func (f WeekendFunc) IsWeekend(ctx context.Context, guildID string) bool { return f(ctx, guildID) }

// NeverWeekend is a WeekendChecker that always reports false.
var NeverWeekend = WeekendFunc(func(context.Context, string) bool { return false })

// Service defines the ledger operations
type Service interface {
	Credit(ctx context.Context, userID, guildID string, c domain.Currency, amount int64, source domain.Source) (*CreditResult, error)
	Debit(ctx context.Context, userID, guildID string, c domain.Currency, amount int64, source domain.Source) (*CreditResult, error)
	GiveItem(ctx context.Context, userID, guildID, itemID string, qty int64, source domain.Source) (*GrantResult, error)
	TakeItem(ctx context.Context, userID, guildID, itemID string, qty int64) error
	ActivateCharm(ctx context.Context, userID, guildID, charmID string, source domain.Source) (*domain.ActiveCharm, error)
	UseItem(ctx context.Context, userID, guildID, itemID string) (*UseResult, error)
	SweepExpiredCharms(ctx context.Context) (int64, error)
	ResetAccount(ctx context.Context, userID, guildID string) error

	GetAccount(ctx context.Context, userID, guildID string) (*domain.Account, error)
	GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventoryEntry, error)
	GetActiveCharms(ctx context.Context, userID, guildID string) ([]domain.ActiveCharm, error)
	SetAlertThreshold(ctx context.Context, userID, guildID string, threshold int64) error
	SetItemAlertMuted(ctx context.Context, userID, guildID, itemID string, muted bool) error

	// Transaction-scoped building blocks. acct must be the row locked by tx.
	CreditTx(ctx context.Context, tx repository.LedgerTx, acct *domain.Account, c domain.Currency, amount int64, source domain.Source) (*CreditResult, error)
	GiveItemTx(ctx context.Context, tx repository.LedgerTx, acct *domain.Account, itemID string, qty int64, source domain.Source) (*GrantResult, error)
	TakeItemTx(ctx context.Context, tx repository.LedgerTx, acct *domain.Account, itemID string, qty int64) error
}

type service struct {
	repo    repository.Ledger
	cfg     *gameconfig.Config
	weekend WeekendChecker
	bus     event.Bus
	now     func() time.Time
}

// NewService creates a new ledger service
func NewService(repo repository.Ledger, cfg *gameconfig.Config, weekend WeekendChecker, bus event.Bus) Service {
	if weekend == nil {
		weekend = NeverWeekend
	}
	return &service{
		repo:    repo,
		cfg:     cfg,
		weekend: weekend,
		bus:     bus,
		now:     time.Now,
	}
}

// withAccount locks the account row, runs fn and persists the account. Any
// error from fn rolls the whole transaction back.
func (s *service) withAccount(ctx context.Context, userID, guildID string, fn func(tx repository.LedgerTx, acct *domain.Account) error) error {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	acct, err := tx.GetAccountForUpdate(ctx, userID, guildID)
	if err != nil {
		return fmt.Errorf(ErrMsgGetAccountFailed, err)
	}

	if err := fn(tx, acct); err != nil {
		return err
	}

	acct.UpdatedAt = s.now()
	if err := tx.UpdateAccount(ctx, acct); err != nil {
		metrics.TransactionFailures.WithLabelValues("ledger").Inc()
		log.Error(LogMsgTransactionFailed, "critical", true, "user_id", userID, "guild_id", guildID, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrTransactionFailed, fmt.Errorf(ErrMsgUpdateAccountFailed, err))
	}

	if err := tx.Commit(ctx); err != nil {
		metrics.TransactionFailures.WithLabelValues("ledger").Inc()
		log.Error(LogMsgTransactionFailed, "critical", true, "user_id", userID, "guild_id", guildID, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrTransactionFailed, fmt.Errorf(ErrMsgCommitTransactionFailed, err))
	}
	return nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}

// GetAccount returns the stored account, or fresh defaults when the user has
// never been seen. Reads never create rows.
func (s *service) GetAccount(ctx context.Context, userID, guildID string) (*domain.Account, error) {
	acct, err := s.repo.GetAccount(ctx, userID, guildID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return domain.NewAccount(userID, guildID, s.cfg.Global.DefaultAlertRarityThreshold, s.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetAccountFailed, err)
	}
	return acct, nil
}

func (s *service) GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventoryEntry, error) {
	inv, err := s.repo.GetInventory(ctx, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetInventoryFailed, err)
	}
	return inv, nil
}

func (s *service) GetActiveCharms(ctx context.Context, userID, guildID string) ([]domain.ActiveCharm, error) {
	charms, err := s.repo.GetActiveCharms(ctx, userID, guildID, s.now())
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetCharmsFailed, err)
	}
	return charms, nil
}

// SetAlertThreshold sets the minimum rarity a drop needs before it is announced.
func (s *service) SetAlertThreshold(ctx context.Context, userID, guildID string, threshold int64) error {
	if threshold < 0 {
		return fmt.Errorf(ErrMsgNegativeThresholdFmt, threshold, domain.ErrValidation)
	}
	return s.withAccount(ctx, userID, guildID, func(_ repository.LedgerTx, acct *domain.Account) error {
		acct.AlertRarityThreshold = threshold
		return nil
	})
}

// SetItemAlertMuted opts the user in or out of announcements for one item.
func (s *service) SetItemAlertMuted(ctx context.Context, userID, guildID, itemID string, muted bool) error {
	if _, err := s.cfg.Item(itemID); err != nil {
		return err
	}
	return s.withAccount(ctx, userID, guildID, func(_ repository.LedgerTx, acct *domain.Account) error {
		filtered := acct.MutedAlertItems[:0:0]
		for _, id := range acct.MutedAlertItems {
			if id != itemID {
				filtered = append(filtered, id)
			}
		}
		if muted {
			filtered = append(filtered, itemID)
		}
		acct.MutedAlertItems = filtered
		return nil
	})
}

// SweepExpiredCharms deletes every charm whose expiry has passed.
func (s *service) SweepExpiredCharms(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredCharms(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf(ErrMsgSweepCharmsFailed, err)
	}
	if n > 0 {
		logger.FromContext(ctx).Info(LogMsgExpiredCharmsSwept, "count", n)
	}
	return n, nil
}

// ResetAccount deletes the account together with its inventory, charms and
// daily rewards.
func (s *service) ResetAccount(ctx context.Context, userID, guildID string) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.DeleteAccount(ctx, userID, guildID); err != nil {
		return fmt.Errorf(ErrMsgDeleteAccountFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransactionFailed, fmt.Errorf(ErrMsgCommitTransactionFailed, err))
	}

	logger.FromContext(ctx).Info(LogMsgAccountReset, "user_id", userID, "guild_id", guildID)
	return nil
}
