// Package progression turns XP into levels and level-role changes.
package progression

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/ledger"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/metrics"
	"github.com/osse101/EconomyBot_Go/internal/repository"
	"github.com/osse101/EconomyBot_Go/internal/utils"
)

// XPResult reports the outcome of an XP or level change.
type XPResult struct {
	Account   *domain.Account `json:"account"`
	LeveledUp bool            `json:"leveled_up"`
	FromLevel int             `json:"from_level"`
	ToLevel   int             `json:"to_level"`
	XPEarned  int64           `json:"xp_earned"`
	RoleSync  RoleDiff        `json:"role_sync"`
}

// Progress is a read-only view of an account's position on the level curve.
type Progress struct {
	Level      int   `json:"level"`
	XP         int64 `json:"xp"`
	Required   int64 `json:"required"`
	MaxLevel   int   `json:"max_level"`
	TotalXP    int64 `json:"total_xp"`
	AtMaxLevel bool  `json:"at_max_level"`
}

// Service defines the progression operations
type Service interface {
	// AddXP awards raw XP. passiveOrManual marks voice and admin awards:
	// they skip the weekend multiplier and the minimum-one rule, and admin
	// awards may be negative.
	AddXP(ctx context.Context, userID, guildID string, raw int64, passiveOrManual bool) (*XPResult, error)
	SetLevel(ctx context.Context, userID, guildID string, level int) (*XPResult, error)
	AddLevels(ctx context.Context, userID, guildID string, delta int) (*XPResult, error)
	Leaderboard(ctx context.Context, guildID string, limit int) ([]domain.LeaderboardEntry, error)
	GetProgress(ctx context.Context, userID, guildID string) (*Progress, error)

	Curve() Curve
	ReconcileRoles(level int, held []string) RoleDiff
}

type service struct {
	repo    repository.Ledger
	cfg     *gameconfig.Config
	curve   Curve
	weekend ledger.WeekendChecker
	bus     event.Bus
	now     func() time.Time
}

// NewService creates a new progression service
func NewService(repo repository.Ledger, cfg *gameconfig.Config, weekend ledger.WeekendChecker, bus event.Bus) Service {
	if weekend == nil {
		weekend = ledger.NeverWeekend
	}
	return &service{
		repo:    repo,
		cfg:     cfg,
		curve:   CurveFromConfig(cfg.Global),
		weekend: weekend,
		bus:     bus,
		now:     time.Now,
	}
}

func (s *service) Curve() Curve { return s.curve }

func (s *service) ReconcileRoles(level int, held []string) RoleDiff {
	return ReconcileRoles(s.cfg.LevelRoles, level, held)
}

// roleDelta is the change in earned level roles between two levels.
func (s *service) roleDelta(from, to int) RoleDiff {
	return ReconcileRoles(s.cfg.LevelRoles, to, EarnedRoles(s.cfg.LevelRoles, from))
}

func (s *service) AddXP(ctx context.Context, userID, guildID string, raw int64, passiveOrManual bool) (*XPResult, error) {
	log := logger.FromContext(ctx)

	if raw <= 0 && !passiveOrManual {
		return &XPResult{}, nil
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	acct, err := tx.GetAccountForUpdate(ctx, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetAccountFailed, err)
	}

	res := &XPResult{Account: acct, FromLevel: acct.Level, ToLevel: acct.Level}
	if acct.Level >= s.curve.MaxLevel && raw > 0 && !passiveOrManual {
		return res, nil
	}

	final := raw
	if raw > 0 {
		charms, err := tx.GetActiveCharms(ctx, userID, guildID, s.now())
		if err != nil {
			return nil, fmt.Errorf(ErrMsgGetCharmsFailed, err)
		}
		final += int64(math.Round(domain.SumBoost(charms, domain.CharmTypeXP)))
	}
	if !passiveOrManual && final > 0 && s.weekend.IsWeekend(ctx, guildID) {
		final = int64(math.Round(float64(final) * s.cfg.Global.WeekendXPMultiplier))
	}
	if raw > 0 && !passiveOrManual && final <= 0 {
		final = 1
	}

	acct.Level, acct.XP = s.curve.Apply(acct.Level, acct.XP, final, passiveOrManual)
	if final > 0 {
		acct.TotalXP += final
	}
	acct.UpdatedAt = s.now()

	if err := s.persist(ctx, tx, acct); err != nil {
		return nil, err
	}

	res.XPEarned = final
	res.ToLevel = acct.Level
	res.LeveledUp = acct.Level > res.FromLevel
	res.RoleSync = s.roleDelta(res.FromLevel, res.ToLevel)

	log.Debug(LogMsgXPAwarded, "user_id", userID, "guild_id", guildID, "raw", raw, "final", final, "level", acct.Level)
	s.announce(ctx, res)
	return res, nil
}

func (s *service) SetLevel(ctx context.Context, userID, guildID string, level int) (*XPResult, error) {
	return s.changeLevel(ctx, userID, guildID, func(current int) int { return level })
}

func (s *service) AddLevels(ctx context.Context, userID, guildID string, delta int) (*XPResult, error) {
	return s.changeLevel(ctx, userID, guildID, func(current int) int { return current + delta })
}

// changeLevel sets the level to target(current), clamped to the curve, and
// resets progress within the level.
func (s *service) changeLevel(ctx context.Context, userID, guildID string, target func(current int) int) (*XPResult, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	acct, err := tx.GetAccountForUpdate(ctx, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetAccountFailed, err)
	}

	res := &XPResult{Account: acct, FromLevel: acct.Level}
	acct.Level = utils.Clamp(target(acct.Level), 0, s.curve.MaxLevel)
	acct.XP = 0
	acct.UpdatedAt = s.now()

	if err := s.persist(ctx, tx, acct); err != nil {
		return nil, err
	}

	res.ToLevel = acct.Level
	res.LeveledUp = res.ToLevel > res.FromLevel
	res.RoleSync = s.roleDelta(res.FromLevel, res.ToLevel)

	logger.FromContext(ctx).Info(LogMsgLevelSet, "user_id", userID, "guild_id", guildID, "from", res.FromLevel, "to", res.ToLevel)
	s.announce(ctx, res)
	return res, nil
}

func (s *service) persist(ctx context.Context, tx repository.LedgerTx, acct *domain.Account) error {
	if err := tx.UpdateAccount(ctx, acct); err != nil {
		metrics.TransactionFailures.WithLabelValues("progression").Inc()
		logger.FromContext(ctx).Error(LogMsgTransactionFailed, "critical", true, "user_id", acct.UserID, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrTransactionFailed, fmt.Errorf(ErrMsgUpdateAccountFailed, err))
	}
	if err := tx.Commit(ctx); err != nil {
		metrics.TransactionFailures.WithLabelValues("progression").Inc()
		logger.FromContext(ctx).Error(LogMsgTransactionFailed, "critical", true, "user_id", acct.UserID, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrTransactionFailed, fmt.Errorf(ErrMsgCommitTransactionFailed, err))
	}
	return nil
}

// announce publishes level and role events after commit.
func (s *service) announce(ctx context.Context, res *XPResult) {
	if res.FromLevel == res.ToLevel || s.bus == nil {
		return
	}
	acct := res.Account
	logger.FromContext(ctx).Info(LogMsgLevelChanged, "user_id", acct.UserID, "guild_id", acct.GuildID, "from", res.FromLevel, "to", res.ToLevel)

	if res.LeveledUp {
		s.publish(ctx, event.NewLevelUpEvent(acct.UserID, acct.GuildID, res.FromLevel, res.ToLevel))
	}
	if len(s.cfg.LevelRoles) > 0 {
		// Published even for an empty delta: the member may be missing
		// roles from an earlier failed grant.
		s.publish(ctx, event.NewLevelRoleSyncEvent(acct.UserID, acct.GuildID, res.ToLevel, res.RoleSync.Added, res.RoleSync.Removed, RoleSyncReasonLevel))
	}
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}

func (s *service) Leaderboard(ctx context.Context, guildID string, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	limit = min(limit, MaxLeaderboardLimit)

	entries, err := s.repo.GetLeaderboard(ctx, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetLeaderboardFailed, err)
	}
	return entries, nil
}

func (s *service) GetProgress(ctx context.Context, userID, guildID string) (*Progress, error) {
	acct, err := s.repo.GetAccount(ctx, userID, guildID)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf(ErrMsgGetAccountFailed, err)
		}
		acct = domain.NewAccount(userID, guildID, s.cfg.Global.DefaultAlertRarityThreshold, s.now())
	}

	p := &Progress{
		Level:      acct.Level,
		XP:         acct.XP,
		MaxLevel:   s.curve.MaxLevel,
		TotalXP:    acct.TotalXP,
		AtMaxLevel: acct.Level >= s.curve.MaxLevel,
	}
	if !p.AtMaxLevel {
		p.Required = s.curve.Requirement(acct.Level)
	}
	return p, nil
}
