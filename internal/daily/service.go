// Package daily runs the three-slot daily reward track: a 12h shift clock
// for the upcoming rewards, a claim cooldown, the streak and its paid
// restore.
package daily

import (
	"context"
	"errors"
	"fmt"
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

// ClaimResult describes a successful claim.
type ClaimResult struct {
	Reward domain.DailyReward `json:"reward"`
	// Paid is the streak-scaled amount for currency rewards and the item
	// quantity otherwise.
	Paid           int64                `json:"paid"`
	Credit         *ledger.CreditResult `json:"credit,omitempty"`
	Grant          *ledger.GrantResult  `json:"grant,omitempty"`
	PreviousStreak int                  `json:"previous_streak"`
	Streak         int                  `json:"streak"`
	StreakBroken   bool                 `json:"streak_broken"`
	NextClaimAt    time.Time            `json:"next_claim_at"`
	Upcoming       []domain.DailyReward `json:"upcoming"`
}

// RestoreResult describes a paid streak restore.
type RestoreResult struct {
	Streak int                  `json:"streak"`
	Cost   int64                `json:"cost"`
	Credit *ledger.CreditResult `json:"credit,omitempty"`
}

// Status is a read-only view of an account's daily state.
type Status struct {
	Streak           int       `json:"streak"`
	CanClaim         bool      `json:"can_claim"`
	NextClaimAt      time.Time `json:"next_claim_at"`
	LostStreak       int       `json:"lost_streak"`
	RestoreCost      int64     `json:"restore_cost,omitempty"`
	RestoreAvailable bool      `json:"restore_available"`
	RestoreExpiresAt time.Time `json:"restore_expires_at,omitempty"`
}

// Service defines the daily reward operations
type Service interface {
	// GetRewards applies any due shift, fills the empty slots and returns
	// the three upcoming rewards ordered by day.
	GetRewards(ctx context.Context, userID, guildID string) ([]domain.DailyReward, error)
	Claim(ctx context.Context, userID, guildID string) (*ClaimResult, error)
	RestoreStreak(ctx context.Context, userID, guildID string) (*RestoreResult, error)
	Status(ctx context.Context, userID, guildID string) (*Status, error)
	// SweepLapsedStreaks zeroes streaks whose last claim left the streak
	// window and records them as restorable. It returns how many lapsed.
	SweepLapsedStreaks(ctx context.Context) (int, error)
}

type service struct {
	repo   repository.Ledger
	cfg    *gameconfig.Config
	ledger ledger.Service
	bus    event.Bus
	now    func() time.Time
	rnd    func() float64
}

// NewService creates a new daily reward service
func NewService(repo repository.Ledger, cfg *gameconfig.Config, ledgerSvc ledger.Service, bus event.Bus) Service {
	return &service{
		repo:   repo,
		cfg:    cfg,
		ledger: ledgerSvc,
		bus:    bus,
		now:    time.Now,
		rnd:    utils.RandomFloat,
	}
}

func (s *service) GetRewards(ctx context.Context, userID, guildID string) ([]domain.DailyReward, error) {
	var rewards []domain.DailyReward
	err := s.inTx(ctx, userID, guildID, func(tx repository.LedgerTx, acct *domain.Account) error {
		var err error
		rewards, err = s.refreshTx(ctx, tx, acct, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return rewards, nil
}

// refreshTx brings the stored slots up to date. A shift moves day 2 to day 1
// and day 3 to day 2; empty days are then generated from the current streak.
func (s *service) refreshTx(ctx context.Context, tx repository.LedgerTx, acct *domain.Account, now time.Time) ([]domain.DailyReward, error) {
	d := s.cfg.Daily
	log := logger.FromContext(ctx)

	stored, err := tx.GetDailyRewards(ctx, acct.UserID, acct.GuildID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetRewardsFailed, err)
	}
	slots := make(map[int]domain.DailyReward, domain.DailyRewardSlots)
	for _, r := range stored {
		if r.Day >= 1 && r.Day <= domain.DailyRewardSlots {
			slots[r.Day] = r
		}
	}

	shifted := acct.RewardsLastShiftedAt.IsZero() || now.Sub(acct.RewardsLastShiftedAt) >= d.ShiftInterval()
	if shifted {
		next := make(map[int]domain.DailyReward, domain.DailyRewardSlots)
		for day := 2; day <= domain.DailyRewardSlots; day++ {
			if r, ok := slots[day]; ok {
				r.Day = day - 1
				next[day-1] = r
			}
		}
		slots = next
		log.Debug(LogMsgRewardsShifted, "user_id", acct.UserID, "guild_id", acct.GuildID)
	}

	for day := 1; day <= domain.DailyRewardSlots; day++ {
		if _, ok := slots[day]; ok {
			continue
		}
		r, err := Generate(d, acct.DailyStreak, s.rnd)
		if err != nil {
			return nil, err
		}
		r.Day = day
		slots[day] = r
	}

	last := domain.DailyRewardSlots
	if acct.DailyStreak >= d.PremiumMinStreak && slots[last].ID != string(domain.CurrencyRobux) && s.rnd() < d.PremiumChance {
		slots[last] = domain.DailyReward{
			Day:    last,
			Kind:   domain.DailyRewardCurrency,
			ID:     string(domain.CurrencyRobux),
			Amount: utils.UniformInt64(s.rnd(), d.PremiumRange.Min, d.PremiumRange.Max),
		}
		log.Info(LogMsgPremiumRolled, "user_id", acct.UserID, "guild_id", acct.GuildID, "amount", slots[last].Amount)
	}

	out := make([]domain.DailyReward, 0, domain.DailyRewardSlots)
	for day := 1; day <= domain.DailyRewardSlots; day++ {
		out = append(out, slots[day])
	}
	if err := tx.ReplaceDailyRewards(ctx, acct.UserID, acct.GuildID, out); err != nil {
		return nil, fmt.Errorf(ErrMsgReplaceRewardsFailed, err)
	}
	if shifted {
		acct.RewardsLastShiftedAt = now
	}
	return out, nil
}

func (s *service) Claim(ctx context.Context, userID, guildID string) (*ClaimResult, error) {
	d := s.cfg.Daily
	now := s.now()
	res := &ClaimResult{}

	err := s.inTx(ctx, userID, guildID, func(tx repository.LedgerTx, acct *domain.Account) error {
		last := acct.LastDailyClaimAt
		if !last.IsZero() && now.Sub(last) < d.ClaimCooldown() {
			next := last.Add(d.ClaimCooldown())
			return fmt.Errorf(ErrMsgNextClaimFmt, next.UTC().Format(time.RFC3339), domain.ErrAlreadyClaimed)
		}

		rewards, err := s.refreshTx(ctx, tx, acct, now)
		if err != nil {
			return err
		}
		if len(rewards) == 0 || rewards[0].Day != 1 || rewards[0].ID == "" {
			return domain.ErrRewardNotFound
		}
		reward := rewards[0]
		prior := acct.DailyStreak

		switch reward.Kind {
		case domain.DailyRewardCurrency:
			res.Paid = StreakAmount(d, reward, prior)
			credit, err := s.ledger.CreditTx(ctx, tx, acct, domain.Currency(reward.ID), res.Paid, domain.SourceDailyReward)
			if err != nil {
				return err
			}
			res.Credit = credit
		default:
			res.Paid = reward.Amount
			grant, err := s.ledger.GiveItemTx(ctx, tx, acct, reward.ID, reward.Amount, domain.SourceDailyReward)
			if err != nil {
				return err
			}
			res.Grant = grant
		}

		if !last.IsZero() && now.Sub(last) < d.StreakWindow() {
			acct.DailyStreak = prior + 1
			acct.LostStreak = 0
			acct.LostStreakAt = time.Time{}
		} else {
			acct.DailyStreak = 1
			res.StreakBroken = prior > 0
			if prior > 0 {
				acct.LostStreak = prior
				acct.LostStreakAt = now
			} else {
				acct.LostStreak = 0
				acct.LostStreakAt = time.Time{}
			}
		}
		acct.LastDailyClaimAt = now

		res.Reward = reward
		res.PreviousStreak = prior
		res.Streak = acct.DailyStreak
		res.NextClaimAt = now.Add(d.ClaimCooldown())
		res.Upcoming = rewards
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DailyClaims.Inc()
	logger.FromContext(ctx).Info(LogMsgRewardClaimed, "user_id", userID, "guild_id", guildID, "reward_id", res.Reward.ID, "paid", res.Paid, "streak", res.Streak)

	if res.Grant != nil && res.Grant.SpecialRoleID != "" {
		s.publish(ctx, event.NewRoleSyncEvent(userID, guildID, []string{res.Grant.SpecialRoleID}, nil, ledger.RoleSyncReasonToken))
	}
	return res, nil
}

func (s *service) RestoreStreak(ctx context.Context, userID, guildID string) (*RestoreResult, error) {
	d := s.cfg.Daily
	now := s.now()
	var res *RestoreResult
	expired := false

	err := s.inTx(ctx, userID, guildID, func(tx repository.LedgerTx, acct *domain.Account) error {
		n := acct.LostStreak
		if n <= 0 {
			return domain.ErrNoLostStreak
		}
		if now.Sub(acct.LostStreakAt) > d.RestoreWindow() {
			acct.LostStreak = 0
			acct.LostStreakAt = time.Time{}
			expired = true
			return nil
		}

		cost := RestoreCost(d, n)
		if err := ledger.RequireFunds(acct, domain.CurrencyGems, cost); err != nil {
			return err
		}
		res = &RestoreResult{Streak: n, Cost: cost}
		if cost > 0 {
			credit, err := s.ledger.CreditTx(ctx, tx, acct, domain.CurrencyGems, -cost, domain.SourceStreakRestore)
			if err != nil {
				return err
			}
			res.Credit = credit
		}

		acct.DailyStreak = n
		acct.LostStreak = 0
		acct.LostStreakAt = time.Time{}
		acct.LastDailyClaimAt = now.Add(-restoreLastClaimOffsetHours * time.Hour)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	if expired {
		log.Info(LogMsgRestoreExpired, "user_id", userID, "guild_id", guildID)
		return nil, domain.ErrRestoreExpired
	}
	log.Info(LogMsgStreakRestored, "user_id", userID, "guild_id", guildID, "streak", res.Streak, "cost", res.Cost)
	return res, nil
}

func (s *service) Status(ctx context.Context, userID, guildID string) (*Status, error) {
	d := s.cfg.Daily
	now := s.now()

	acct, err := s.repo.GetAccount(ctx, userID, guildID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return &Status{CanClaim: true, NextClaimAt: now}, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetAccountFailed, err)
	}

	st := &Status{Streak: acct.DailyStreak, LostStreak: acct.LostStreak, NextClaimAt: now, CanClaim: true}
	if !acct.LastDailyClaimAt.IsZero() {
		next := acct.LastDailyClaimAt.Add(d.ClaimCooldown())
		if now.Before(next) {
			st.CanClaim = false
			st.NextClaimAt = next
		}
	}
	if acct.LostStreak > 0 {
		st.RestoreExpiresAt = acct.LostStreakAt.Add(d.RestoreWindow())
		st.RestoreAvailable = !now.After(st.RestoreExpiresAt)
		st.RestoreCost = RestoreCost(d, acct.LostStreak)
	}
	return st, nil
}

func (s *service) SweepLapsedStreaks(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)
	now := s.now()
	cutoff := now.Add(-s.cfg.Daily.StreakWindow())

	keys, err := s.repo.ListLapsedStreaks(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgListLapsedFailed, err)
	}

	lapsed := 0
	var errs []error
	for _, key := range keys {
		hit := false
		err := s.inTx(ctx, key.UserID, key.GuildID, func(tx repository.LedgerTx, acct *domain.Account) error {
			// A claim may have landed between the listing and the lock.
			if acct.DailyStreak <= 0 || !acct.LastDailyClaimAt.Before(cutoff) {
				return nil
			}
			acct.LostStreak = acct.DailyStreak
			acct.LostStreakAt = now
			acct.DailyStreak = 0
			hit = true
			return nil
		})
		if err != nil {
			log.Warn(LogMsgSweepFailed, "user_id", key.UserID, "guild_id", key.GuildID, "error", err)
			errs = append(errs, err)
			continue
		}
		if hit {
			lapsed++
			log.Debug(LogMsgStreakLapsed, "user_id", key.UserID, "guild_id", key.GuildID)
		}
	}
	return lapsed, errors.Join(errs...)
}

// inTx locks the account, runs fn and commits.
func (s *service) inTx(ctx context.Context, userID, guildID string, fn func(tx repository.LedgerTx, acct *domain.Account) error) error {
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
		metrics.TransactionFailures.WithLabelValues("daily").Inc()
		log.Error(LogMsgTransactionFailed, "critical", true, "user_id", userID, "guild_id", guildID, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrTransactionFailed, fmt.Errorf(ErrMsgUpdateAccountFailed, err))
	}
	if err := tx.Commit(ctx); err != nil {
		metrics.TransactionFailures.WithLabelValues("daily").Inc()
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
