// Package activity turns chat messages and time spent in voice into XP,
// coins and direct drops.
package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/EconomyBot_Go/internal/cooldown"
	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/ledger"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/lootbox"
	"github.com/osse101/EconomyBot_Go/internal/progression"
	"github.com/osse101/EconomyBot_Go/internal/utils"
)

// XPAwarder is the slice of the progression engine activity needs.
type XPAwarder interface {
	AddXP(ctx context.Context, userID, guildID string, raw int64, passiveOrManual bool) (*progression.XPResult, error)
}

// Crediter credits wallet currency.
type Crediter interface {
	Credit(ctx context.Context, userID, guildID string, c domain.Currency, amount int64, source domain.Source) (*ledger.CreditResult, error)
}

// Dropper rolls direct drops.
type Dropper interface {
	DirectDrop(ctx context.Context, userID, guildID string, channel lootbox.DropChannel) (*lootbox.DropResult, error)
}

// Reward is what one rewarded message or voice interval produced.
type Reward struct {
	UserID  string                `json:"user_id"`
	GuildID string                `json:"guild_id"`
	XP      *progression.XPResult `json:"xp,omitempty"`
	Coins   *ledger.CreditResult  `json:"coins,omitempty"`
	Drop    *lootbox.DropResult   `json:"drop,omitempty"`
}

// ChatResult describes the outcome of one message.
type ChatResult struct {
	OnCooldown bool          `json:"on_cooldown"`
	Remaining  time.Duration `json:"remaining,omitempty"`
	Reward     *Reward       `json:"reward,omitempty"`
}

// Service defines the activity reward operations
type Service interface {
	// HandleMessage rewards a chat message unless the author is still on
	// the chat cooldown.
	HandleMessage(ctx context.Context, userID, guildID string) (*ChatResult, error)
	// HandleVoiceState feeds a gateway voice state into the session registry.
	HandleVoiceState(ctx context.Context, state VoiceState)
	// VoiceTick rewards every session whose last reward is at least one
	// voice interval old.
	VoiceTick(ctx context.Context) ([]Reward, error)
}

type service struct {
	cfg       *gameconfig.Config
	cooldowns cooldown.Service
	xp        XPAwarder
	credits   Crediter
	drops     Dropper
	sessions  *SessionRegistry
	now       func() time.Time
	rnd       func() float64
}

// NewService creates a new activity service
func NewService(cfg *gameconfig.Config, cooldowns cooldown.Service, xp XPAwarder, credits Crediter, drops Dropper, sessions *SessionRegistry) Service {
	if sessions == nil {
		sessions = NewSessionRegistry()
	}
	return &service{
		cfg:       cfg,
		cooldowns: cooldowns,
		xp:        xp,
		credits:   credits,
		drops:     drops,
		sessions:  sessions,
		now:       time.Now,
		rnd:       utils.RandomFloat,
	}
}

func (s *service) HandleMessage(ctx context.Context, userID, guildID string) (*ChatResult, error) {
	log := logger.FromContext(ctx)
	g := s.cfg.Global

	var reward *Reward
	var stepErr error
	err := s.cooldowns.EnforceCooldown(ctx, userID, guildID, domain.ActionChatReward, func() error {
		var err error
		reward, err = s.reward(ctx, userID, guildID, rewardSpec{
			coins:   g.CoinsPerMessage,
			source:  domain.SourceMessage,
			xp:      g.BaseXPPerMessage,
			passive: false,
			channel: lootbox.ChannelChat,
		})
		if reward == nil {
			return err
		}
		// Part of the reward committed, so the cooldown must be stamped.
		stepErr = err
		return nil
	})

	var onCooldown cooldown.ErrOnCooldown
	if errors.As(err, &onCooldown) {
		log.Debug(LogMsgMessageOnCooldown, "user_id", userID, "guild_id", guildID, "remaining", onCooldown.Remaining)
		return &ChatResult{OnCooldown: true, Remaining: onCooldown.Remaining}, nil
	}
	if err != nil {
		return nil, err
	}
	if stepErr != nil {
		log.Warn(LogMsgPartialReward, "user_id", userID, "guild_id", guildID, "error", stepErr)
	}

	log.Debug(LogMsgMessageRewarded, "user_id", userID, "guild_id", guildID, "dropped", reward.Drop != nil && reward.Drop.Dropped)
	return &ChatResult{Reward: reward}, nil
}

func (s *service) HandleVoiceState(ctx context.Context, state VoiceState) {
	switch s.sessions.Update(state, s.now()) {
	case 1:
		logger.FromContext(ctx).Debug(LogMsgVoiceJoined, "user_id", state.UserID, "guild_id", state.GuildID, "channel_id", state.ChannelID)
	case -1:
		logger.FromContext(ctx).Debug(LogMsgVoiceLeft, "user_id", state.UserID, "guild_id", state.GuildID)
	}
}

func (s *service) VoiceTick(ctx context.Context) ([]Reward, error) {
	log := logger.FromContext(ctx)
	g := s.cfg.Global
	now := s.now()

	var rewards []Reward
	var errs []error
	for _, session := range s.sessions.Due(now, g.VoiceInterval()) {
		reward, err := s.reward(ctx, session.UserID, session.GuildID, rewardSpec{
			coins:   g.VoiceCoinsPerInterval,
			source:  domain.SourceVoice,
			xp:      g.VoiceXPPerInterval,
			passive: true,
			channel: lootbox.ChannelVoice,
		})
		if err != nil {
			log.Warn(LogMsgVoiceRewardFailed, "user_id", session.UserID, "guild_id", session.GuildID, "error", err)
			errs = append(errs, fmt.Errorf(ErrMsgVoiceRewardFmt, session.UserID, session.GuildID, err))
			if reward == nil {
				continue
			}
		}
		s.sessions.MarkRewarded(session.UserID, session.GuildID, now)
		log.Debug(LogMsgVoiceRewarded, "user_id", session.UserID, "guild_id", session.GuildID)
		rewards = append(rewards, *reward)
	}

	log.Debug(LogMsgVoiceTick, "rewarded", len(rewards), "failed", len(errs), "tracked", s.sessions.Len())
	return rewards, errors.Join(errs...)
}

type rewardSpec struct {
	coins   gameconfig.Range
	source  domain.Source
	xp      int64
	passive bool
	channel lootbox.DropChannel
}

// reward credits coins, awards XP and rolls a drop, in that order. Each
// step commits on its own. Once a step has committed the partial reward is
// returned alongside the error of the step that failed.
func (s *service) reward(ctx context.Context, userID, guildID string, spec rewardSpec) (*Reward, error) {
	reward := &Reward{UserID: userID, GuildID: guildID}
	partial := func(err error) (*Reward, error) {
		if reward.Coins == nil && reward.XP == nil {
			return nil, err
		}
		return reward, err
	}

	if amount := utils.UniformInt64(s.rnd(), spec.coins.Min, spec.coins.Max); amount > 0 {
		credit, err := s.credits.Credit(ctx, userID, guildID, domain.CurrencyCoins, amount, spec.source)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgCreditCoinsFailed, err)
		}
		reward.Coins = credit
	}

	if spec.xp != 0 {
		xp, err := s.xp.AddXP(ctx, userID, guildID, spec.xp, spec.passive)
		if err != nil {
			return partial(fmt.Errorf(ErrMsgAwardXPFailed, err))
		}
		reward.XP = xp
	}

	drop, err := s.drops.DirectDrop(ctx, userID, guildID, spec.channel)
	if err != nil {
		return partial(fmt.Errorf(ErrMsgDirectDropFailed, err))
	}
	reward.Drop = drop
	return reward, nil
}
