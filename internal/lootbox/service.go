// Package lootbox is the drop engine: weighted picks over the direct drop
// table and loot box pools, turned into ledger grants.
package lootbox

import (
	"context"
	"fmt"
	"math"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/ledger"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/metrics"
	"github.com/osse101/EconomyBot_Go/internal/repository"
	"github.com/osse101/EconomyBot_Go/internal/utils"
)

// DropResult reports the outcome of a direct chat or voice drop.
type DropResult struct {
	Dropped     bool    `json:"dropped"`
	ItemID      string  `json:"item_id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Emoji       string  `json:"emoji,omitempty"`
	RarityValue int64   `json:"rarity_value,omitempty"`
	Odds        float64 `json:"odds,omitempty"`
	// Announce marks drops the recipient wants broadcast publicly.
	Announce      bool                `json:"announce"`
	SpecialRoleID string              `json:"special_role_id,omitempty"`
	Grant         *ledger.GrantResult `json:"grant,omitempty"`
}

// Reward is a single roll of a loot box.
type Reward struct {
	Kind        domain.PoolEntryKind `json:"kind"`
	ItemID      string               `json:"item_id"`
	Name        string               `json:"name"`
	Emoji       string               `json:"emoji,omitempty"`
	Quantity    int64                `json:"quantity"`
	Credited    int64                `json:"credited,omitempty"`
	RarityValue int64                `json:"rarity_value"`
	Chance      float64              `json:"chance"`
	Alert       bool                 `json:"alert"`
}

// OpenResult collects the rewards of one or more loot boxes of the same type.
type OpenResult struct {
	BoxID         string   `json:"box_id"`
	Opened        int      `json:"opened"`
	Rewards       []Reward `json:"rewards"`
	SpecialRoleID string   `json:"special_role_id,omitempty"`
}

// Summary merges rewards of the same item, keeping first-seen order.
func (r *OpenResult) Summary() []Reward {
	var out []Reward
	index := make(map[string]int)
	for _, rw := range r.Rewards {
		if i, ok := index[rw.ItemID]; ok {
			out[i].Quantity += rw.Quantity
			out[i].Credited += rw.Credited
			out[i].Alert = out[i].Alert || rw.Alert
			continue
		}
		index[rw.ItemID] = len(out)
		out = append(out, rw)
	}
	return out
}

// Alerts returns the rewards flagged for a public announcement.
func (r *OpenResult) Alerts() []Reward {
	var out []Reward
	for _, rw := range r.Rewards {
		if rw.Alert {
			out = append(out, rw)
		}
	}
	return out
}

// IsAlertWorthy decides whether a drop of itemID with the given rarity
// should be broadcast. Muted items never are; the cosmic token always is
// otherwise; everything else must reach the account's positive threshold.
func IsAlertWorthy(acct *domain.Account, itemID string, rarity int64, cosmicTokenID string) bool {
	if acct.IsAlertMuted(itemID) {
		return false
	}
	if itemID == cosmicTokenID {
		return true
	}
	return acct.AlertRarityThreshold > 0 && rarity >= acct.AlertRarityThreshold
}

// Service defines the drop engine
type Service interface {
	DirectDrop(ctx context.Context, userID, guildID string, channel DropChannel) (*DropResult, error)
	// OpenLootBox takes one box from the inventory and applies its rolls.
	OpenLootBox(ctx context.Context, userID, guildID, boxID string) (*OpenResult, error)
	// OpenLootBoxes opens count boxes in a single transaction.
	OpenLootBoxes(ctx context.Context, userID, guildID, boxID string, count int) (*OpenResult, error)
}

type service struct {
	repo   repository.Ledger
	cfg    *gameconfig.Config
	ledger ledger.Service
	bus    event.Bus
	rnd    func() float64
}

// NewService creates a new drop engine
func NewService(repo repository.Ledger, cfg *gameconfig.Config, ledgerSvc ledger.Service, bus event.Bus) Service {
	return &service{
		repo:   repo,
		cfg:    cfg,
		ledger: ledgerSvc,
		bus:    bus,
		rnd:    utils.RandomFloat,
	}
}

func dropWeight(e domain.DropTableEntry) float64 { return e.Weight }

func poolWeight(e domain.PoolEntry) float64 { return e.Probability }

func (s *service) baseChance(channel DropChannel) (float64, error) {
	switch channel {
	case ChannelChat:
		return s.cfg.Global.ChatDropBaseChance, nil
	case ChannelVoice:
		return s.cfg.Global.VoiceDropBaseChance, nil
	}
	return 0, fmt.Errorf(ErrMsgUnknownChannelFmt, channel, domain.ErrValidation)
}

func (s *service) DirectDrop(ctx context.Context, userID, guildID string, channel DropChannel) (*DropResult, error) {
	base, err := s.baseChance(channel)
	if err != nil {
		return nil, err
	}
	if s.rnd() > base {
		return &DropResult{}, nil
	}

	entry, ok := RollWeighted(s.cfg.DirectDrops, dropWeight, s.rnd)
	if !ok || entry.ItemID == s.cfg.Global.NothingDropID {
		return &DropResult{}, nil
	}
	item, err := s.cfg.Item(entry.ItemID)
	if err != nil {
		return nil, err
	}
	info := item.Info()

	res := &DropResult{
		Dropped:     true,
		ItemID:      info.ID,
		Name:        info.Name,
		Emoji:       info.Emoji,
		RarityValue: info.RarityValue,
		Odds:        base * Share(entry.Weight, TotalWeight(s.cfg.DirectDrops, dropWeight)),
	}
	source := domain.SourceDirectDrop.With(info.ID)

	err = s.inTx(ctx, userID, guildID, func(tx repository.LedgerTx, acct *domain.Account) error {
		grant, err := s.ledger.GiveItemTx(ctx, tx, acct, info.ID, 1, source)
		if err != nil {
			return err
		}
		res.Grant = grant
		res.SpecialRoleID = grant.SpecialRoleID
		res.Announce = IsAlertWorthy(acct, info.ID, info.RarityValue, s.cfg.Global.CosmicTokenID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgDirectDrop, "user_id", userID, "guild_id", guildID, "item_id", info.ID, "channel", channel, "odds", res.Odds, "announce", res.Announce)

	s.publish(ctx, event.NewDropEvent(event.DropPayloadV1{
		UserID:   userID,
		GuildID:  guildID,
		ItemID:   info.ID,
		ItemName: info.Name,
		Emoji:    info.Emoji,
		Quantity: 1,
		Rarity:   info.RarityValue,
		Odds:     res.Odds,
		Source:   source,
		Public:   res.Announce,
	}))
	if res.SpecialRoleID != "" {
		s.publish(ctx, event.NewRoleSyncEvent(userID, guildID, []string{res.SpecialRoleID}, nil, ledger.RoleSyncReasonToken))
	}
	return res, nil
}

func (s *service) OpenLootBox(ctx context.Context, userID, guildID, boxID string) (*OpenResult, error) {
	return s.OpenLootBoxes(ctx, userID, guildID, boxID, 1)
}

func (s *service) OpenLootBoxes(ctx context.Context, userID, guildID, boxID string, count int) (*OpenResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf(ErrMsgInvalidOpenCountFmt, count, domain.ErrInvalidAmount)
	}
	box, err := s.cfg.LootBox(boxID)
	if err != nil {
		return nil, err
	}
	if box.MaxUnboxes > 0 && count > box.MaxUnboxes {
		return nil, fmt.Errorf(ErrMsgTooManyBoxesFmt, count, boxID, box.MaxUnboxes, domain.ErrQuantityExceedsMax)
	}
	total := TotalWeight(box.Pool, poolWeight)
	if total <= 0 {
		return nil, fmt.Errorf(ErrMsgEmptyPoolFmt, boxID, domain.ErrInvalidConfiguration)
	}

	res := &OpenResult{BoxID: boxID, Opened: count}
	source := domain.SourceLootBox.With(boxID)

	err = s.inTx(ctx, userID, guildID, func(tx repository.LedgerTx, acct *domain.Account) error {
		if err := s.ledger.TakeItemTx(ctx, tx, acct, boxID, int64(count)); err != nil {
			return err
		}
		for i := 0; i < count*box.NumRolls; i++ {
			entry, _ := RollWeighted(box.Pool, poolWeight, s.rnd)
			reward, err := s.applyRoll(ctx, tx, acct, entry, Share(entry.Probability, total), source)
			if err != nil {
				return err
			}
			if reward.specialRole != "" {
				res.SpecialRoleID = reward.specialRole
			}
			res.Rewards = append(res.Rewards, reward.Reward)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.LootBoxesOpened.WithLabelValues(boxID).Add(float64(count))
	logger.FromContext(ctx).Info(LogMsgLootBoxesOpened, "user_id", userID, "guild_id", guildID, "box_id", boxID, "count", count, "rewards", len(res.Rewards))

	for _, rw := range res.Alerts() {
		s.publish(ctx, event.NewDropEvent(event.DropPayloadV1{
			UserID:   userID,
			GuildID:  guildID,
			ItemID:   rw.ItemID,
			ItemName: rw.Name,
			Emoji:    rw.Emoji,
			Quantity: rw.Quantity,
			Rarity:   rw.RarityValue,
			Odds:     rw.Chance,
			Source:   source,
			Public:   true,
		}))
	}
	if res.SpecialRoleID != "" {
		s.publish(ctx, event.NewRoleSyncEvent(userID, guildID, []string{res.SpecialRoleID}, nil, ledger.RoleSyncReasonToken))
	}
	return res, nil
}

type appliedRoll struct {
	Reward
	specialRole string
}

// applyRoll grants one pool entry. The alert decision uses the rolled
// chance as rarity, so a common item in a rare slot can still alert.
func (s *service) applyRoll(ctx context.Context, tx repository.LedgerTx, acct *domain.Account, entry domain.PoolEntry, chance float64, source domain.Source) (appliedRoll, error) {
	qty := max(utils.UniformInt64(s.rnd(), entry.Min, entry.Max), 1)
	out := appliedRoll{Reward: Reward{
		Kind:        entry.Kind,
		Quantity:    qty,
		RarityValue: entry.RarityValue,
		Chance:      chance,
	}}

	switch entry.Kind {
	case domain.PoolEntryCurrency:
		out.ItemID = string(entry.Currency)
		credit, err := s.ledger.CreditTx(ctx, tx, acct, entry.Currency, qty, source)
		if err != nil {
			return out, err
		}
		out.Credited = credit.ActualAdded
	default:
		out.ItemID = entry.ItemID
		grant, err := s.ledger.GiveItemTx(ctx, tx, acct, entry.ItemID, qty, source)
		if err != nil {
			return out, err
		}
		out.specialRole = grant.SpecialRoleID
	}

	if item, err := s.cfg.Item(out.ItemID); err == nil {
		info := item.Info()
		out.Name = info.Name
		out.Emoji = info.Emoji
		if out.RarityValue == 0 {
			out.RarityValue = info.RarityValue
		}
	}

	decision := out.RarityValue
	if chance > 0 {
		decision = int64(math.Round(1 / chance))
	}
	out.Alert = IsAlertWorthy(acct, out.ItemID, decision, s.cfg.Global.CosmicTokenID)
	return out, nil
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

	if err := tx.UpdateAccount(ctx, acct); err != nil {
		metrics.TransactionFailures.WithLabelValues("lootbox").Inc()
		log.Error(LogMsgTransactionFailed, "critical", true, "user_id", userID, "guild_id", guildID, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrTransactionFailed, fmt.Errorf(ErrMsgUpdateAccountFailed, err))
	}
	if err := tx.Commit(ctx); err != nil {
		metrics.TransactionFailures.WithLabelValues("lootbox").Inc()
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
