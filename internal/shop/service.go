// Package shop runs each guild's rotating shop: timed restocks with weighted
// discounts, atomic purchases and the weekend stock/discount transition.
package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/ledger"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/lootbox"
	"github.com/osse101/EconomyBot_Go/internal/metrics"
	"github.com/osse101/EconomyBot_Go/internal/repository"
	"github.com/osse101/EconomyBot_Go/internal/utils"
)

// RestockResult describes one restock attempt. Restocked is false when the
// guild was not due and nothing changed.
type RestockResult struct {
	Restocked bool              `json:"restocked"`
	Weekend   bool              `json:"weekend"`
	Slots     []domain.ShopSlot `json:"slots"`
	Alertable []domain.ShopSlot `json:"alertable,omitempty"`
	NextAt    time.Time         `json:"next_at"`
}

// PurchaseOptions tune a purchase.
type PurchaseOptions struct {
	// SimulateOnly quotes the purchase without changing anything.
	SimulateOnly bool
	// ExtraDiscountPercent is added to the buyer's discount charms, for
	// role-based discounts granted by the caller.
	ExtraDiscountPercent float64
}

// PurchaseResult is the quote or receipt of a purchase.
type PurchaseResult struct {
	ItemID          string              `json:"item_id"`
	Quantity        int                 `json:"quantity"`
	Currency        domain.Currency     `json:"currency"`
	UnitPrice       int64               `json:"unit_price"`
	BaseCost        int64               `json:"base_cost"`
	DiscountPercent float64             `json:"discount_percent"`
	TotalCost       int64               `json:"total_cost"`
	NewStock        int                 `json:"new_stock"`
	NewBalance      int64               `json:"new_balance"`
	Simulated       bool                `json:"simulated"`
	Grant           *ledger.GrantResult `json:"grant,omitempty"`
}

// Service defines the shop operations
type Service interface {
	// Restock replaces the guild's slots when the restock interval has
	// elapsed, or unconditionally when forced.
	Restock(ctx context.Context, guildID string, forced bool) (*RestockResult, error)
	Purchase(ctx context.Context, userID, guildID, itemID string, qty int, opts PurchaseOptions) (*PurchaseResult, error)
	Slots(ctx context.Context, guildID string) ([]domain.ShopSlot, error)
	// ApplyWeekendTransition rescales stock and rerolls discounts of the
	// current slots after the guild's weekend flag flipped.
	ApplyWeekendTransition(ctx context.Context, guildID string, isWeekend bool) ([]domain.ShopSlot, error)
	// RestockDue restocks every known guild that is due and returns how
	// many were restocked.
	RestockDue(ctx context.Context) (int, error)
}

type service struct {
	repo      repository.Shop
	guilds    repository.Guild
	cfg       *gameconfig.Config
	ledgerSvc ledger.Service
	weekend   ledger.WeekendChecker
	bus       event.Bus
	now       func() time.Time
	rnd       func() float64
}

// NewService creates a new shop service
func NewService(repo repository.Shop, guilds repository.Guild, cfg *gameconfig.Config, ledgerSvc ledger.Service, weekend ledger.WeekendChecker, bus event.Bus) Service {
	if weekend == nil {
		weekend = ledger.NeverWeekend
	}
	return &service{
		repo:      repo,
		guilds:    guilds,
		cfg:       cfg,
		ledgerSvc: ledgerSvc,
		weekend:   weekend,
		bus:       bus,
		now:       time.Now,
		rnd:       utils.RandomFloat,
	}
}

func (s *service) Slots(ctx context.Context, guildID string) ([]domain.ShopSlot, error) {
	slots, err := s.repo.GetShopSlots(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetSlotsFailed, err)
	}
	return slots, nil
}

// restockInterval honours the guild override when one is set.
func (s *service) restockInterval(ctx context.Context, guildID string) time.Duration {
	if s.guilds != nil {
		settings, err := s.guilds.GetGuildSettings(ctx, guildID)
		if err == nil && settings.RestockIntervalMinutes > 0 {
			return time.Duration(settings.RestockIntervalMinutes) * time.Minute
		}
		if err != nil && !errors.Is(err, domain.ErrGuildSettingsNotFound) {
			logger.FromContext(ctx).Warn(LogMsgRestockFailed, "guild_id", guildID, "error", err)
		}
	}
	return s.cfg.Global.ShopRestockInterval()
}

func (s *service) Restock(ctx context.Context, guildID string, forced bool) (*RestockResult, error) {
	log := logger.FromContext(ctx)
	now := s.now()
	interval := s.restockInterval(ctx, guildID)
	weekend := s.weekend.IsWeekend(ctx, guildID)

	tx, err := s.repo.BeginShopTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	settings, err := tx.GetShopSettingsForUpdate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetSettingsFailed, err)
	}
	if !forced && !settings.LastRestockAt.IsZero() &&
		now.Before(settings.NextRestockAt) && now.Before(settings.LastRestockAt.Add(interval)) {
		log.Debug(LogMsgRestockSkipped, "guild_id", guildID, "next_at", settings.NextRestockAt)
		return &RestockResult{Weekend: weekend, NextAt: settings.NextRestockAt}, nil
	}

	slots := s.rollSlots(guildID, weekend)
	if err := tx.ReplaceShopSlots(ctx, guildID, slots); err != nil {
		return nil, s.txFailed(ctx, guildID, fmt.Errorf(ErrMsgReplaceSlotsFailed, err))
	}
	res := &RestockResult{
		Restocked: true,
		Weekend:   weekend,
		Slots:     slots,
		Alertable: s.alertable(slots),
		NextAt:    now.Add(interval),
	}
	if err := tx.UpsertShopSettings(ctx, domain.ShopSettings{GuildID: guildID, LastRestockAt: now, NextRestockAt: res.NextAt}); err != nil {
		return nil, s.txFailed(ctx, guildID, fmt.Errorf(ErrMsgUpsertSettingsFailed, err))
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, s.txFailed(ctx, guildID, fmt.Errorf(ErrMsgCommitTransactionFailed, err))
	}

	log.Info(LogMsgRestocked, "guild_id", guildID, "slots", len(slots), "alertable", len(res.Alertable), "weekend", weekend, "forced", forced)
	s.publish(ctx, event.NewShopRestockedEvent(event.ShopRestockedPayloadV1{
		GuildID:   guildID,
		Weekend:   weekend,
		Slots:     slots,
		Alertable: res.Alertable,
		NextAt:    res.NextAt,
	}))
	return res, nil
}

// rollSlots runs the appearance trial for every eligible item, shuffles the
// survivors and stocks up to MaxShopSlots of them.
func (s *service) rollSlots(guildID string, weekend bool) []domain.ShopSlot {
	var picked []domain.Item
	for _, item := range s.cfg.ShopEligible() {
		if s.rnd() < item.Info().Shop.AppearanceChance {
			picked = append(picked, item)
		}
	}
	for i := len(picked) - 1; i > 0; i-- {
		j := min(int(s.rnd()*float64(i+1)), i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	if n := s.cfg.Global.MaxShopSlots; n > 0 && len(picked) > n {
		picked = picked[:n]
	}

	mult := s.cfg.Global.WeekendShopStockMultiplier
	slots := make([]domain.ShopSlot, 0, len(picked))
	for i, item := range picked {
		listing := item.Info().Shop
		stock := int(utils.UniformInt64(s.rnd(), int64(listing.StockMin), int64(listing.StockMax)))
		if weekend && mult > 1 {
			stock = scaleStock(stock, mult)
		}
		slot := domain.ShopSlot{
			GuildID:       guildID,
			SlotID:        i + 1,
			ItemID:        item.Info().ID,
			OriginalPrice: listing.BasePrice,
			Stock:         stock,
		}
		s.rollDiscount(&slot, listing, weekend)
		slots = append(slots, slot)
	}
	return slots
}

// rollDiscount resets slot to its base price and, when eligible, applies a
// weighted pick from the period's discount table.
func (s *service) rollDiscount(slot *domain.ShopSlot, listing *domain.ShopListing, weekend bool) {
	slot.OriginalPrice = listing.BasePrice
	slot.CurrentPrice = listing.BasePrice
	slot.DiscountPercent = 0
	slot.DiscountLabel = ""
	slot.IsWeekendSpecial = false

	if !listing.IsRareForShopAlert && !s.cfg.IsUltraRare(slot.ItemID) && !weekend {
		return
	}
	tier, ok := lootbox.RollWeighted(s.cfg.DiscountTiers(weekend), func(t domain.DiscountTier) float64 { return t.Probability }, s.rnd)
	if !ok {
		return
	}
	if tier.Discount <= 0 {
		slot.DiscountLabel = tier.Label
		return
	}

	d := decimal.NewFromFloat(tier.Discount)
	slot.CurrentPrice = decimal.NewFromInt(listing.BasePrice).Mul(decimal.NewFromInt(1).Sub(d)).Round(0).IntPart()
	slot.DiscountPercent = d.Mul(decimal.NewFromInt(percentDivisor)).InexactFloat64()
	slot.DiscountLabel = tier.Label
	if slot.DiscountLabel == "" {
		slot.DiscountLabel = fmt.Sprintf(discountLabelFmt, d.Mul(decimal.NewFromInt(percentDivisor)).Round(0).IntPart())
	}
	if weekend {
		slot.IsWeekendSpecial = true
		if !strings.Contains(strings.ToLower(slot.DiscountLabel), weekendDealMarker) {
			slot.DiscountLabel = fmt.Sprintf(weekendDealFmt, slot.DiscountLabel)
		}
	}
}

func (s *service) alertable(slots []domain.ShopSlot) []domain.ShopSlot {
	threshold := s.cfg.Global.AlertWorthyDiscount * percentDivisor
	var out []domain.ShopSlot
	for _, slot := range slots {
		if slot.Stock > 0 && (slot.IsWeekendSpecial || (slot.DiscountPercent > 0 && slot.DiscountPercent >= threshold)) {
			out = append(out, slot)
		}
	}
	return out
}

func scaleStock(stock int, mult float64) int {
	return int(decimal.NewFromInt(int64(stock)).Mul(decimal.NewFromFloat(mult)).Round(0).IntPart())
}

func (s *service) Purchase(ctx context.Context, userID, guildID, itemID string, qty int, opts PurchaseOptions) (*PurchaseResult, error) {
	log := logger.FromContext(ctx)

	if qty <= 0 {
		return nil, fmt.Errorf(ErrMsgInvalidQuantityFmt, qty, domain.ErrInvalidAmount)
	}
	if limit := s.cfg.MaxPurchase(itemID); limit > 0 && qty > limit {
		return nil, fmt.Errorf(ErrMsgQuantityOverMaxFmt, qty, limit, domain.ErrQuantityExceedsMax)
	}
	item, err := s.cfg.Item(itemID)
	if err != nil || item.Info().Shop == nil {
		return nil, fmt.Errorf(ErrMsgNotListedFmt, itemID, domain.ErrNotInShop)
	}
	listing := item.Info().Shop
	currency := listing.PriceCurrency
	if currency == "" {
		currency = domain.CurrencyCoins
	}

	tx, err := s.repo.BeginShopTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	acct, err := tx.GetAccountForUpdate(ctx, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetAccountFailed, err)
	}
	slots, err := tx.GetShopSlotsForUpdate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetSlotsFailed, err)
	}
	idx := -1
	for i := range slots {
		if slots[i].ItemID == itemID && (idx < 0 || slots[i].Stock > slots[idx].Stock) {
			idx = i
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf(ErrMsgNotListedFmt, itemID, domain.ErrNotInShop)
	}
	slot := slots[idx]
	if slot.Stock < qty {
		return nil, fmt.Errorf(ErrMsgStockFmt, qty, slot.Stock, domain.ErrInsufficientStock)
	}

	charms, err := tx.GetActiveCharms(ctx, userID, guildID, s.now())
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetCharmsFailed, err)
	}
	pct := min(float64(maxDiscountPercent), domain.SumBoost(charms, domain.CharmTypeDiscount)+opts.ExtraDiscountPercent)

	base := slot.CurrentPrice * int64(qty)
	total := base
	if pct > 0 {
		off := decimal.NewFromInt(base).Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(percentDivisor)).Round(0).IntPart()
		total = max(0, base-off)
	}
	if err := ledger.RequireFunds(acct, currency, total); err != nil {
		return nil, err
	}

	res := &PurchaseResult{
		ItemID:          itemID,
		Quantity:        qty,
		Currency:        currency,
		UnitPrice:       slot.CurrentPrice,
		BaseCost:        base,
		DiscountPercent: pct,
		TotalCost:       total,
		NewStock:        slot.Stock - qty,
		NewBalance:      acct.Balance(currency) - total,
	}
	if opts.SimulateOnly {
		res.Simulated = true
		return res, nil
	}

	source := domain.SourceShopPurchase.With(itemID)
	if total > 0 {
		credit, err := s.ledgerSvc.CreditTx(ctx, tx, acct, currency, -total, source)
		if err != nil {
			return nil, err
		}
		if credit.ActualAdded != -total {
			return nil, s.txFailed(ctx, guildID, fmt.Errorf(ErrMsgShortDebitFmt, total, currency, -credit.ActualAdded, domain.ErrTransactionFailed))
		}
	}

	slot.Stock -= qty
	if err := tx.UpdateShopSlot(ctx, slot); err != nil {
		return nil, s.txFailed(ctx, guildID, fmt.Errorf(ErrMsgUpdateSlotFailed, err))
	}
	grant, err := s.ledgerSvc.GiveItemTx(ctx, tx, acct, itemID, int64(qty), source)
	if err != nil {
		return nil, s.txFailed(ctx, guildID, err)
	}
	res.Grant = grant
	res.NewBalance = acct.Balance(currency)

	acct.UpdatedAt = s.now()
	if err := tx.UpdateAccount(ctx, acct); err != nil {
		return nil, s.txFailed(ctx, guildID, fmt.Errorf(ErrMsgUpdateAccountFailed, err))
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, s.txFailed(ctx, guildID, fmt.Errorf(ErrMsgCommitTransactionFailed, err))
	}

	metrics.ShopPurchases.WithLabelValues(itemID).Add(float64(qty))
	log.Info(LogMsgPurchased, "user_id", userID, "guild_id", guildID, "item_id", itemID, "quantity", qty, "total", total, "currency", currency)
	if grant.SpecialRoleID != "" {
		s.publish(ctx, event.NewRoleSyncEvent(userID, guildID, []string{grant.SpecialRoleID}, nil, ledger.RoleSyncReasonToken))
	}
	return res, nil
}

func (s *service) ApplyWeekendTransition(ctx context.Context, guildID string, isWeekend bool) ([]domain.ShopSlot, error) {
	tx, err := s.repo.BeginShopTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	slots, err := tx.GetShopSlotsForUpdate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetSlotsFailed, err)
	}

	mult := s.cfg.Global.WeekendShopStockMultiplier
	for i := range slots {
		slot := &slots[i]
		item, err := s.cfg.Item(slot.ItemID)
		if err != nil || item.Info().Shop == nil {
			// delisted since the last restock; leave it until the next one
			continue
		}
		listing := item.Info().Shop

		switch {
		case isWeekend && !slot.IsWeekendSpecial && mult > 1:
			slot.Stock = scaleStock(slot.Stock, mult)
		case !isWeekend && slot.IsWeekendSpecial && mult > 1:
			scaled := decimal.NewFromInt(int64(slot.Stock)).Div(decimal.NewFromFloat(mult)).Round(0).IntPart()
			slot.Stock = max(int(scaled), listing.StockMin, 1)
		}
		s.rollDiscount(slot, listing, isWeekend)

		if err := tx.UpdateShopSlot(ctx, *slot); err != nil {
			return nil, s.txFailed(ctx, guildID, fmt.Errorf(ErrMsgUpdateSlotFailed, err))
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, s.txFailed(ctx, guildID, fmt.Errorf(ErrMsgCommitTransactionFailed, err))
	}

	logger.FromContext(ctx).Info(LogMsgWeekendApplied, "guild_id", guildID, "weekend", isWeekend, "slots", len(slots))
	return slots, nil
}

func (s *service) RestockDue(ctx context.Context) (int, error) {
	guilds, err := s.guilds.ListGuildSettings(ctx)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgListGuildsFailed, err)
	}

	restocked := 0
	var errs []error
	for _, g := range guilds {
		res, err := s.Restock(ctx, g.GuildID, false)
		if err != nil {
			logger.FromContext(ctx).Warn(LogMsgRestockFailed, "guild_id", g.GuildID, "error", err)
			errs = append(errs, err)
			continue
		}
		if res.Restocked {
			restocked++
		}
	}
	return restocked, errors.Join(errs...)
}

func (s *service) txFailed(ctx context.Context, guildID string, err error) error {
	metrics.TransactionFailures.WithLabelValues("shop").Inc()
	logger.FromContext(ctx).Error(LogMsgTransactionFailed, "critical", true, "guild_id", guildID, "error", err)
	if errors.Is(err, domain.ErrTransactionFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrTransactionFailed, err)
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}
