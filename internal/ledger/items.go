package ledger

import (
	"context"
	"fmt"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/metrics"
	"github.com/osse101/EconomyBot_Go/internal/repository"
)

// GrantResult describes where a granted item ended up.
type GrantResult struct {
	ItemID   string               `json:"item_id"`
	Quantity int64                `json:"quantity"`
	Credit   *CreditResult        `json:"credit,omitempty"`
	Charms   []domain.ActiveCharm `json:"charms,omitempty"`
	// SpecialRoleID is set when the grant unlocks an external role.
	SpecialRoleID string `json:"special_role_id,omitempty"`
}

// UseResult describes the effect of using one inventory item.
type UseResult struct {
	ItemID        string              `json:"item_id"`
	Type          domain.ItemType     `json:"type"`
	Charm         *domain.ActiveCharm `json:"charm,omitempty"`
	SpecialRoleID string              `json:"special_role_id,omitempty"`
	Remaining     int64               `json:"remaining"`
}

// GiveItemTx grants qty of itemID. Currency items are routed to the wallet
// through CreditTx, charms from non-admin sources activate immediately (one
// instance per unit) and everything else lands in the inventory.
func (s *service) GiveItemTx(ctx context.Context, tx repository.LedgerTx, acct *domain.Account, itemID string, qty int64, source domain.Source) (*GrantResult, error) {
	if qty <= 0 {
		return nil, fmt.Errorf(ErrMsgInvalidQuantityFmt, qty, domain.ErrInvalidAmount)
	}
	item, err := s.cfg.Item(itemID)
	if err != nil {
		return nil, err
	}

	res := &GrantResult{ItemID: itemID, Quantity: qty}

	switch it := item.(type) {
	case *domain.CurrencyItem:
		credit, err := s.CreditTx(ctx, tx, acct, it.Currency, qty, source)
		if err != nil {
			return nil, err
		}
		res.Credit = credit
		return res, nil

	case *domain.CharmItem:
		if !source.IsAdmin() {
			for i := int64(0); i < qty; i++ {
				charm, err := s.activateCharmTx(ctx, tx, acct, it, source)
				if err != nil {
					return nil, err
				}
				res.Charms = append(res.Charms, *charm)
			}
			return res, nil
		}

	case *domain.TokenItem:
		if s.cfg.IsUltraRare(itemID) {
			acct.CosmicTokenDiscovered = true
			res.SpecialRoleID = it.RoleID
		}
	}

	if err := s.addInventory(ctx, tx, acct, item.Info(), qty); err != nil {
		return nil, err
	}

	metrics.ItemsGranted.WithLabelValues(itemID).Add(float64(qty))
	logger.FromContext(ctx).Debug(LogMsgItemGranted, "user_id", acct.UserID, "guild_id", acct.GuildID, "item_id", itemID, "quantity", qty, "source", source)
	return res, nil
}

func (s *service) addInventory(ctx context.Context, tx repository.LedgerTx, acct *domain.Account, info *domain.ItemBase, qty int64) error {
	held, err := tx.GetInventoryQuantity(ctx, acct.UserID, acct.GuildID, info.ID)
	if err != nil {
		return fmt.Errorf(ErrMsgGetInventoryFailed, err)
	}
	err = tx.SetInventoryQuantity(ctx, domain.InventoryEntry{
		UserID:   acct.UserID,
		GuildID:  acct.GuildID,
		ItemID:   info.ID,
		Quantity: held + qty,
		ItemType: info.Type,
	})
	if err != nil {
		return fmt.Errorf(ErrMsgUpdateInventoryFailed, err)
	}
	return nil
}

// TakeItemTx removes qty of itemID from the inventory. Holding fewer than qty
// fails without any partial effect.
func (s *service) TakeItemTx(ctx context.Context, tx repository.LedgerTx, acct *domain.Account, itemID string, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf(ErrMsgInvalidQuantityFmt, qty, domain.ErrInvalidAmount)
	}
	item, err := s.cfg.Item(itemID)
	if err != nil {
		return err
	}
	info := item.Info()
	if info.Type.IsCurrency() {
		return fmt.Errorf(ErrMsgCurrencyNotStorableFmt, itemID, domain.ErrCurrencyInInventory)
	}

	held, err := tx.GetInventoryQuantity(ctx, acct.UserID, acct.GuildID, itemID)
	if err != nil {
		return fmt.Errorf(ErrMsgGetInventoryFailed, err)
	}
	if held < qty {
		return fmt.Errorf(ErrMsgInsufficientItemsFmt, qty, itemID, held, domain.ErrInsufficientItems)
	}

	err = tx.SetInventoryQuantity(ctx, domain.InventoryEntry{
		UserID:   acct.UserID,
		GuildID:  acct.GuildID,
		ItemID:   itemID,
		Quantity: held - qty,
		ItemType: info.Type,
	})
	if err != nil {
		return fmt.Errorf(ErrMsgUpdateInventoryFailed, err)
	}

	logger.FromContext(ctx).Debug(LogMsgItemTaken, "user_id", acct.UserID, "guild_id", acct.GuildID, "item_id", itemID, "quantity", qty)
	return nil
}

func (s *service) activateCharmTx(ctx context.Context, tx repository.LedgerTx, acct *domain.Account, def *domain.CharmItem, source domain.Source) (*domain.ActiveCharm, error) {
	now := s.now()
	charm := &domain.ActiveCharm{
		UserID:     acct.UserID,
		GuildID:    acct.GuildID,
		CharmID:    def.ID,
		CharmType:  def.CharmType,
		BoostValue: def.Boost,
		Source:     string(source),
		CreatedAt:  now,
	}
	if def.Duration > 0 {
		expires := now.Add(def.Duration)
		charm.ExpiresAt = &expires
	}

	if err := tx.InsertCharm(ctx, charm); err != nil {
		return nil, fmt.Errorf(ErrMsgInsertCharmFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgCharmActivated, "user_id", acct.UserID, "guild_id", acct.GuildID, "charm_id", def.ID, "source", source)
	return charm, nil
}

// GiveItem grants an item in its own transaction. A cosmic token grant also
// requests its special role.
func (s *service) GiveItem(ctx context.Context, userID, guildID, itemID string, qty int64, source domain.Source) (*GrantResult, error) {
	var res *GrantResult
	err := s.withAccount(ctx, userID, guildID, func(tx repository.LedgerTx, acct *domain.Account) error {
		var err error
		res, err = s.GiveItemTx(ctx, tx, acct, itemID, qty, source)
		return err
	})
	if err != nil {
		return nil, err
	}

	if res.SpecialRoleID != "" {
		s.publish(ctx, event.NewRoleSyncEvent(userID, guildID, []string{res.SpecialRoleID}, nil, RoleSyncReasonToken))
	}
	return res, nil
}

func (s *service) TakeItem(ctx context.Context, userID, guildID, itemID string, qty int64) error {
	return s.withAccount(ctx, userID, guildID, func(tx repository.LedgerTx, acct *domain.Account) error {
		return s.TakeItemTx(ctx, tx, acct, itemID, qty)
	})
}

// ActivateCharm activates a charm definition directly, without consuming inventory.
func (s *service) ActivateCharm(ctx context.Context, userID, guildID, charmID string, source domain.Source) (*domain.ActiveCharm, error) {
	item, err := s.cfg.Item(charmID)
	if err != nil {
		return nil, err
	}
	def, ok := item.(*domain.CharmItem)
	if !ok {
		return nil, fmt.Errorf(ErrMsgItemNotUsableFmt, charmID, item.Info().Type, domain.ErrItemNotUsable)
	}

	var charm *domain.ActiveCharm
	err = s.withAccount(ctx, userID, guildID, func(tx repository.LedgerTx, acct *domain.Account) error {
		var err error
		charm, err = s.activateCharmTx(ctx, tx, acct, def, source)
		return err
	})
	if err != nil {
		return nil, err
	}
	return charm, nil
}

// UseItem consumes one unit of an inventory item. Charms activate, the
// cosmic token requests its role, and plain items are simply consumed. Loot
// boxes are opened through the drop engine instead.
func (s *service) UseItem(ctx context.Context, userID, guildID, itemID string) (*UseResult, error) {
	item, err := s.cfg.Item(itemID)
	if err != nil {
		return nil, err
	}
	info := item.Info()

	switch info.Type {
	case domain.ItemTypeLootBox:
		return nil, fmt.Errorf(ErrMsgItemNotUsableFmt, itemID, info.Type, domain.ErrItemNotUsable)
	case domain.ItemTypeCurrency, domain.ItemTypeCurrencyItem:
		return nil, fmt.Errorf(ErrMsgCurrencyNotStorableFmt, itemID, domain.ErrCurrencyInInventory)
	}

	res := &UseResult{ItemID: itemID, Type: info.Type}
	err = s.withAccount(ctx, userID, guildID, func(tx repository.LedgerTx, acct *domain.Account) error {
		if err := s.TakeItemTx(ctx, tx, acct, itemID, 1); err != nil {
			return err
		}

		switch it := item.(type) {
		case *domain.CharmItem:
			charm, err := s.activateCharmTx(ctx, tx, acct, it, domain.SourceInventoryUse)
			if err != nil {
				return err
			}
			res.Charm = charm
		case *domain.TokenItem:
			res.SpecialRoleID = it.RoleID
			if s.cfg.IsUltraRare(itemID) {
				acct.CosmicTokenDiscovered = true
			}
		}

		remaining, err := tx.GetInventoryQuantity(ctx, userID, guildID, itemID)
		if err != nil {
			return fmt.Errorf(ErrMsgGetInventoryFailed, err)
		}
		res.Remaining = remaining
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ItemsUsed.WithLabelValues(itemID).Inc()
	logger.FromContext(ctx).Info(LogMsgItemUsed, "user_id", userID, "guild_id", guildID, "item_id", itemID)

	if res.SpecialRoleID != "" {
		s.publish(ctx, event.NewRoleSyncEvent(userID, guildID, []string{res.SpecialRoleID}, nil, RoleSyncReasonToken))
	}
	return res, nil
}
