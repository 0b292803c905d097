package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"`
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Economy event types
const (
	LevelUp          Type = "progression.level_up"
	RoleSync         Type = "progression.role_sync"
	ItemDropped      Type = "drop.item_dropped"
	ShopRestocked    Type = "shop.restocked"
	InterestCredited Type = "bank.interest_credited"
	WeekendChanged   Type = "guild.weekend_changed"
)

// LevelUpPayloadV1 is published after a level change commits.
type LevelUpPayloadV1 struct {
	UserID    string `json:"user_id"`
	GuildID   string `json:"guild_id"`
	FromLevel int    `json:"from_level"`
	ToLevel   int    `json:"to_level"`
}

// RoleSyncPayloadV1 lists external roles to grant and revoke. When
// Reconcile is set, Added and Removed are only the change between levels
// and the receiver should reconcile the member's held roles against Level.
type RoleSyncPayloadV1 struct {
	UserID    string   `json:"user_id"`
	GuildID   string   `json:"guild_id"`
	Added     []string `json:"added,omitempty"`
	Removed   []string `json:"removed,omitempty"`
	Reason    string   `json:"reason,omitempty"`
	Level     int      `json:"level"`
	Reconcile bool     `json:"reconcile,omitempty"`
}

// DropPayloadV1 describes a direct drop or an alert-worthy loot box reward.
// Public drops are broadcast; the rest only reach the recipient.
type DropPayloadV1 struct {
	UserID   string        `json:"user_id"`
	GuildID  string        `json:"guild_id"`
	ItemID   string        `json:"item_id"`
	ItemName string        `json:"item_name"`
	Emoji    string        `json:"emoji,omitempty"`
	Quantity int64         `json:"quantity"`
	Rarity   int64         `json:"rarity"`
	Odds     float64       `json:"odds"`
	Source   domain.Source `json:"source"`
	Public   bool          `json:"public"`
}

// ShopRestockedPayloadV1 carries the new shop inventory and the slots worth an alert.
type ShopRestockedPayloadV1 struct {
	GuildID   string            `json:"guild_id"`
	Weekend   bool              `json:"weekend"`
	Slots     []domain.ShopSlot `json:"slots"`
	Alertable []domain.ShopSlot `json:"alertable,omitempty"`
	NextAt    time.Time         `json:"next_at"`
}

// InterestCreditedPayloadV1 is published once per account per interest run.
type InterestCreditedPayloadV1 struct {
	UserID     string          `json:"user_id"`
	GuildID    string          `json:"guild_id"`
	Currency   domain.Currency `json:"currency"`
	Amount     int64           `json:"amount"`
	NewBalance int64           `json:"new_balance"`
}

// WeekendChangedPayloadV1 is published when a guild enters or leaves the weekend window.
type WeekendChangedPayloadV1 struct {
	GuildID string `json:"guild_id"`
	Active  bool   `json:"active"`
}

// NewLevelUpEvent creates a level up event
func NewLevelUpEvent(userID, guildID string, from, to int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LevelUp,
		Payload: LevelUpPayloadV1{UserID: userID, GuildID: guildID, FromLevel: from, ToLevel: to},
	}
}

// NewRoleSyncEvent creates a role sync event
func NewRoleSyncEvent(userID, guildID string, added, removed []string, reason string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RoleSync,
		Payload: RoleSyncPayloadV1{UserID: userID, GuildID: guildID, Added: added, Removed: removed, Reason: reason},
	}
}

// NewLevelRoleSyncEvent creates a role sync event that asks the receiver to
// reconcile the member's level roles against level.
func NewLevelRoleSyncEvent(userID, guildID string, level int, added, removed []string, reason string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RoleSync,
		Payload: RoleSyncPayloadV1{
			UserID:    userID,
			GuildID:   guildID,
			Added:     added,
			Removed:   removed,
			Reason:    reason,
			Level:     level,
			Reconcile: true,
		},
	}
}

// NewDropEvent creates a drop announcement event
func NewDropEvent(payload DropPayloadV1) Event {
	return Event{
		Version:  EventSchemaVersion,
		Type:     ItemDropped,
		Payload:  payload,
		Metadata: map[string]interface{}{MetadataKeySource: string(payload.Source)},
	}
}

// NewShopRestockedEvent creates a shop restock event
func NewShopRestockedEvent(payload ShopRestockedPayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ShopRestocked,
		Payload: payload,
	}
}

// NewInterestCreditedEvent creates an interest credited event
func NewInterestCreditedEvent(userID, guildID string, currency domain.Currency, amount, newBalance int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    InterestCredited,
		Payload: InterestCreditedPayloadV1{
			UserID:     userID,
			GuildID:    guildID,
			Currency:   currency,
			Amount:     amount,
			NewBalance: newBalance,
		},
	}
}

// NewWeekendChangedEvent creates a weekend transition event
func NewWeekendChangedEvent(guildID string, active bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    WeekendChanged,
		Payload: WeekendChangedPayloadV1{GuildID: guildID, Active: active},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously
// in subscription order.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
