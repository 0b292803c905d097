// Package notify routes committed economy events to the display layer.
package notify

import (
	"context"

	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/metrics"
)

// Notifier is the narrow surface the engine calls out to. Implementations
// own formatting and delivery.
type Notifier interface {
	NotifyLevelUp(ctx context.Context, p event.LevelUpPayloadV1) error
	NotifyRoleSync(ctx context.Context, p event.RoleSyncPayloadV1) error
	// NotifyDrop announces publicly when p.Public is set and otherwise
	// only tells the recipient.
	NotifyDrop(ctx context.Context, p event.DropPayloadV1) error
	NotifyShopRestock(ctx context.Context, p event.ShopRestockedPayloadV1) error
	NotifyInterestCredited(ctx context.Context, p event.InterestCreditedPayloadV1) error
}

// Dispatcher subscribes to the bus and forwards each event to a Notifier.
// Delivery failures are logged and counted but never returned to the
// publisher: the state change they describe has already committed.
type Dispatcher struct {
	notifier Notifier
}

// NewDispatcher creates a dispatcher for n
func NewDispatcher(n Notifier) *Dispatcher {
	return &Dispatcher{notifier: n}
}

// Register subscribes the dispatcher to every notifiable event type
func (d *Dispatcher) Register(ctx context.Context, bus event.Bus) {
	bus.Subscribe(event.LevelUp, handle(d.notifier.NotifyLevelUp, nil))
	bus.Subscribe(event.RoleSync, handle(d.notifier.NotifyRoleSync, func(p event.RoleSyncPayloadV1) string {
		if !p.Reconcile && len(p.Added) == 0 && len(p.Removed) == 0 {
			return LogMsgNothingToSync
		}
		return ""
	}))
	bus.Subscribe(event.ItemDropped, handle(d.notifier.NotifyDrop, nil))
	bus.Subscribe(event.ShopRestocked, handle(d.notifier.NotifyShopRestock, nil))
	bus.Subscribe(event.InterestCredited, handle(d.notifier.NotifyInterestCredited, func(p event.InterestCreditedPayloadV1) string {
		if p.Amount <= 0 {
			return LogMsgZeroInterest
		}
		return ""
	}))
	logger.FromContext(ctx).Info(LogMsgDispatcherInit)
}

// handle adapts a typed notifier method to an event.Handler. skip returns a
// log message when the event should not be delivered.
func handle[T any](notify func(context.Context, T) error, skip func(T) string) event.Handler {
	return func(ctx context.Context, evt event.Event) error {
		log := logger.FromContext(ctx)

		payload, err := event.DecodePayload[T](evt.Payload)
		if err != nil {
			log.Warn(LogMsgDecodeFailed, "type", evt.Type, "error", err)
			metrics.EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
			return nil
		}
		if skip != nil {
			if msg := skip(payload); msg != "" {
				log.Debug(msg, "type", evt.Type)
				return nil
			}
		}

		if err := notify(ctx, payload); err != nil {
			log.Warn(LogMsgNotifyFailed, "type", evt.Type, "error", err)
			metrics.EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
			return nil
		}
		log.Debug(LogMsgNotified, "type", evt.Type)
		return nil
	}
}
