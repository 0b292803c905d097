package metrics

import (
	"context"

	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	eventTypes := []event.Type{
		event.LevelUp,
		event.RoleSync,
		event.ItemDropped,
		event.ShopRestocked,
		event.InterestCredited,
		event.WeekendChanged,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.LevelUp:
		LevelUps.Inc()

	case event.ItemDropped:
		payload, err := event.DecodePayload[event.DropPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		if payload.Public {
			DropsAnnounced.WithLabelValues(payload.ItemID).Inc()
		}

	case event.ShopRestocked:
		ShopRestocks.Inc()

	case event.InterestCredited:
		payload, err := event.DecodePayload[event.InterestCreditedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		InterestPaid.WithLabelValues(string(payload.Currency)).Add(float64(payload.Amount))
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
