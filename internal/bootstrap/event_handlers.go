package bootstrap

import (
	"context"

	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/metrics"
	"github.com/osse101/EconomyBot_Go/internal/notify"
)

// RegisterEventHandlers subscribes the metrics collector and, when a
// notifier is available, the notification dispatcher.
func RegisterEventHandlers(ctx context.Context, bus event.Bus, notifier notify.Notifier) {
	metrics.NewEventMetricsCollector().Register(bus)

	log := logger.FromContext(ctx)
	if notifier == nil {
		log.Warn(LogMsgNotificationsDisabled)
	} else {
		notify.NewDispatcher(notifier).Register(ctx, bus)
	}
	log.Info(LogMsgEventHandlersReady, "notifications", notifier != nil)
}
