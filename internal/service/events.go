package service

import (
	"context"
	"strconv"

	"github.com/Skotchmaster/game_shop/internal/events"
	"github.com/Skotchmaster/game_shop/internal/logging"
)

// publish emits an event and only logs a delivery failure.
func publish(ctx context.Context, p events.Publisher, topic string, key uint, event map[string]any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, strconv.FormatUint(uint64(key), 10), event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "type", event["type"], "error", err)
	}
}
