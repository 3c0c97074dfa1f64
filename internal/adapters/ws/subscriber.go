package ws

import (
	"context"
	"encoding/json"

	domainevents "github.com/som23ya/workwale-core/internal/domain/events"
	"github.com/som23ya/workwale-core/pkg/logger"
)

// Forward consumes domain events from sub and broadcasts them to the hub as
// JSON until the channel closes or ctx is canceled. Run it in a goroutine.
func Forward(ctx context.Context, hub *Hub, sub <-chan domainevents.Event) {
	log := logger.Named("ws.forward")
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				log.Warn(ctx, "failed to encode event", logger.Error(err))
				continue
			}
			hub.Broadcast(payload)
		}
	}
}
