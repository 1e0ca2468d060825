package live

import (
	"context"

	"github.com/Sam414141/Digital-MenuCard-sub001/logger"
)

// Poker is anything that can be asked to refresh now; poll.Poller is one
type Poker interface {
	Poke()
}

// Bridge pokes every target on each event until ctx is done or the source
// closes. A nil source or a failed subscription returns at once, leaving
// the pollers on their regular interval.
func Bridge(ctx context.Context, src Source, targets ...Poker) error {
	log := logger.New("live")
	if src == nil {
		return nil
	}
	events, err := src.Subscribe(ctx)
	if err != nil {
		log.Warn("live_unavailable_polling_only", err, nil)
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				log.Warn("live_closed_polling_only", nil, nil)
				return nil
			}
			log.Debug("live_event", map[string]any{"type": ev.Type, "order_id": ev.OrderID, "status": ev.Status})
			for _, t := range targets {
				t.Poke()
			}
		}
	}
}
