package tui

import (
	"github.com/mmcdole/movied/internal/catalog"
	"github.com/mmcdole/movied/internal/query"
)

// ChannelObserver forwards cache refresh notifications to a channel for
// Bubble Tea. Sends never block; a full channel drops the notification.
type ChannelObserver struct {
	ch  chan query.Key
	sub *query.Subscription
}

// NewChannelObserver subscribes to svc refreshes with a buffered channel
func NewChannelObserver(svc *catalog.Service, size int) *ChannelObserver {
	o := &ChannelObserver{ch: make(chan query.Key, size)}
	o.sub = svc.OnRefresh(o.OnRefresh)
	return o
}

// OnRefresh sends the key to the channel (non-blocking if full)
func (o *ChannelObserver) OnRefresh(k query.Key) {
	select {
	case o.ch <- k:
	default:
	}
}

// C returns the receive side of the channel
func (o *ChannelObserver) C() <-chan query.Key {
	return o.ch
}

// Close stops receiving notifications
func (o *ChannelObserver) Close() {
	o.sub.Unsubscribe()
}
