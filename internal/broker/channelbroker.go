package broker

import (
	"context"
)

type publication[TID comparable, TPayload any] struct {
	id      TID
	channel chan TPayload
}

type subscription[TID comparable, TPayload any] struct {
	id      TID
	channel chan chan TPayload
}

// ChannelBroker passes a channel with ID from producer to the first consumer.
// The subsequent consumers will block until producer is finished so that they
// can resolve the situation e.g. by re-rendering the current state.
//
// The web server streams timed reveals through it. The producer is a goroutine spawned by the intent POST that
// caused the reveals. The first consumer is the SSE handler for the reveal token. Subsequent consumers are likely
// reconnects after connectivity issues; they wait for the producer to finish and then render the settled screen.
type ChannelBroker[TID comparable, TPayload any] struct {
	done        chan struct{}
	publish     chan publication[TID, TPayload]
	unpublish   chan TID
	subscribe   chan subscription[TID, TPayload]
	subscribers map[TID][]chan chan TPayload
}

// NewChannelBroker creates a new ChannelBroker. Use Run to start handling requests.
func NewChannelBroker[TID comparable, TPayload any]() *ChannelBroker[TID, TPayload] {
	return &ChannelBroker[TID, TPayload]{
		done:        make(chan struct{}),
		publish:     make(chan publication[TID, TPayload]),
		unpublish:   make(chan TID),
		subscribe:   make(chan subscription[TID, TPayload]),
		subscribers: map[TID][]chan chan TPayload{},
	}
}

// Run handles publish, unpublish, and subscribe requests until ctx is done. Once Run returns, every blocked and
// future subscriber is released with a closed channel and publishing becomes a no-op.
func (b *ChannelBroker[TID, TPayload]) Run(ctx context.Context) error {
	published := map[TID]chan TPayload{}
	defer func() {
		close(b.done)
		for _, waiting := range b.subscribers {
			for _, c := range waiting {
				close(c)
			}
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil

		case sub := <-b.subscribe:
			c, ok := published[sub.id]
			if !ok {
				// Signal to the subscriber that the producer is finished (or haven't started yet)
				close(sub.channel)
				break
			}
			waiting, taken := b.subscribers[sub.id]
			if !taken {
				// First subscriber gets the channel from the producer
				b.subscribers[sub.id] = []chan chan TPayload{}
				sub.channel <- c
				break
			}
			// Subsequent subscribers block until the producer is finished
			b.subscribers[sub.id] = append(waiting, sub.channel)

		case pub := <-b.publish:
			published[pub.id] = pub.channel

		case id := <-b.unpublish:
			delete(published, id)
			for _, c := range b.subscribers[id] {
				close(c)
			}
			delete(b.subscribers, id)
		}
	}
}

// Subscribe to the channel with ID. Returns a channel that will receive the channel corresponding to the ID.
// If the channel is not yet published, the returned channel will be closed.
// If there's already a subscriber, the returned channel will block until the producer is finished and then
// close the returned channel.
func (b *ChannelBroker[TID, TPayload]) Subscribe(id TID) chan chan TPayload {
	channel := make(chan chan TPayload, 1)
	select {
	case b.subscribe <- subscription[TID, TPayload]{id: id, channel: channel}:
	case <-b.done:
		close(channel)
	}
	return channel
}

// Publish the channel with ID. The channel will be sent to the first subscriber.
func (b *ChannelBroker[TID, TPayload]) Publish(id TID, channel chan TPayload) {
	select {
	case b.publish <- publication[TID, TPayload]{id: id, channel: channel}:
	case <-b.done:
	}
}

// Unpublish the channel with ID and release the subscribers waiting for it. The first subscriber keeps the
// channel it already received. The producer should close the channel before unpublishing and have a timeout so
// that an absent consumer cannot block it forever.
func (b *ChannelBroker[TID, TPayload]) Unpublish(id TID) {
	select {
	case b.unpublish <- id:
	case <-b.done:
	}
}
