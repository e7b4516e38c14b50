package broker

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// InMemoryBroker is a process-local Broker for local mode and tests.
// Messages published before any subscriber exists are buffered per topic
// and replayed to the first subscriber, mirroring Kafka's
// consume-from-start behavior closely enough for the agents.
type InMemoryBroker struct {
	mu       sync.Mutex
	subs     map[string][]chan Message
	buffered map[string][]Message
	offsets  map[string]int64
	closed   bool
}

// NewInMemoryBroker creates a new in-memory broker.
func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{
		subs:     make(map[string][]chan Message),
		buffered: make(map[string][]Message),
		offsets:  make(map[string]int64),
	}
}

// Publish delivers the message to every current subscriber of the topic,
// or buffers it when there are none yet.
func (b *InMemoryBroker) Publish(ctx context.Context, topic string, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("broker is closed")
	}

	msg := Message{
		Topic:     topic,
		Key:       key,
		Value:     append([]byte(nil), value...),
		Offset:    b.offsets[topic],
		Timestamp: time.Now().UnixMilli(),
	}
	b.offsets[topic]++

	subs := b.subs[topic]
	if len(subs) == 0 {
		b.buffered[topic] = append(b.buffered[topic], msg)
		return nil
	}
	for _, ch := range subs {
		select {
		case ch <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe registers a consumer channel for the topic. Buffered
// messages are replayed into the channel before new ones arrive.
func (b *InMemoryBroker) Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("broker is closed")
	}

	// Capacity covers the replay backlog plus a window of new messages.
	ch := make(chan Message, len(b.buffered[topic])+100)
	for _, msg := range b.buffered[topic] {
		ch <- msg
	}
	b.buffered[topic] = nil
	b.subs[topic] = append(b.subs[topic], ch)

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, c := range b.subs[topic] {
			if c == ch {
				b.subs[topic] = append(b.subs[topic][:i], b.subs[topic][i+1:]...)
				close(ch)
				break
			}
		}
	}()

	return ch, nil
}

// Close shuts the broker down and closes all subscriber channels.
func (b *InMemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, subs := range b.subs {
		for _, ch := range subs {
			close(ch)
		}
	}
	b.subs = make(map[string][]chan Message)
	return nil
}
