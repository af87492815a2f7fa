// Package events broadcasts a notification for every completed conversion
// over a mangos pub socket. Subscribers filter on the topic prefix.
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"
	"go.nanomsg.org/mangos/v3/protocol/sub"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"
)

// TopicConversion prefixes every conversion event on the wire.
const TopicConversion = "conversion"

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("publisher closed")

// Event describes one finished conversion.
type Event struct {
	ID         string    `json:"id"`
	Format     string    `json:"format"`
	DocumentID string    `json:"doc_id"`
	Status     string    `json:"status"`
	Triples    int       `json:"triples"`
	Degraded   bool      `json:"degraded"`
	DurationMS int64     `json:"duration_ms"`
	Time       time.Time `json:"time"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Encode renders ev as a topic-prefixed frame.
func Encode(ev Event) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}
	frame := make([]byte, 0, len(TopicConversion)+1+len(payload))
	frame = append(frame, TopicConversion...)
	frame = append(frame, ' ')
	return append(frame, payload...), nil
}

// Decode parses a frame produced by Encode.
func Decode(frame []byte) (Event, error) {
	var ev Event
	topic, payload, ok := bytes.Cut(frame, []byte{' '})
	if !ok || string(topic) != TopicConversion {
		return ev, fmt.Errorf("unexpected event frame topic %q", topic)
	}
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ev, fmt.Errorf("failed to decode event: %w", err)
	}
	return ev, nil
}

// SocketPublisher publishes on a listening pub socket.
type SocketPublisher struct {
	mu     sync.Mutex
	sock   mangos.Socket
	closed bool
}

// NewPublisher opens a pub socket listening on url
// (e.g. tcp://127.0.0.1:40899 or inproc://name). Pub sends never block, so
// no send deadline is set.
func NewPublisher(url string) (*SocketPublisher, error) {
	sock, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create pub socket: %w", err)
	}
	if err := sock.Listen(url); err != nil {
		sock.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", url, err)
	}
	return &SocketPublisher{sock: sock}, nil
}

// Publish sends ev to every connected subscriber. Events are dropped when
// nobody is subscribed.
func (p *SocketPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	frame, err := Encode(ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if err := p.sock.Send(frame); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close closes the socket.
func (p *SocketPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.sock.Close()
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                        { return nil }

// Subscriber receives conversion events from a publisher.
type Subscriber struct {
	sock mangos.Socket
}

// Subscribe dials the publisher at url.
func Subscribe(url string) (*Subscriber, error) {
	sock, err := sub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create sub socket: %w", err)
	}
	if err := sock.SetOption(mangos.OptionSubscribe, []byte(TopicConversion)); err != nil {
		sock.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	if err := sock.Dial(url); err != nil {
		sock.Close()
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return &Subscriber{sock: sock}, nil
}

// Receive waits up to timeout for the next event.
func (s *Subscriber) Receive(timeout time.Duration) (Event, error) {
	if err := s.sock.SetOption(mangos.OptionRecvDeadline, timeout); err != nil {
		return Event{}, err
	}
	frame, err := s.sock.Recv()
	if err != nil {
		return Event{}, err
	}
	return Decode(frame)
}

// Close closes the socket.
func (s *Subscriber) Close() error {
	return s.sock.Close()
}
