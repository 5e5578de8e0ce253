// Package realtime fans PostgreSQL row change notifications out to subscribers.
//
// Rows are published by the notify_row_change trigger on the row_changes
// channel as JSON {table, type, record, old_record}.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/munera-collective/munera-platform/internal/metrics"
)

const Channel = "row_changes"

// MaxPayload is the size in bytes postgres refuses a NOTIFY payload at.
const MaxPayload = 8000

type EventType string

const (
	Insert EventType = "INSERT"
	Update EventType = "UPDATE"
	Delete EventType = "DELETE"
	// All matches every event type.
	All EventType = "*"
)

type Change struct {
	Table     string          `json:"table"`
	Type      EventType       `json:"type"`
	Record    json.RawMessage `json:"record"`
	OldRecord json.RawMessage `json:"old_record,omitempty"`
}

// Decode unmarshals the new row into v.
func (c Change) Decode(v any) error {
	return json.Unmarshal(c.Record, v)
}

// notificationSource is the part of *pq.Listener the hub reads from.
type notificationSource interface {
	NotificationChannel() <-chan *pq.Notification
	Close() error
}

type Subscription struct {
	C <-chan Change

	hub   *Hub
	id    uint64
	table string
	event EventType
	ch    chan Change
}

// Unsubscribe stops delivery and closes C. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.hub.remove(s.id)
}

type Hub struct {
	source  notificationSource
	logger  *slog.Logger
	buffer  int
	mu      sync.RWMutex
	nextID  uint64
	subs    map[uint64]*Subscription
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewListener opens a pq.Listener on the row change channel.
func NewListener(dsn string, minReconnect, maxReconnect time.Duration, logger *slog.Logger) (*pq.Listener, error) {
	listener := pq.NewListener(dsn, minReconnect, maxReconnect, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnectionAttemptFailed, pq.ListenerEventDisconnected:
			if err != nil {
				logger.Warn("Realtime listener connection problem", slog.String("error", err.Error()))
			}
		case pq.ListenerEventReconnected:
			logger.Info("Realtime listener reconnected")
		}
	})

	if err := listener.Listen(Channel); err != nil {
		listener.Close()
		return nil, err
	}

	return listener, nil
}

func NewHub(source notificationSource, buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		source:  source,
		logger:  logger.With(slog.String("component", "realtime_hub")),
		buffer:  buffer,
		subs:    make(map[uint64]*Subscription),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Subscribe delivers changes for table filtered by event type (All for every type).
func (h *Hub) Subscribe(table string, event EventType) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	ch := make(chan Change, h.buffer)
	sub := &Subscription{C: ch, hub: h, id: h.nextID, table: table, event: event, ch: ch}
	h.subs[sub.id] = sub

	return sub
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.ch)
	}
}

// Run reads notifications until ctx is cancelled or Close is called.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	defer h.closeAll()

	notifications := h.source.NotificationChannel()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case n, ok := <-notifications:
			if !ok {
				h.logger.Warn("Notification channel closed")
				return
			}

			// nil is sent after a reconnect; rows may have been missed
			if n == nil {
				h.logger.Info("Listener reconnected, change feed may have gaps")
				continue
			}

			h.dispatch(n)
		}
	}
}

func (h *Hub) dispatch(n *pq.Notification) {
	var change Change
	if err := json.Unmarshal([]byte(n.Extra), &change); err != nil {
		h.logger.Warn("Discarding malformed notification", slog.String("channel", n.Channel), slog.String("error", err.Error()))
		return
	}

	change.Type = EventType(strings.ToUpper(string(change.Type)))
	metrics.RealtimeEvents.WithLabelValues(change.Table, string(change.Type)).Inc()

	h.Publish(change)
}

// Publish delivers change to matching subscribers without blocking.
func (h *Hub) Publish(change Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if sub.table != change.Table {
			continue
		}

		if sub.event != All && sub.event != change.Type {
			continue
		}

		select {
		case sub.ch <- change:
		default:
			metrics.RealtimeDropped.Inc()
			h.logger.Warn("Subscriber too slow, change dropped", slog.String("table", change.Table), slog.Uint64("subscription", sub.id))
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}

// Close stops Run, closes every subscription and the source.
func (h *Hub) Close() error {
	var err error

	h.once.Do(func() {
		close(h.done)
		err = h.source.Close()
	})

	return err
}

// Wait blocks until Run has returned.
func (h *Hub) Wait() {
	<-h.stopped
}
