package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/munera-collective/munera-platform/internal/metrics"
	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/internal/realtime"
)

const contestantsTable = "contestants"

type Source interface {
	TopContestants(ctx context.Context, limit int) ([]*models.Contestant, error)
}

type Subscriber interface {
	Subscribe(table string, event realtime.EventType) *realtime.Subscription
}

// Service feeds the projection from the contestants change feed and pushes
// snapshots to watchers.
type Service struct {
	source     Source
	subscriber Subscriber
	projection *Projection
	logger     *slog.Logger

	mu       sync.Mutex
	nextID   uint64
	watchers map[uint64]chan []models.Contestant
	sub      *realtime.Subscription
	done     chan struct{}
}

func NewService(source Source, subscriber Subscriber, size int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		source:     source,
		subscriber: subscriber,
		projection: NewProjection(size),
		logger:     logger.With(slog.String("component", "leaderboard")),
		watchers:   make(map[uint64]chan []models.Contestant),
		done:       make(chan struct{}),
	}
}

// Start subscribes to contestant changes, loads the initial ranking and
// applies changes until ctx is cancelled or Stop is called.
func (s *Service) Start(ctx context.Context) error {
	// subscribe first so nothing between the load and the subscription is lost
	s.sub = s.subscriber.Subscribe(contestantsTable, realtime.All)

	if err := s.Reload(ctx); err != nil {
		s.sub.Unsubscribe()
		return err
	}

	go s.loop(ctx)

	return nil
}

// Reload replaces the projection with a fresh ORDER BY total_votes DESC query.
func (s *Service) Reload(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.source.TopContestants(loadCtx, s.projection.Size())
	if err != nil {
		return fmt.Errorf("loading leaderboard: %w", err)
	}

	entries := make([]models.Contestant, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, *row)
	}

	s.broadcast(s.projection.Reset(entries))

	return nil
}

func (s *Service) loop(ctx context.Context) {
	defer s.closeWatchers()

	for {
		select {
		case <-ctx.Done():
			s.sub.Unsubscribe()
			return
		case <-s.done:
			s.sub.Unsubscribe()
			return
		case change, ok := <-s.sub.C:
			if !ok {
				return
			}
			s.handle(ctx, change)
		}
	}
}

func (s *Service) handle(ctx context.Context, change realtime.Change) {
	switch change.Type {
	case realtime.Insert, realtime.Update:
		var contestant models.Contestant
		if err := change.Decode(&contestant); err != nil {
			s.logger.Warn("Discarding undecodable contestant change", slog.String("error", err.Error()))
			return
		}

		s.broadcast(s.projection.Apply(contestant))

	case realtime.Delete:
		var old models.Contestant
		if err := json.Unmarshal(change.OldRecord, &old); err != nil {
			s.logger.Warn("Discarding undecodable contestant delete", slog.String("error", err.Error()))
			return
		}

		// refill the freed slot from the database
		if s.projection.Remove(old.ID) {
			if err := s.Reload(ctx); err != nil {
				s.logger.Error("Leaderboard reload failed", slog.String("error", err.Error()))
				s.broadcast(s.projection.Top())
			}
		}
	}
}

func (s *Service) Top() []models.Contestant {
	return s.projection.Top()
}

// Watch returns a stream of ranking snapshots starting with the current one.
// The returned func stops the stream.
func (s *Service) Watch() (<-chan []models.Contestant, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	ch := make(chan []models.Contestant, 1)
	ch <- s.projection.Top()
	s.watchers[id] = ch
	metrics.LeaderboardWatchers.Inc()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			if w, ok := s.watchers[id]; ok {
				delete(s.watchers, id)
				close(w)
				metrics.LeaderboardWatchers.Dec()
			}
		})
	}

	return ch, cancel
}

// broadcast keeps only the latest snapshot for slow watchers.
func (s *Service) broadcast(snapshot []models.Contestant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}

		ch <- snapshot
	}
}

func (s *Service) closeWatchers() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ch := range s.watchers {
		delete(s.watchers, id)
		close(ch)
		metrics.LeaderboardWatchers.Dec()
	}
}

func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
