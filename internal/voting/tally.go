package voting

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/metrics"
)

type TallyIncrementer interface {
	IncrementVote(ctx context.Context, contestantID uuid.UUID) error
}

// TallyUpdater applies vote tally increments on a single background worker.
// Failures are logged and counted, never retried and never reported back to
// the voter.
type TallyUpdater struct {
	incrementer TallyIncrementer
	queue       chan uuid.UUID
	timeout     time.Duration
	logger      *slog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewTallyUpdater(incrementer TallyIncrementer, size int, timeout time.Duration, logger *slog.Logger) *TallyUpdater {
	if size <= 0 {
		size = 1
	}

	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	u := &TallyUpdater{
		incrementer: incrementer,
		queue:       make(chan uuid.UUID, size),
		timeout:     timeout,
		logger:      logger.With(slog.String("component", "tally_updater")),
		done:        make(chan struct{}),
	}

	go u.run()

	return u
}

// Enqueue never blocks. It returns false when the queue is full or closed.
func (u *TallyUpdater) Enqueue(contestantID uuid.UUID) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()

	if u.closed {
		metrics.TallyIncrementFailures.Inc()
		u.logger.Error("Tally updater closed, increment dropped", slog.String("contestantId", contestantID.String()))
		return false
	}

	select {
	case u.queue <- contestantID:
		return true
	default:
		metrics.TallyIncrementFailures.Inc()
		u.logger.Error("Tally queue full, increment dropped", slog.String("contestantId", contestantID.String()))
		return false
	}
}

func (u *TallyUpdater) run() {
	defer close(u.done)

	for contestantID := range u.queue {
		u.apply(contestantID)
	}
}

func (u *TallyUpdater) apply(contestantID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
	defer cancel()

	if err := u.incrementer.IncrementVote(ctx, contestantID); err != nil {
		metrics.TallyIncrementFailures.Inc()
		u.logger.Error("Vote tally increment failed",
			slog.String("contestantId", contestantID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	u.logger.Debug("Vote tally incremented", slog.String("contestantId", contestantID.String()))
}

// Close stops accepting increments and waits for queued ones to drain.
func (u *TallyUpdater) Close() {
	u.mu.Lock()
	if !u.closed {
		u.closed = true
		close(u.queue)
	}
	u.mu.Unlock()

	<-u.done
}
