// Package voting implements the per-attempt voting state machine.
//
// The database uniqueness constraint on (user, contest) is the only
// authoritative one-vote guard. The lookup in Resolve is a best-effort
// pre-check for the user's benefit.
package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/logging"
	"github.com/munera-collective/munera-platform/internal/metrics"
	"github.com/munera-collective/munera-platform/internal/models"
	repository "github.com/munera-collective/munera-platform/internal/repositories"
)

type State int

const (
	Unauthenticated State = iota
	AwaitingEmailLink
	AuthenticatedUnchecked
	AlreadyVoted
	CanVote
	VoteSubmitted
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AwaitingEmailLink:
		return "awaiting_email_link"
	case AuthenticatedUnchecked:
		return "authenticated_unchecked"
	case AlreadyVoted:
		return "already_voted"
	case CanVote:
		return "can_vote"
	case VoteSubmitted:
		return "vote_submitted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrAlreadyVoted      = errors.New("already voted in this contest")
	ErrInvalidTransition = errors.New("invalid voting state transition")
)

// Session identifies the signed-in voter.
type Session struct {
	UserID uuid.UUID
	Email  string
}

type LoginRequester interface {
	RequestMagicLink(ctx context.Context, email, redirectTo string) error
}

type VoteStore interface {
	FindVote(ctx context.Context, userID, contestID uuid.UUID) (*models.Vote, error)
	CreateVote(ctx context.Context, vote *models.Vote) error
}

// TallyQueue accepts fire-and-forget tally increments.
type TallyQueue interface {
	Enqueue(contestantID uuid.UUID) bool
}

type Dependencies struct {
	Login LoginRequester
	Votes VoteStore
	Tally TallyQueue
}

type Flow struct {
	mu         sync.Mutex
	deps       Dependencies
	contestant *models.Contestant
	session    *Session
	email      string
	state      State
	vote       *models.Vote
}

// NewFlow starts at Unauthenticated without a session and at
// AuthenticatedUnchecked with one.
func NewFlow(deps Dependencies, contestant *models.Contestant, session *Session) *Flow {
	f := &Flow{deps: deps, contestant: contestant, state: Unauthenticated}

	if session != nil {
		s := *session
		f.session = &s
		f.state = AuthenticatedUnchecked
	}

	return f
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state
}

// Vote returns the recorded vote once the flow reached VoteSubmitted.
func (f *Flow) Vote() *models.Vote {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.vote
}

// RequestLogin sends the email challenge. It may be repeated while waiting
// for the link. On failure the state is left as it was.
func (f *Flow) RequestLogin(ctx context.Context, email, redirectTo string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Unauthenticated && f.state != AwaitingEmailLink {
		return fmt.Errorf("%w: request login from %s", ErrInvalidTransition, f.state)
	}

	if err := f.deps.Login.RequestMagicLink(ctx, email, redirectTo); err != nil {
		return err
	}

	f.email = strings.ToLower(strings.TrimSpace(email))
	f.state = AwaitingEmailLink

	return nil
}

// ResumeLogin rebuilds the awaiting state for a challenge that was already
// sent to email by an earlier request. Nothing is sent.
func (f *Flow) ResumeLogin(email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Unauthenticated && f.state != AwaitingEmailLink {
		return fmt.Errorf("%w: resume login from %s", ErrInvalidTransition, f.state)
	}

	f.email = strings.ToLower(strings.TrimSpace(email))
	f.state = AwaitingEmailLink

	return nil
}

// Authenticate records the established session and resolves the vote status.
func (f *Flow) Authenticate(ctx context.Context, session Session) (State, error) {
	f.mu.Lock()

	switch f.state {
	case Unauthenticated, AwaitingEmailLink, AuthenticatedUnchecked:
	default:
		state := f.state
		f.mu.Unlock()
		return state, fmt.Errorf("%w: authenticate from %s", ErrInvalidTransition, state)
	}

	f.session = &session
	f.state = AuthenticatedUnchecked
	f.mu.Unlock()

	return f.Resolve(ctx)
}

// AwaitSession blocks until a signed-in event for the requested email arrives
// on events, then authenticates with it.
func (f *Flow) AwaitSession(ctx context.Context, events <-chan models.SessionEvent) (State, error) {
	f.mu.Lock()
	email := f.email
	f.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return f.State(), ctx.Err()
		case event, ok := <-events:
			if !ok {
				return f.State(), errors.New("session event stream closed")
			}

			if event.Type != models.SessionSignedIn {
				continue
			}

			if email != "" && !strings.EqualFold(event.Email, email) {
				continue
			}

			return f.Authenticate(ctx, Session{UserID: event.UserID, Email: event.Email})
		}
	}
}

// Resolve looks up an existing vote for (user, contest). Lookup errors other
// than not-found resolve to CanVote since the insert is guarded by the database.
func (f *Flow) Resolve(ctx context.Context) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != AuthenticatedUnchecked {
		return f.state, fmt.Errorf("%w: resolve from %s", ErrInvalidTransition, f.state)
	}

	logger := logging.FromContext(ctx)

	_, err := f.deps.Votes.FindVote(ctx, f.session.UserID, f.contestant.ContestID)

	switch {
	case err == nil, errors.Is(err, repository.ErrMultipleRows):
		f.state = AlreadyVoted
	case errors.Is(err, repository.ErrNotFound):
		f.state = CanVote
	default:
		logger.Warn("Vote pre-check failed, deferring to the database constraint",
			slog.String("userId", f.session.UserID.String()),
			slog.String("error", err.Error()),
		)
		f.state = CanVote
	}

	return f.state, nil
}

// Submit records the vote. It is only valid from CanVote. A uniqueness
// violation moves the flow to AlreadyVoted and returns ErrAlreadyVoted.
func (f *Flow) Submit(ctx context.Context, ipAddress string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != CanVote {
		return fmt.Errorf("%w: submit from %s", ErrInvalidTransition, f.state)
	}

	vote := &models.Vote{
		UserID:       f.session.UserID,
		ContestID:    f.contestant.ContestID,
		ContestantID: f.contestant.ID,
		VotedAt:      time.Now().UTC(),
		IPAddress:    ipAddress,
	}

	if err := f.deps.Votes.CreateVote(ctx, vote); err != nil {
		if repository.IsUniqueViolation(err) {
			f.state = AlreadyVoted
			metrics.VotesTotal.WithLabelValues("already_voted").Inc()
			return ErrAlreadyVoted
		}

		metrics.VotesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("recording vote: %w", err)
	}

	metrics.VotesTotal.WithLabelValues("submitted").Inc()

	// the vote stands whether or not the tally increment is accepted
	if f.deps.Tally != nil && !f.deps.Tally.Enqueue(f.contestant.ID) {
		logging.FromContext(ctx).Error("Tally increment not queued", slog.String("contestantId", f.contestant.ID.String()))
	}

	f.vote = vote
	f.state = VoteSubmitted

	return nil
}
