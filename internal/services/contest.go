package service

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/models"
	repository "github.com/munera-collective/munera-platform/internal/repositories"
	"github.com/munera-collective/munera-platform/internal/voting"
	"github.com/munera-collective/munera-platform/pkg/storage"
)

const (
	defaultContestName     = "Default Contest"
	defaultContestDuration = 30 * 24 * time.Hour
)

// SessionSource streams sign-in events for voters waiting on their email link.
type SessionSource interface {
	Subscribe() (<-chan models.SessionEvent, func())
}

type ContestService interface {
	ListContestants(ctx context.Context) ([]*models.Contestant, error)
	GetContestant(ctx context.Context, id uuid.UUID) (*models.Contestant, error)
	CreateContestant(ctx context.Context, req *models.CreateContestantRequest) (*models.Contestant, error)
	UpdateContestant(ctx context.Context, id uuid.UUID, req *models.UpdateContestantRequest) (*models.Contestant, error)
	DeleteContestant(ctx context.Context, id uuid.UUID) error
	UploadPhoto(ctx context.Context, id uuid.UUID, upload *Upload) (*models.Contestant, error)

	// VoteStatus resolves where the caller stands for the contestant. A nil
	// session reports unauthenticated.
	VoteStatus(ctx context.Context, contestantID uuid.UUID, session *voting.Session) (*models.VoteStatus, error)
	RequestVoteLogin(ctx context.Context, contestantID uuid.UUID, req *models.VoteLoginRequest) (*models.VoteStatus, error)
	// AwaitVoteSession blocks until email signs in or ctx ends.
	AwaitVoteSession(ctx context.Context, contestantID uuid.UUID, email string) (*models.VoteStatus, error)
	SubmitVote(ctx context.Context, contestantID uuid.UUID, session voting.Session, ipAddress string) (*models.VoteStatus, error)
}

type contestService struct {
	contests repository.ContestRepository
	votes    repository.VoteRepository
	login    voting.LoginRequester
	sessions SessionSource
	tally    voting.TallyQueue
	storage  storage.Storage
	policy   *bluemonday.Policy
}

func NewContestService(contests repository.ContestRepository, votes repository.VoteRepository, login voting.LoginRequester, sessions SessionSource, tally voting.TallyQueue, storage storage.Storage) ContestService {
	return &contestService{
		contests: contests,
		votes:    votes,
		login:    login,
		sessions: sessions,
		tally:    tally,
		storage:  storage,
		policy:   bluemonday.StrictPolicy(),
	}
}

func (s *contestService) deps() voting.Dependencies {
	return voting.Dependencies{Login: s.login, Votes: s.votes, Tally: s.tally}
}

func (s *contestService) ListContestants(ctx context.Context) ([]*models.Contestant, error) {
	contestants, err := s.contests.ListContestants(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch contestants").WithError(err)
	}

	return contestants, nil
}

func (s *contestService) GetContestant(ctx context.Context, id uuid.UUID) (*models.Contestant, error) {
	contestant, err := s.contests.GetContestantByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Contestant not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch contestant").WithError(err)
	}

	return contestant, nil
}

// currentEdition returns the latest contest edition, opening a default one
// for the next 30 days when none exists.
func (s *contestService) currentEdition(ctx context.Context) (*models.ContestEdition, error) {
	edition, err := s.contests.LatestEdition(ctx)
	if err == nil {
		return edition, nil
	}

	if !stdErrors.Is(err, repository.ErrNotFound) {
		return nil, errors.DatabaseError("Failed to fetch contest").WithError(err)
	}

	now := time.Now().UTC()
	edition = &models.ContestEdition{
		Name:      defaultContestName,
		StartDate: now,
		EndDate:   now.Add(defaultContestDuration),
		Status:    models.ContestStatusActive,
	}

	if err := s.contests.CreateEdition(ctx, edition); err != nil {
		return nil, errors.DatabaseError("Failed to create contest").WithError(err)
	}

	return edition, nil
}

func (s *contestService) CreateContestant(ctx context.Context, req *models.CreateContestantRequest) (*models.Contestant, error) {
	contestant := &models.Contestant{
		Name:          strings.TrimSpace(req.Name),
		Bio:           s.policy.Sanitize(req.Bio),
		PhotoURL:      req.PhotoURL,
		SoundcloudURL: req.SoundcloudURL,
		InstagramURL:  req.InstagramURL,
	}

	if req.ContestID != nil {
		contestant.ContestID = *req.ContestID
	} else {
		edition, err := s.currentEdition(ctx)
		if err != nil {
			return nil, err
		}
		contestant.ContestID = edition.ID
	}

	if err := s.contests.CreateContestant(ctx, contestant); err != nil {
		return nil, errors.DatabaseError("Failed to create contestant").WithError(err)
	}

	return contestant, nil
}

func (s *contestService) save(ctx context.Context, contestant *models.Contestant) error {
	if err := s.contests.UpdateContestant(ctx, contestant); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Contestant not found").WithError(err)
		}

		return errors.DatabaseError("Failed to update contestant").WithError(err)
	}

	return nil
}

func (s *contestService) UpdateContestant(ctx context.Context, id uuid.UUID, req *models.UpdateContestantRequest) (*models.Contestant, error) {
	contestant, err := s.GetContestant(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		contestant.Name = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		contestant.Bio = s.policy.Sanitize(*req.Bio)
	}
	if req.PhotoURL != nil {
		contestant.PhotoURL = *req.PhotoURL
	}
	if req.SoundcloudURL != nil {
		contestant.SoundcloudURL = *req.SoundcloudURL
	}
	if req.InstagramURL != nil {
		contestant.InstagramURL = *req.InstagramURL
	}

	if err := s.save(ctx, contestant); err != nil {
		return nil, err
	}

	return contestant, nil
}

func (s *contestService) DeleteContestant(ctx context.Context, id uuid.UUID) error {
	if err := s.contests.DeleteContestant(ctx, id); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Contestant not found").WithError(err)
		}

		return errors.DatabaseError("Failed to delete contestant").WithError(err)
	}

	return nil
}

func (s *contestService) UploadPhoto(ctx context.Context, id uuid.UUID, upload *Upload) (*models.Contestant, error) {
	if err := requireImage(upload); err != nil {
		return nil, err
	}

	contestant, err := s.GetContestant(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Upload(ctx, storage.ContestPhotos, upload.objectName(id.String()), upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to upload photo").WithError(err)
	}

	contestant.PhotoURL = url

	if err := s.save(ctx, contestant); err != nil {
		return nil, err
	}

	return contestant, nil
}

func status(contestantID uuid.UUID, state voting.State) *models.VoteStatus {
	vs := &models.VoteStatus{ContestantID: contestantID, State: state.String()}

	switch state {
	case voting.AwaitingEmailLink:
		vs.Message = "Check your inbox for the sign-in link."
	case voting.AlreadyVoted:
		vs.Message = errors.AlreadyVotedError().Message
	case voting.VoteSubmitted:
		vs.Message = "Thank you for voting!"
	}

	return vs
}

func (s *contestService) VoteStatus(ctx context.Context, contestantID uuid.UUID, session *voting.Session) (*models.VoteStatus, error) {
	contestant, err := s.GetContestant(ctx, contestantID)
	if err != nil {
		return nil, err
	}

	flow := voting.NewFlow(s.deps(), contestant, session)
	if session == nil {
		return status(contestantID, flow.State()), nil
	}

	state, err := flow.Resolve(ctx)
	if err != nil {
		return nil, errors.InternalError("Failed to resolve vote status").WithError(err)
	}

	return status(contestantID, state), nil
}

func (s *contestService) RequestVoteLogin(ctx context.Context, contestantID uuid.UUID, req *models.VoteLoginRequest) (*models.VoteStatus, error) {
	contestant, err := s.GetContestant(ctx, contestantID)
	if err != nil {
		return nil, err
	}

	flow := voting.NewFlow(s.deps(), contestant, nil)

	if err := flow.RequestLogin(ctx, req.Email, req.RedirectTo); err != nil {
		if appErr, ok := errors.IsAppError(err); ok {
			return nil, appErr
		}

		return nil, errors.ThirdPartyError("Failed to send sign-in link").WithError(err)
	}

	return status(contestantID, flow.State()), nil
}

func (s *contestService) AwaitVoteSession(ctx context.Context, contestantID uuid.UUID, email string) (*models.VoteStatus, error) {
	contestant, err := s.GetContestant(ctx, contestantID)
	if err != nil {
		return nil, err
	}

	flow := voting.NewFlow(s.deps(), contestant, nil)
	if err := flow.ResumeLogin(email); err != nil {
		return nil, errors.InvalidStateError("Cannot wait for a sign-in here").WithError(err)
	}

	events, unsubscribe := s.sessions.Subscribe()
	defer unsubscribe()

	state, err := flow.AwaitSession(ctx, events)
	if err != nil {
		if stdErrors.Is(err, context.DeadlineExceeded) || stdErrors.Is(err, context.Canceled) {
			return status(contestantID, flow.State()), nil
		}

		return nil, errors.InternalError("Failed to resolve vote status").WithError(err)
	}

	return status(contestantID, state), nil
}

func (s *contestService) SubmitVote(ctx context.Context, contestantID uuid.UUID, session voting.Session, ipAddress string) (*models.VoteStatus, error) {
	contestant, err := s.GetContestant(ctx, contestantID)
	if err != nil {
		return nil, err
	}

	flow := voting.NewFlow(s.deps(), contestant, &session)

	state, err := flow.Resolve(ctx)
	if err != nil {
		return nil, errors.InternalError("Failed to resolve vote status").WithError(err)
	}

	if state == voting.AlreadyVoted {
		return nil, errors.AlreadyVotedError()
	}

	if err := flow.Submit(ctx, ipAddress); err != nil {
		if stdErrors.Is(err, voting.ErrAlreadyVoted) {
			return nil, errors.AlreadyVotedError().WithError(err)
		}

		return nil, errors.DatabaseError("Failed to record vote").WithError(err)
	}

	return status(contestantID, flow.State()), nil
}
