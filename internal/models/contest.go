package models

import (
	"time"

	"github.com/google/uuid"
)

type ContestStatus string

const (
	ContestStatusActive   ContestStatus = "active"
	ContestStatusFinished ContestStatus = "finished"
	ContestStatusUpcoming ContestStatus = "upcoming"
)

type ContestEdition struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	Status    ContestStatus `json:"status"`
	WinnerID  *uuid.UUID    `json:"winner_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type Contestant struct {
	ID            uuid.UUID `json:"id"`
	ContestID     uuid.UUID `json:"contest_id"`
	Name          string    `json:"name"`
	Bio           string    `json:"bio,omitempty"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	SoundcloudURL string    `json:"soundcloud_url,omitempty"`
	InstagramURL  string    `json:"instagram_url,omitempty"`
	TotalVotes    int64     `json:"total_votes"`
	CreatedAt     time.Time `json:"created_at"`
}

type Vote struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	ContestID    uuid.UUID `json:"contest_id"`
	ContestantID uuid.UUID `json:"contestant_id"`
	VotedAt      time.Time `json:"voted_at"`
	IPAddress    string    `json:"ip_address,omitempty"`
}

type CreateContestantRequest struct {
	ContestID     *uuid.UUID `json:"contest_id,omitempty"`
	Name          string     `json:"name" validate:"required,min=1,max=100"`
	Bio           string     `json:"bio,omitempty" validate:"omitempty,max=2000"`
	PhotoURL      string     `json:"photo_url,omitempty" validate:"omitempty,url,max=2048"`
	SoundcloudURL string     `json:"soundcloud_url,omitempty" validate:"omitempty,url"`
	InstagramURL  string     `json:"instagram_url,omitempty" validate:"omitempty,url"`
}

type UpdateContestantRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Bio           *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	PhotoURL      *string `json:"photo_url,omitempty" validate:"omitempty,url,max=2048"`
	SoundcloudURL *string `json:"soundcloud_url,omitempty" validate:"omitempty,url"`
	InstagramURL  *string `json:"instagram_url,omitempty" validate:"omitempty,url"`
}

type VoteLoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	RedirectTo string `json:"redirect_to,omitempty" validate:"omitempty,url"`
}

// VoteStatus reports where a voting attempt stands for the caller.
type VoteStatus struct {
	ContestantID uuid.UUID `json:"contestant_id"`
	State        string    `json:"state"`
	Message      string    `json:"message,omitempty"`
}
