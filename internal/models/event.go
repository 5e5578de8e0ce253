package models

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventStatusUpcoming EventStatus = "upcoming"
	EventStatusPast     EventStatus = "past"
)

type Event struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Date        time.Time   `json:"date"`
	StartTime   string      `json:"start_time,omitempty"`
	EndTime     string      `json:"end_time,omitempty"`
	Venue       string      `json:"venue"`
	City        string      `json:"city"`
	Latitude    *float64    `json:"latitude,omitempty"`
	Longitude   *float64    `json:"longitude,omitempty"`
	Lineup      []string    `json:"lineup"`
	Status      EventStatus `json:"status"`
	Description string      `json:"description,omitempty"`
	FlyerURL    string      `json:"flyer_url,omitempty"`
	TicketLink  string      `json:"ticket_link,omitempty"`
	Media       []*Media    `json:"media,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

type CreateEventRequest struct {
	Name        string      `json:"name" validate:"required,min=2,max=200"`
	Date        time.Time   `json:"date" validate:"required"`
	StartTime   string      `json:"start_time,omitempty" validate:"omitempty,max=5"`
	EndTime     string      `json:"end_time,omitempty" validate:"omitempty,max=5"`
	Venue       string      `json:"venue" validate:"required,max=200"`
	City        string      `json:"city" validate:"required,max=100"`
	Latitude    *float64    `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64    `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Lineup      []string    `json:"lineup,omitempty" validate:"omitempty,dive,required,max=100"`
	Status      EventStatus `json:"status" validate:"required,oneof=upcoming past"`
	Description string      `json:"description,omitempty" validate:"omitempty,max=5000"`
	FlyerURL    string      `json:"flyer_url,omitempty" validate:"omitempty,url"`
	TicketLink  string      `json:"ticket_link,omitempty" validate:"omitempty,url"`
}

type UpdateEventRequest struct {
	Name        *string      `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Date        *time.Time   `json:"date,omitempty"`
	StartTime   *string      `json:"start_time,omitempty" validate:"omitempty,max=5"`
	EndTime     *string      `json:"end_time,omitempty" validate:"omitempty,max=5"`
	Venue       *string      `json:"venue,omitempty" validate:"omitempty,max=200"`
	City        *string      `json:"city,omitempty" validate:"omitempty,max=100"`
	Latitude    *float64     `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64     `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Lineup      []string     `json:"lineup,omitempty" validate:"omitempty,dive,required,max=100"`
	Status      *EventStatus `json:"status,omitempty" validate:"omitempty,oneof=upcoming past"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=5000"`
	FlyerURL    *string      `json:"flyer_url,omitempty" validate:"omitempty,url"`
	TicketLink  *string      `json:"ticket_link,omitempty" validate:"omitempty,url"`
}

type MediaType string

const (
	MediaTypePhoto MediaType = "photo"
	MediaTypeVideo MediaType = "video"
)

type Media struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	URL       string    `json:"url"`
	Type      MediaType `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type AddVideoRequest struct {
	URL string `json:"url" validate:"required,url"`
}
