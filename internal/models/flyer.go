package models

type FlyerRequest struct {
	Title         string   `json:"title" validate:"required,max=60"`
	Subtitle      string   `json:"subtitle,omitempty" validate:"omitempty,max=80"`
	Date          string   `json:"date,omitempty" validate:"omitempty,max=40"`
	Venue         string   `json:"venue,omitempty" validate:"omitempty,max=80"`
	City          string   `json:"city,omitempty" validate:"omitempty,max=60"`
	Lineup        []string `json:"lineup,omitempty" validate:"omitempty,max=12,dive,max=40"`
	BackgroundURL string   `json:"background_url,omitempty" validate:"omitempty,url"`
}

type StoredFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}
