package domain

import "time"

// Brand represents a perfume house.
type Brand struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
