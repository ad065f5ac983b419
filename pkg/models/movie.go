package models

import "time"

// Movie is one favorites entry. Year, Genre and Rating come from the
// metadata provider and stay nil when the lookup had nothing usable.
type Movie struct {
	ID        int64     `json:"id"`
	PersonID  int64     `json:"person_id"`
	Title     string    `json:"title"`
	Year      *int      `json:"year,omitempty"`
	Genre     *string   `json:"genre,omitempty"`
	Rating    *float64  `json:"rating,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
