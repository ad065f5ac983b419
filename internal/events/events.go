package events

import "time"

const (
	TypePersonCreated = "person.created"
	TypeMovieAdded    = "movie.added"
	TypeMovieUpdated  = "movie.updated"
	TypeMovieDeleted  = "movie.deleted"
	TypeListCleared   = "list.cleared"
)

// ListEvent describes one change to somebody's favorites list. It is
// broadcast as a JSON line to TCP subscribers and as a text frame to
// WebSocket clients.
type ListEvent struct {
	Type     string    `json:"type"`
	PersonID int64     `json:"person_id"`
	MovieID  int64     `json:"movie_id,omitempty"`
	Title    string    `json:"title,omitempty"`
	At       time.Time `json:"at"`
}
