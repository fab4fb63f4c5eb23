package location

import (
	"github.com/google/uuid"
)

// Location is a bookable court or venue an event can propose. The event
// module references locations by their string identifier only.
type Location struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	Name        string    `db:"name" json:"name"`
	Address     string    `db:"address" json:"address"`
	CourtCount  int       `db:"court_count" json:"courtCount"`
	Indoor      bool      `db:"indoor" json:"indoor"`
	Description string    `db:"description" json:"description,omitempty"`
}

type CreateLocationModel struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	CourtCount  int    `json:"courtCount"`
	Indoor      bool   `json:"indoor"`
	Description string `json:"description"`
}
