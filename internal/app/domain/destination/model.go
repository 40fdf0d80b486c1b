package destination

import "time"

// DefaultRating is applied when a destination is created without one.
const DefaultRating = 5

// Destination is a bookable catalog entry. Rating is the mean of review
// ratings rounded to one decimal place once reviews exist.
type Destination struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	Rating      float64   `json:"rating"`
	Reviews     []Review  `json:"reviews,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Review is a user comment with a rating attached to a destination.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// Update carries a partial destination update. Nil fields are left untouched.
type Update struct {
	Name        *string
	Location    *string
	Address     *string
	Description *string
	Image       *string
	Rating      *float64
}
