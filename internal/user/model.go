package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"_id"`
	Username     string    `json:"Username"`
	Email        string    `json:"Email"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	Verified     bool      `json:"Verified"`
	CreatedAt    time.Time `json:"CreatedAt"`
	UpdatedAt    time.Time `json:"UpdatedAt"`
}

// Profile is the public view of a user: everything except email and password
// hash, plus the relation lists.
type Profile struct {
	ID              uuid.UUID   `json:"_id"`
	Username        string      `json:"Username"`
	CreatedCardSets []uuid.UUID `json:"CreatedCardSets"`
	LikedCardSets   []uuid.UUID `json:"LikedCardSets"`
	Following       []uuid.UUID `json:"Following"`
	Followers       []uuid.UUID `json:"Followers"`
	CreatedAt       time.Time   `json:"CreatedAt"`
}
