package cardset

import (
	"time"

	"github.com/google/uuid"
)

// Card is one question/answer pair.
type Card struct {
	Question string `json:"Question"`
	Answer   string `json:"Answer"`
}

// CardSet is a named, ordered list of cards owned by its creator.
type CardSet struct {
	ID        uuid.UUID   `json:"_id"`
	Name      string      `json:"Name"`
	Creator   uuid.UUID   `json:"Creator"`
	Cards     []Card      `json:"Cards"`
	LikedBy   []uuid.UUID `json:"LikedBy"`
	CreatedAt time.Time   `json:"CreatedAt"`
	UpdatedAt time.Time   `json:"UpdatedAt"`
}
