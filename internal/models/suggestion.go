package models

import (
	"time"

	"github.com/google/uuid"
)

// Suggestion is a visitor-submitted idea for the suggestion wall.
type Suggestion struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateSuggestionRequest struct {
	Content string `json:"content"`
}
