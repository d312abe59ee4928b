package models

import (
	"time"

	"github.com/google/uuid"
)

// Regulation represents a regulation in the compliance knowledge base
type Regulation struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	Motivation   string    `json:"motivation"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
