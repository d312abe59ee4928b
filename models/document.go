package models

import (
	"time"

	"github.com/google/uuid"
)

// PolicyDocument represents an uploaded policy document
type PolicyDocument struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	FileID      *uuid.UUID `json:"file_id,omitempty"`
	FileName    string     `json:"file_name"`
	Description *string    `json:"description,omitempty"`
	Content     *string    `json:"content,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Text returns the best available document text: extracted content first,
// then the description field some older records stored text under.
func (d *PolicyDocument) Text() string {
	if d.Content != nil && *d.Content != "" {
		return *d.Content
	}
	if d.Description != nil {
		return *d.Description
	}
	return ""
}
