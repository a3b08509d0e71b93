package types

import "github.com/google/uuid"

// NewID generates a UUID v7 for sheet and item IDs.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
