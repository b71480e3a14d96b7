package domain

import (
	"github.com/google/uuid"

	"github.com/streamhub/backend/internal/apperr"
)

// ParseID is the single chokepoint for turning request-supplied id strings
// into typed identifiers. Every handler and filter goes through it.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid id")
	}
	return id, nil
}
