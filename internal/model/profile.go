package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds display information for an identity-provider user.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
