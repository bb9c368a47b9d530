// Package models contains data models for the helmet core services.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Device represents a wearable helmet identified by a stable hardware code.
type Device struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	DeviceCode string     `json:"deviceCode" db:"device_code"`
	OwnerUser  *uuid.UUID `json:"ownerUser,omitempty" db:"owner_user"`
	Onboarded  bool       `json:"onboarded" db:"onboarded"`
	LastSeen   *time.Time `json:"lastSeen,omitempty" db:"last_seen"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}
