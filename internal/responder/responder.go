// Package responder resolves the nearest on-duty responder for a crash and
// assembles the device owner's emergency-contact payload, grounded on the
// original crash_service.py's handle_crash composition.
package responder

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
	"github.com/wihwin/helmet-core/internal/repository"
)

// Lookup composes responder routing with owner contact resolution.
type Lookup struct {
	responders repository.ResponderRepository
	users      repository.UserRepository
}

// New creates a Lookup.
func New(responders repository.ResponderRepository, users repository.UserRepository) *Lookup {
	return &Lookup{responders: responders, users: users}
}

// Routing is the crash response payload: nearest responder (if any) plus
// the device owner's emergency contact fields.
type Routing struct {
	Found        bool
	ResponderID  *uuid.UUID
	Name         string
	HospitalName string
	DistanceKM   float64
	Contact      *models.EmergencyContact
}

// Route assembles a Routing, never failing outright when either half is
// unavailable — a crash alert must still be recorded without routing.
func (l *Lookup) Route(ctx context.Context, lat, lon float64, ownerUserID *uuid.UUID) Routing {
	var routing Routing

	resp, dist, err := l.responders.FindNearest(ctx, lat, lon)
	if err == nil {
		routing.Found = true
		routing.ResponderID = &resp.ID
		routing.Name = resp.Name
		routing.HospitalName = resp.HospitalName
		routing.DistanceKM = dist
	} else if !errors.Is(err, repository.ErrResponderNotFound) {
		// A transient lookup failure shouldn't abort crash alert creation;
		// the crash record matters more than the routing metadata.
		routing.Found = false
	}

	if ownerUserID != nil {
		if c, err := l.users.GetEmergencyContact(ctx, *ownerUserID); err == nil {
			routing.Contact = c
		}
	}

	return routing
}
