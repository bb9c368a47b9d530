package repository

import (
	"context"

	"github.com/wihwin/helmet-core/internal/models"
)

// ResponderRepository defines the nearest-on-duty-responder lookup
// handle_crash depends on. The geospatial index behind it is out of
// core scope; only this query contract is.
type ResponderRepository interface {
	// FindNearest returns the nearest on-duty responder to (lat, lon), and
	// the great-circle distance to it in kilometers.
	FindNearest(ctx context.Context, lat, lon float64) (*models.Responder, float64, error)
}
