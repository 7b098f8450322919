// Package remote queries external geocoding services concurrently.
package remote

import (
	"context"

	"atlas-api/internal/models"
)

// Source is one external geocoding service.
type Source interface {
	Name() string
	// Lookup finds places matching the readable city, state and postal
	// code. Any of them may be empty.
	Lookup(ctx context.Context, city, state, postal string) (*models.LocationMap, models.SourceMetrics, error)
}
