// Package vehicles persists dealership listings.
package vehicles

import (
	"context"

	"github.com/dmitrijs2005/motordesk/internal/server/models"
)

// Repository is the storage surface the vehicle service depends on.
type Repository interface {
	Create(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error)
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
	List(ctx context.Context) ([]*models.Vehicle, error)
	Update(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error)
	Delete(ctx context.Context, id string) error

	// RemoveAssetRef drops assetID from every vehicle's image list and
	// returns how many vehicles were touched.
	RemoveAssetRef(ctx context.Context, assetID string) (int64, error)

	// LogAssetDeletion records a removed asset for the audit trail.
	LogAssetDeletion(ctx context.Context, assetID string, vehiclesUpdated int64) error
}
