// Package vehicles implements the listing service on top of the vehicle
// repository.
package vehicles

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/motordesk/internal/common"
	"github.com/dmitrijs2005/motordesk/internal/dbx"
	"github.com/dmitrijs2005/motordesk/internal/server/models"
	vehiclerepo "github.com/dmitrijs2005/motordesk/internal/server/repositories/vehicles"
)

type Service struct {
	repo vehiclerepo.Repository
	inTx func(ctx context.Context, fn func(ctx context.Context, r vehiclerepo.Repository) error) error
}

// NewService builds the listing service. When db is non-nil, multi-statement
// operations run inside a transaction with a repository bound to it; with a
// nil db (unit tests with a fake repo) they run against repo directly.
func NewService(repo vehiclerepo.Repository, db *sql.DB) *Service {
	s := &Service{repo: repo}

	if db == nil {
		s.inTx = func(ctx context.Context, fn func(ctx context.Context, r vehiclerepo.Repository) error) error {
			return fn(ctx, repo)
		}
	} else {
		s.inTx = func(ctx context.Context, fn func(ctx context.Context, r vehiclerepo.Repository) error) error {
			return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
				return fn(ctx, vehiclerepo.NewPostgresRepository(tx))
			})
		}
	}

	return s
}

// RemoveAssetRefs drops the asset from every vehicle that references it and
// records the removal, atomically.
func (s *Service) RemoveAssetRefs(ctx context.Context, assetID string) error {
	return s.inTx(ctx, func(ctx context.Context, r vehiclerepo.Repository) error {
		n, err := r.RemoveAssetRef(ctx, assetID)
		if err != nil {
			return err
		}
		return r.LogAssetDeletion(ctx, assetID, n)
	})
}

// validate checks the fields an operator can get wrong in the admin form.
// Image asset ids are accepted as given: the client enforces the save gate
// (every staged image uploaded) before the request is ever issued.
func validate(v *models.Vehicle) error {
	if v.Make == "" {
		return fmt.Errorf("%w: make is required", common.ErrorValidation)
	}
	if v.Model == "" {
		return fmt.Errorf("%w: model is required", common.ErrorValidation)
	}
	if v.Year < 1900 || v.Year > time.Now().Year()+1 {
		return fmt.Errorf("%w: year %d out of range", common.ErrorValidation, v.Year)
	}
	if v.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", common.ErrorValidation)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	if err := validate(v); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, v)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*models.Vehicle, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	if err := validate(v); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, v)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
