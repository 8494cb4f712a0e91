package vehicles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/motordesk/internal/common"
	"github.com/dmitrijs2005/motordesk/internal/dbx"
	"github.com/dmitrijs2005/motordesk/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// imageIDsToJSON serializes the ordered asset id list for the jsonb column.
// jsonb keeps array order, which is exactly the display-order guarantee the
// model requires.
func imageIDsToJSON(ids []string) ([]byte, error) {
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}

func (r *PostgresRepository) Create(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {

	images, err := imageIDsToJSON(v.ImageAssetIDs)
	if err != nil {
		return nil, fmt.Errorf("encoding image ids: %w", err)
	}

	query :=
		`INSERT INTO vehicles (make, model, year, price, mileage, fuel, transmission, description, image_asset_ids)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		v.Make, v.Model, v.Year, v.Price, v.Mileage, v.Fuel, v.Transmission, v.Description, images).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return v, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	query :=
		`SELECT id, make, model, year, price, mileage, fuel, transmission, description, image_asset_ids, created_at, updated_at
		 FROM vehicles
		 WHERE id = $1
		 `

	v := &models.Vehicle{}
	var images []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.Make, &v.Model, &v.Year, &v.Price, &v.Mileage,
		&v.Fuel, &v.Transmission, &v.Description, &images, &v.CreatedAt, &v.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(images, &v.ImageAssetIDs); err != nil {
		return nil, fmt.Errorf("decoding image ids: %w", err)
	}

	return v, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Vehicle, error) {
	query :=
		`SELECT id, make, model, year, price, mileage, fuel, transmission, description, image_asset_ids, created_at, updated_at
		 FROM vehicles
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Vehicle

	for rows.Next() {
		v := &models.Vehicle{}
		var images []byte

		err := rows.Scan(
			&v.ID, &v.Make, &v.Model, &v.Year, &v.Price, &v.Mileage,
			&v.Fuel, &v.Transmission, &v.Description, &images, &v.CreatedAt, &v.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		if err := json.Unmarshal(images, &v.ImageAssetIDs); err != nil {
			return nil, fmt.Errorf("decoding image ids: %w", err)
		}

		result = append(result, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {

	images, err := imageIDsToJSON(v.ImageAssetIDs)
	if err != nil {
		return nil, fmt.Errorf("encoding image ids: %w", err)
	}

	query :=
		`UPDATE vehicles
		 SET make = $2, model = $3, year = $4, price = $5, mileage = $6,
		     fuel = $7, transmission = $8, description = $9, image_asset_ids = $10,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		v.ID, v.Make, v.Model, v.Year, v.Price, v.Mileage,
		v.Fuel, v.Transmission, v.Description, images).
		Scan(&v.CreatedAt, &v.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return v, nil
}

// RemoveAssetRef relies on the jsonb '-' operator: subtracting a text value
// from a jsonb array removes every element equal to it, keeping the order of
// the rest.
func (r *PostgresRepository) RemoveAssetRef(ctx context.Context, assetID string) (int64, error) {
	query :=
		`UPDATE vehicles
		 SET image_asset_ids = image_asset_ids - $1::text, updated_at = now()
		 WHERE image_asset_ids ? $1
		 `

	res, err := r.db.ExecContext(ctx, query, assetID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

func (r *PostgresRepository) LogAssetDeletion(ctx context.Context, assetID string, vehiclesUpdated int64) error {
	query := `INSERT INTO asset_deletions (asset_id, vehicles_updated) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, assetID, vehiclesUpdated); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM vehicles WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
