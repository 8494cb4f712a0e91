package vehicles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/motordesk/internal/common"
	"github.com/dmitrijs2005/motordesk/internal/server/models"
)

type fakeRepo struct {
	created     *models.Vehicle
	updated     *models.Vehicle
	removedRef  string
	logged      string
	loggedCount int64
}

func (f *fakeRepo) Create(_ context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	f.created = v
	v.ID = "veh-1"
	return v, nil
}

func (f *fakeRepo) GetByID(context.Context, string) (*models.Vehicle, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeRepo) List(context.Context) ([]*models.Vehicle, error) { return nil, nil }

func (f *fakeRepo) Update(_ context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	f.updated = v
	return v, nil
}

func (f *fakeRepo) Delete(context.Context, string) error { return nil }

func (f *fakeRepo) RemoveAssetRef(_ context.Context, assetID string) (int64, error) {
	f.removedRef = assetID
	return 2, nil
}

func (f *fakeRepo) LogAssetDeletion(_ context.Context, assetID string, vehiclesUpdated int64) error {
	f.logged = assetID
	f.loggedCount = vehiclesUpdated
	return nil
}

func validVehicle() *models.Vehicle {
	return &models.Vehicle{
		Make:          "Toyota",
		Model:         "Corolla",
		Year:          2019,
		Price:         1450000,
		ImageAssetIDs: []string{"img_1_a.jpg", "img_2_b.jpg"},
	}
}

func TestCreate_Valid(t *testing.T) {
	repo := &fakeRepo{}
	s := NewService(repo, nil)

	v, err := s.Create(context.Background(), validVehicle())
	require.NoError(t, err)
	assert.Equal(t, "veh-1", v.ID)
	assert.Equal(t, []string{"img_1_a.jpg", "img_2_b.jpg"}, repo.created.ImageAssetIDs,
		"image order must be passed through untouched")
}

func TestCreate_ValidationErrors(t *testing.T) {
	s := NewService(&fakeRepo{}, nil)

	tests := []struct {
		name   string
		mutate func(*models.Vehicle)
	}{
		{"missing make", func(v *models.Vehicle) { v.Make = "" }},
		{"missing model", func(v *models.Vehicle) { v.Model = "" }},
		{"year too old", func(v *models.Vehicle) { v.Year = 1850 }},
		{"year in the future", func(v *models.Vehicle) { v.Year = 3000 }},
		{"negative price", func(v *models.Vehicle) { v.Price = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validVehicle()
			tt.mutate(v)

			_, err := s.Create(context.Background(), v)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestRemoveAssetRefs_LogsRemovalCount(t *testing.T) {
	repo := &fakeRepo{}
	s := NewService(repo, nil)

	require.NoError(t, s.RemoveAssetRefs(context.Background(), "img_1_a.jpg"))
	assert.Equal(t, "img_1_a.jpg", repo.removedRef)
	assert.Equal(t, "img_1_a.jpg", repo.logged)
	assert.Equal(t, int64(2), repo.loggedCount)
}

func TestUpdate_Validates(t *testing.T) {
	repo := &fakeRepo{}
	s := NewService(repo, nil)

	v := validVehicle()
	v.ID = "veh-1"
	v.Model = ""

	_, err := s.Update(context.Background(), v)
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Nil(t, repo.updated, "invalid updates must not reach the repository")
}
