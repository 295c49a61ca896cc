package memory

import (
	"context"
	"testing"

	"delivery-estimate-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacilityDirectoryReturnsCopies(t *testing.T) {
	dir := NewFacilityDirectory([]domain.Facility{{ID: "a"}, {ID: "b"}})

	got, err := dir.ListFacilities(context.Background())
	require.NoError(t, err)
	got[0].ID = "mutated"

	again, err := dir.ListFacilities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].ID)

	dir.Replace([]domain.Facility{{ID: "c"}})
	again, err = dir.ListFacilities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Facility{{ID: "c"}}, again)
}

func TestFacilityDirectoryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFacilityDirectory(nil).ListFacilities(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAddressRepository(t *testing.T) {
	repo := NewAddressRepository([]domain.Address{
		{ID: "1", UserID: "u1", Label: "home"},
		{ID: "2", UserID: "u2", Label: "work"},
		{ID: "3", UserID: "u1", Label: "gym"},
	})

	got, err := repo.ListAddresses(context.Background(), " u1 ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "home", got[0].Label)
	assert.Equal(t, "gym", got[1].Label)

	none, err := repo.ListAddresses(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.ListAddresses(context.Background(), "")
	assert.True(t, domain.IsValidation(err))
}

func TestGeocodeCache(t *testing.T) {
	c := NewGeocodeCache()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "k", domain.GeocodeResult{City: "Hyderabad"}))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Hyderabad", got.City)
	assert.Equal(t, 1, c.Len())
}
