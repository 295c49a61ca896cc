package geoindex

import (
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/services"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(results []domain.NearestFacility) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Facility.ID)
	}
	return out
}

func TestFacilityIndexWithin(t *testing.T) {
	index := NewFacilityIndex()

	center := domain.Coordinate{Lat: 17.3850, Lon: 78.4867}
	facilities := []domain.Facility{
		{ID: "warehouse", Location: domain.Coordinate{Lat: 17.35878, Lon: 78.5534077}}, // ~7.7 km
		{ID: "charminar", Location: domain.Coordinate{Lat: 17.3616, Lon: 78.4747}},     // ~2.9 km
		{ID: "secunderabad", Location: domain.Coordinate{Lat: 17.4399, Lon: 78.4983}},  // ~6.2 km
		{ID: "vijayawada", Location: domain.Coordinate{Lat: 16.5062, Lon: 80.6480}},    // far
	}
	require.NoError(t, index.Index(facilities))
	assert.Equal(t, 4, index.Size())

	got, err := index.Within(center, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"charminar", "secunderabad", "warehouse"}, ids(got))

	for _, r := range got {
		assert.LessOrEqual(t, r.DistanceKm, 10.0)
		assert.Equal(t, services.CalculateDeliveryDuration(r.DistanceKm), r.DurationMinutes)
	}

	got, err = index.Within(center, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"charminar"}, ids(got))
}

func TestFacilityIndexMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	index := NewFacilityIndex()

	facilities := make([]domain.Facility, 0, 2000)
	for i := 0; i < 2000; i++ {
		facilities = append(facilities, domain.Facility{
			ID:       fmt.Sprintf("f%d", i),
			Location: domain.Coordinate{Lat: rng.Float64()*170 - 85, Lon: rng.Float64()*360 - 180},
		})
	}
	require.NoError(t, index.Index(facilities))

	for q := 0; q < 50; q++ {
		center := domain.Coordinate{Lat: rng.Float64()*170 - 85, Lon: rng.Float64()*360 - 180}
		radius := 200 + rng.Float64()*800

		var want []string
		for _, r := range services.RankFacilities(center, facilities) {
			if r.DistanceKm <= radius {
				want = append(want, r.Facility.ID)
			}
		}

		got, err := index.Within(center, radius)
		require.NoError(t, err)
		assert.Equal(t, len(want), len(got), "query %d center=%+v radius=%.0f", q, center, radius)
		if len(want) > 0 {
			assert.Equal(t, want, ids(got))
		}
	}
}

func TestFacilityIndexAntimeridian(t *testing.T) {
	index := NewFacilityIndex()
	require.NoError(t, index.Index([]domain.Facility{
		{ID: "east", Location: domain.Coordinate{Lat: 0, Lon: 179.95}},
		{ID: "west", Location: domain.Coordinate{Lat: 0, Lon: -179.95}},
		{ID: "elsewhere", Location: domain.Coordinate{Lat: 0, Lon: 170}},
	}))

	got, err := index.Within(domain.Coordinate{Lat: 0, Lon: 179.99}, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"east", "west"}, ids(got))

	got, err = index.Within(domain.Coordinate{Lat: 0, Lon: -179.99}, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"west", "east"}, ids(got))
}

func TestFacilityIndexTiesKeepInsertionOrder(t *testing.T) {
	index := NewFacilityIndex()
	same := domain.Coordinate{Lat: 12.97, Lon: 77.59}

	require.NoError(t, index.Index([]domain.Facility{
		{ID: "first", Location: same},
		{ID: "second", Location: same},
		{ID: "third", Location: same},
	}))

	got, err := index.Within(same, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, ids(got))
}

func TestFacilityIndexRejectsInvalid(t *testing.T) {
	index := NewFacilityIndex()

	err := index.Index([]domain.Facility{
		{ID: "ok", Location: domain.Coordinate{Lat: 1, Lon: 1}},
		{ID: "bad", Location: domain.Coordinate{Lat: 91, Lon: 1}},
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, 0, index.Size())

	_, err = index.Within(domain.Coordinate{Lat: 1, Lon: 1}, -5)
	assert.True(t, domain.IsValidation(err))
}

func TestFacilityIndexClearAndConcurrentReads(t *testing.T) {
	index := NewFacilityIndex()
	require.NoError(t, index.Index([]domain.Facility{
		{ID: "a", Location: domain.Coordinate{Lat: 10, Lon: 10}},
	}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := index.Within(domain.Coordinate{Lat: 10, Lon: 10}, 1)
			assert.NoError(t, err)
			assert.Len(t, got, 1)
		}()
	}
	wg.Wait()

	index.Clear()
	assert.Equal(t, 0, index.Size())
}

func TestFacilityIndexReplace(t *testing.T) {
	index := NewFacilityIndex()
	center := domain.Coordinate{Lat: 17.3850, Lon: 78.4867}

	require.NoError(t, index.Index([]domain.Facility{
		{ID: "old", Location: center},
	}))
	require.NoError(t, index.Replace([]domain.Facility{
		{ID: "new-a", Location: center},
		{ID: "new-b", Location: center},
	}))
	assert.Equal(t, 2, index.Size())

	got, err := index.Within(center, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"new-a", "new-b"}, ids(got))

	err = index.Replace([]domain.Facility{{ID: "bad", Location: domain.Coordinate{Lat: 100}}})
	require.Error(t, err)
	assert.Equal(t, 2, index.Size(), "failed replace keeps the previous set")

	// Insertion order continues after a replace.
	require.NoError(t, index.Index([]domain.Facility{{ID: "new-c", Location: center}}))
	got, err = index.Within(center, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"new-a", "new-b", "new-c"}, ids(got))
}

func TestFacilityIndexSkipsKnownIDs(t *testing.T) {
	index := NewFacilityIndex()
	center := domain.Coordinate{Lat: 17.3850, Lon: 78.4867}
	batch := []domain.Facility{
		{ID: "a", Name: "first", Location: center},
		{ID: "b", Location: center},
	}

	require.NoError(t, index.Index(batch))
	require.NoError(t, index.Index(batch))
	require.NoError(t, index.Index([]domain.Facility{{ID: "a", Name: "moved", Location: center}}))
	assert.Equal(t, 2, index.Size())

	got, err := index.Within(center, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(got))
	assert.Equal(t, "first", got[0].Facility.Name)

	// Replace is how a changed facility gets refreshed.
	require.NoError(t, index.Replace([]domain.Facility{{ID: "a", Name: "moved", Location: center}}))
	got, err = index.Within(center, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "moved", got[0].Facility.Name)

	index.Clear()
	require.NoError(t, index.Index(batch))
	assert.Equal(t, 2, index.Size())
}
