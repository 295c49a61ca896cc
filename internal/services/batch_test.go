package services

import (
	"context"
	"delivery-estimate-service/internal/domain"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateBatchPreservesOrder(t *testing.T) {
	facilities := []domain.Facility{
		{ID: "wh", Location: warehouse},
		{ID: "center", Location: hyderabadCenter},
	}

	customers := make([]domain.Customer, 0, 200)
	for i := 0; i < 200; i++ {
		customers = append(customers, domain.Customer{
			ID:       fmt.Sprintf("c%d", i),
			Location: domain.Coordinate{Lat: 17.30 + float64(i)*0.001, Lon: 78.45 + float64(i)*0.0005},
		})
	}

	out, err := EstimateBatch(context.Background(), NewEstimator(nil), customers, facilities, 4)
	require.NoError(t, err)
	require.Len(t, out, len(customers))

	for i, be := range out {
		assert.Equal(t, customers[i].ID, be.Customer.ID)

		want, err := NewEstimator(nil).Estimate(customers[i].Location, facilities, 0)
		require.NoError(t, err)
		assert.Equal(t, want, be.Result)
	}
}

func TestEstimateBatchStopsOnInvalidCustomer(t *testing.T) {
	customers := []domain.Customer{
		{ID: "ok", Location: hyderabadCenter},
		{ID: "broken", Location: domain.Coordinate{Lat: 95}},
		{ID: "ok2", Location: warehouse},
	}

	_, err := EstimateBatch(context.Background(), NewEstimator(nil), customers, nil, 1)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), `"broken"`)
}

func TestEstimateBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	customers := []domain.Customer{{ID: "a", Location: hyderabadCenter}}
	_, err := EstimateBatch(ctx, NewEstimator(nil), customers, nil, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEstimateBatchEmpty(t *testing.T) {
	out, err := EstimateBatch(context.Background(), NewEstimator(nil), nil, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestEstimateBatchUsesCustomerSubtotal(t *testing.T) {
	facilities := []domain.Facility{{ID: "wh", Location: warehouse}}
	customers := []domain.Customer{
		{ID: "small", Location: hyderabadCenter, Subtotal: 120},
		{ID: "large", Location: hyderabadCenter, Subtotal: 800},
	}

	out, err := EstimateBatch(context.Background(), NewEstimator(NewSubtotalThresholdFee()), customers, facilities, 2)
	require.NoError(t, err)
	assert.Equal(t, 50.0, out[0].Result.FeeAmount)
	assert.Equal(t, 0.0, out[1].Result.FeeAmount)
}

func TestWithDefaultSubtotalKeepsExplicitValues(t *testing.T) {
	customers := []domain.Customer{
		{ID: "blank"},
		{ID: "zero", Subtotal: 0, HasSubtotal: true},
		{ID: "set", Subtotal: 750, HasSubtotal: true},
	}

	got := WithDefaultSubtotal(customers, 300)
	require.Len(t, got, 3)
	assert.Equal(t, 300.0, got[0].Subtotal)
	assert.True(t, got[0].HasSubtotal)
	assert.Equal(t, 0.0, got[1].Subtotal)
	assert.Equal(t, 750.0, got[2].Subtotal)

	assert.False(t, customers[0].HasSubtotal, "input is not modified")
}
