package services

import "math"

const (
	DistanceTieredPolicy    = "distance_tiered"
	SubtotalThresholdPolicy = "subtotal_threshold"
)

// FeePolicy prices delivery for a single order. The active policy is chosen by
// configuration and its Name is reported with every estimate.
type FeePolicy interface {
	Name() string
	Fee(distanceKm float64, subtotal float64) float64
}

// DistanceTieredFee charges BaseFee up to IncludedKm and PerKmRate for every
// started kilometer beyond it.
type DistanceTieredFee struct {
	BaseFee    float64
	PerKmRate  float64
	IncludedKm float64
}

func NewDistanceTieredFee() DistanceTieredFee {
	return DistanceTieredFee{
		BaseFee:    20,
		PerKmRate:  10,
		IncludedKm: 1,
	}
}

func (p DistanceTieredFee) Name() string { return DistanceTieredPolicy }

// Fee bills each started kilometer beyond IncludedKm in full: 1.01 km and
// 2.0 km both cost BaseFee + PerKmRate.
func (p DistanceTieredFee) Fee(distanceKm float64, _ float64) float64 {
	if distanceKm <= p.IncludedKm {
		return p.BaseFee
	}
	return p.BaseFee + math.Ceil(distanceKm-p.IncludedKm)*p.PerKmRate
}

// SubtotalThresholdFee charges a flat FlatFee regardless of distance and waives
// it once the order subtotal reaches FreeAbove.
type SubtotalThresholdFee struct {
	FlatFee   float64
	FreeAbove float64
}

func NewSubtotalThresholdFee() SubtotalThresholdFee {
	return SubtotalThresholdFee{
		FlatFee:   50,
		FreeAbove: 500,
	}
}

func (p SubtotalThresholdFee) Name() string { return SubtotalThresholdPolicy }

func (p SubtotalThresholdFee) Fee(_ float64, subtotal float64) float64 {
	if subtotal >= p.FreeAbove {
		return 0
	}
	return p.FlatFee
}

// AmountToFreeDelivery is how much more the order needs before the fee is waived.
func (p SubtotalThresholdFee) AmountToFreeDelivery(subtotal float64) float64 {
	if subtotal >= p.FreeAbove {
		return 0
	}
	return p.FreeAbove - subtotal
}

// CalculateDeliveryFee prices distanceKm with the default distance-tiered policy.
func CalculateDeliveryFee(distanceKm float64) float64 {
	return NewDistanceTieredFee().Fee(distanceKm, 0)
}

// FeePolicyByName resolves a configured policy name. Unknown names yield ok=false.
func FeePolicyByName(name string) (FeePolicy, bool) {
	switch name {
	case "", "distance", DistanceTieredPolicy:
		return NewDistanceTieredFee(), true
	case "subtotal", SubtotalThresholdPolicy:
		return NewSubtotalThresholdFee(), true
	}
	return nil, false
}
