package services

import (
	"fmt"
	"math"
)

// FormatDistance renders distances under 1 km as whole meters ("450m")
// and everything else with one decimal ("2.5 km"). Values that round up to
// 1000 m are shown as "1.0 km".
func FormatDistance(distanceKm float64) string {
	if meters := int(math.Round(distanceKm * 1000)); meters < 1000 {
		return fmt.Sprintf("%dm", meters)
	}
	return fmt.Sprintf("%.1f km", distanceKm)
}

// FormatDeliveryDuration renders short estimates exactly ("18 mins") and widens
// longer ones into a range ("25-40 mins"). The lower bound never drops below
// the preparation time.
func FormatDeliveryDuration(minutes int) string {
	if minutes <= 20 {
		return fmt.Sprintf("%d mins", minutes)
	}

	minTime := max(BaseMinutes, minutes-5)
	maxTime := minutes + 10
	return fmt.Sprintf("%d-%d mins", minTime, maxTime)
}
