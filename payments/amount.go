package payments

import "math"

// ToMinorUnits converts a price in rupees to paisa. Every amount that crosses
// the gateway boundary goes through this conversion so the two-decimal
// fixed-point assumption lives in exactly one place.
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
