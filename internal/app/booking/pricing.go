package bookingapp

import (
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/shared/fault"
)

// TotalPrice computes nights times the nightly rate. A range can pass
// the check-out-after-check-in validation yet still round to zero
// nights (same-day stays under twelve hours), so the guard stays in
// the validation taxonomy.
func TotalPrice(dr daterange.DateRange, pricePerNight float64) (float64, error) {
	nights := dr.Nights()
	if nights <= 0 {
		return 0, fault.Invalid("checkOutDate", "stay must cover at least one night")
	}
	return float64(nights) * pricePerNight, nil
}
