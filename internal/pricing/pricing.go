// Package pricing computes booking totals. It is a pure function of
// its inputs: no state, no I/O, so quotes can be re-issued and prices
// recomputed at confirm time with identical results.
package pricing

// Total returns basePrice * seatCount in minor currency units.
func Total(basePrice int64, seatCount int) int64 {
	return basePrice * int64(seatCount)
}
