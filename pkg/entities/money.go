package entities

import "fmt"

// Amount is a quantity of chips in minor units.
type Amount int64

// Half returns a/2, rounding toward zero
func (a Amount) Half() Amount {
	return a / 2
}

// Times returns a*num/den, or false when the result is not a whole number of
// minor units.
func (a Amount) Times(num, den int64) (Amount, bool) {
	if den == 0 {
		return 0, false
	}
	product := int64(a) * num
	if product%den != 0 {
		return 0, false
	}
	return Amount(product / den), true
}

// String returns the amount as a plain integer
func (a Amount) String() string {
	return fmt.Sprintf("%d", int64(a))
}
