package model

import "fmt"

// Cents is a money amount in US cents.
//
// WHY NOT float64?
// The totals in this app must be exact: a $17.25 subtotal produces exactly
// $1.38 of tax and a $23.63 total. Binary floats cannot represent most
// decimal fractions (0.08 is already inexact), so sums drift by fractions
// of a cent and equality checks become flaky. Integer cents make every
// addition and comparison exact; rounding happens in exactly one place
// (the tax computation), where we control it.
type Cents int64

// String formats the amount as dollars, e.g. 2363 → "$23.63".
func (c Cents) String() string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s$%d.%02d", sign, c/100, c%100)
}
