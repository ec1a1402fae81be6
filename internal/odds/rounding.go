// Package odds computes payout multipliers from the fixed parameters of
// each game. Everything here is pure and safe for concurrent use.
package odds

import "math"

// epsilon is the spacing of float64 values around 1.
const epsilon = 0x1p-52

// RoundToTwo rounds x to cents after nudging it by epsilon, so values that
// sit a hair below a half cent (1.2375 stored as 1.23749...) round up.
// Mines uses this rule.
func RoundToTwo(x float64) float64 {
	return math.Floor(float64((x+epsilon)*100)+0.5) / 100
}

// RoundHalfUp2 rounds x to cents, ties toward +Inf, without any nudge.
// Tower uses this rule.
func RoundHalfUp2(x float64) float64 {
	return math.Floor(float64(x*100)+0.5) / 100
}
