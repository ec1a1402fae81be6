// Package wager turns raw bet input into valid stakes.
//
// All functions are pure. They are meant to run on commit events (blur,
// Enter, quick-adjust buttons) and never while the player is typing.
package wager

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultMinStake is the smallest stake any game accepts.
var DefaultMinStake = decimal.New(1, -2)

var (
	half    = decimal.NewFromFloat(0.5)
	quarter = decimal.NewFromFloat(0.25)
	two     = decimal.NewFromInt(2)
)

// Normalizer clamps and formats stakes against a minimum stake.
type Normalizer struct {
	MinStake decimal.Decimal
}

// Default uses DefaultMinStake.
var Default = Normalizer{MinStake: DefaultMinStake}

// New returns a normalizer for minStake, falling back to DefaultMinStake
// when minStake is not positive.
func New(minStake decimal.Decimal) Normalizer {
	if !minStake.IsPositive() {
		minStake = DefaultMinStake
	}
	return Normalizer{MinStake: minStake}
}

// Parse reads the numeric part of raw. Currency symbols, separators and
// other noise are dropped; unparseable input yields zero.
func Parse(raw string) decimal.Decimal {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	// Keep the longest prefix that looks like digits[.digits].
	cleaned := b.String()
	end := 0
	seenDot := false
	for i, r := range cleaned {
		if r == '.' {
			if seenDot {
				break
			}
			seenDot = true
		}
		end = i + 1
	}
	cleaned = strings.TrimSuffix(cleaned[:end], ".")
	if cleaned == "" || cleaned == "." {
		return decimal.Zero
	}
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Ceiling is the largest stake the balance allows, floored to cents.
func Ceiling(balance decimal.Decimal) decimal.Decimal {
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance.Truncate(2)
}

// Clamp bounds amount to [MinStake, Ceiling(balance)] and rounds it half-up
// to cents. When the balance is below the minimum stake the ceiling wins.
func (n Normalizer) Clamp(amount, balance decimal.Decimal) decimal.Decimal {
	v := decimal.Max(amount, n.MinStake)
	v = decimal.Min(v, Ceiling(balance))
	return v.Round(2)
}

// Normalize parses raw and clamps it against balance.
func (n Normalizer) Normalize(raw string, balance decimal.Decimal) decimal.Decimal {
	return n.Clamp(Parse(raw), balance)
}

// Halve halves the current stake, never below the minimum stake.
func (n Normalizer) Halve(current, balance decimal.Decimal) decimal.Decimal {
	return n.Clamp(decimal.Max(current.Mul(half), n.MinStake), balance)
}

// Quarter cuts the current stake to a quarter, never below the minimum stake.
func (n Normalizer) Quarter(current, balance decimal.Decimal) decimal.Decimal {
	return n.Clamp(decimal.Max(current.Mul(quarter), n.MinStake), balance)
}

// Double doubles the current stake, capped at the balance.
func (n Normalizer) Double(current, balance decimal.Decimal) decimal.Decimal {
	return n.Clamp(decimal.Min(current.Mul(two), balance), balance)
}

// Valid reports whether amount can be staked right now.
func (n Normalizer) Valid(amount, balance decimal.Decimal) bool {
	if amount.LessThan(n.MinStake) || amount.GreaterThan(balance) {
		return false
	}
	return amount.Equal(amount.Truncate(2))
}

// Format renders a stake with two decimals.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
