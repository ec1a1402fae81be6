package wager

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1.00", "1"},
		{"$2.50", "2.5"},
		{"$1,000.50", "1000.5"},
		{"1.2.3", "1.2"},
		{".75", "0.75"},
		{"12.", "12"},
		{"abc", "0"},
		{"", "0"},
		{"-3", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.True(t, d(tt.want).Equal(got), "Parse(%q) = %s, want %s", tt.raw, got, tt.want)
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		balance string
		want    string
	}{
		{name: "plain", raw: "1", balance: "10", want: "1.00"},
		{name: "rounds half up", raw: "2.345", balance: "10", want: "2.35"},
		{name: "clamps to minimum", raw: "0", balance: "10", want: "0.01"},
		{name: "garbage becomes minimum", raw: "bet!", balance: "10", want: "0.01"},
		{name: "clamps to balance", raw: "50", balance: "10", want: "10.00"},
		{name: "balance floored to cents", raw: "50", balance: "10.009", want: "10.00"},
		{name: "empty balance", raw: "5", balance: "0", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Default.Normalize(tt.raw, d(tt.balance))
			assert.Equal(t, tt.want, Format(got))
		})
	}
}

func TestQuickAdjust(t *testing.T) {
	balance := d("10")

	assert.Equal(t, "0.50", Format(Default.Halve(d("1"), balance)))
	assert.Equal(t, "0.01", Format(Default.Halve(d("0.01"), balance)))
	assert.Equal(t, "0.25", Format(Default.Quarter(d("1"), balance)))
	assert.Equal(t, "0.01", Format(Default.Quarter(d("0.02"), balance)))
	assert.Equal(t, "4.00", Format(Default.Double(d("2"), balance)))
	assert.Equal(t, "10.00", Format(Default.Double(d("6"), balance)))
}

func TestValid(t *testing.T) {
	balance := d("10")

	assert.True(t, Default.Valid(d("0.01"), balance))
	assert.True(t, Default.Valid(d("10"), balance))
	assert.False(t, Default.Valid(d("0"), balance))
	assert.False(t, Default.Valid(d("-1"), balance))
	assert.False(t, Default.Valid(d("10.01"), balance))
	assert.False(t, Default.Valid(d("1.005"), balance))
}

func TestNewFallsBackToDefault(t *testing.T) {
	assert.True(t, New(decimal.Zero).MinStake.Equal(DefaultMinStake))
	assert.True(t, New(d("1")).MinStake.Equal(d("1")))
}
