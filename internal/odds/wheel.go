package odds

import (
	"fmt"
	"math"
	"strconv"
)

// Segment is one slice of a wheel. Every segment is equally likely.
type Segment struct {
	Label      string
	Multiplier float64
}

// NewSegments labels a list of multipliers the way the wheel displays them.
func NewSegments(multipliers ...float64) []Segment {
	segments := make([]Segment, len(multipliers))
	for i, m := range multipliers {
		segments[i] = Segment{
			Label:      strconv.FormatFloat(m, 'f', -1, 64) + "x",
			Multiplier: m,
		}
	}
	return segments
}

// ValidateSegments rejects empty sets and negative multipliers.
func ValidateSegments(segments []Segment) error {
	if len(segments) == 0 {
		return fmt.Errorf("empty segment set: %w", ErrInvalidParameters)
	}
	for i, s := range segments {
		if s.Multiplier < 0 || math.IsNaN(s.Multiplier) || math.IsInf(s.Multiplier, 0) {
			return fmt.Errorf("segment %d multiplier %v: %w", i, s.Multiplier, ErrInvalidParameters)
		}
	}
	return nil
}

// ExpectedValue is the mean payout ratio of a uniform spin.
func ExpectedValue(segments []Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range segments {
		sum += s.Multiplier
	}
	return sum / float64(len(segments))
}

// HouseEdge is 1 minus the expected value.
func HouseEdge(segments []Segment) float64 {
	return 1 - ExpectedValue(segments)
}

// StdDev is the standard deviation of a single spin's payout ratio.
func StdDev(segments []Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	mean := ExpectedValue(segments)
	sum := 0.0
	for _, s := range segments {
		d := s.Multiplier - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(segments)))
}
