// Package statistics accumulates payout statistics over many rounds.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/minicasino/internal/round"
)

// BigWinRatio is the payout ratio from which a round counts as a big win.
const BigWinRatio = 10.0

// RoundResult represents the outcome of a single round
type RoundResult struct {
	Wager    float64       // Amount staked
	Payout   float64       // Amount credited back (0 on a plain loss)
	Outcome  round.Outcome // Win, Loss or Push
	Progress int           // Steps taken before settlement (reveals, hits)
	Seed     int64         // RNG seed of the worker that played it (for replay)
}

// Ratio is the payout as a multiple of the wager.
func (r RoundResult) Ratio() float64 {
	if r.Wager == 0 {
		return 0
	}
	return r.Payout / r.Wager
}

// Statistics tracks payout ratios over a simulation
type Statistics struct {
	Rounds    int
	SumRatio  float64
	SumRatio2 float64   // Sum of squares for variance calculation
	Values    []float64 // Store all ratios for median/percentile calculation

	Wins   int
	Losses int
	Pushes int

	Wagered float64
	Paid    float64

	MaxRatio    float64
	BigWins     int         // Rounds paying at least BigWinRatio
	ProgressHit map[int]int // Rounds settled after n steps
}

// Mean returns the mean payout ratio per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumRatio / float64(s.Rounds)
}

// Variance returns the sample variance of the payout ratio
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumRatio2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
	if v < 0 {
		return 0
	}
	return v
}

// StdDev returns the sample standard deviation of the payout ratio
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// RTP is the return to player: everything paid over everything wagered.
func (s *Statistics) RTP() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return s.Paid / s.Wagered
}

// HouseEdge is 1 - RTP.
func (s *Statistics) HouseEdge() float64 {
	return 1 - s.RTP()
}

// WinRate is the share of rounds settled as a win.
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	ratio := result.Ratio()
	s.Rounds++
	s.SumRatio += ratio
	s.SumRatio2 += ratio * ratio
	s.Values = append(s.Values, ratio)

	switch result.Outcome {
	case round.Win:
		s.Wins++
	case round.Push:
		s.Pushes++
	default:
		s.Losses++
	}

	s.Wagered += result.Wager
	s.Paid += result.Payout

	if ratio > s.MaxRatio {
		s.MaxRatio = ratio
	}
	if ratio >= BigWinRatio {
		s.BigWins++
	}

	if s.ProgressHit == nil {
		s.ProgressHit = make(map[int]int)
	}
	s.ProgressHit[result.Progress]++
}

// Merge folds other into s. Workers keep their own Statistics and the
// simulator merges them at the end.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumRatio += other.SumRatio
	s.SumRatio2 += other.SumRatio2
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Wagered += other.Wagered
	s.Paid += other.Paid
	s.MaxRatio = math.Max(s.MaxRatio, other.MaxRatio)
	s.BigWins += other.BigWins
	if len(other.ProgressHit) > 0 && s.ProgressHit == nil {
		s.ProgressHit = make(map[int]int)
	}
	for k, v := range other.ProgressHit {
		s.ProgressHit[k] += v
	}
}

// Median returns the median payout ratio
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks that the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)", len(s.Values), s.Rounds)
	}
	if s.Wins+s.Losses+s.Pushes != s.Rounds {
		return fmt.Errorf("outcomes (%d wins, %d losses, %d pushes) do not add up to %d rounds",
			s.Wins, s.Losses, s.Pushes, s.Rounds)
	}
	progress := 0
	for _, n := range s.ProgressHit {
		progress += n
	}
	if progress != s.Rounds {
		return fmt.Errorf("progress histogram total (%d) does not match rounds count (%d)", progress, s.Rounds)
	}
	if s.Paid < 0 || s.Wagered < 0 {
		return fmt.Errorf("negative totals: wagered=%.2f paid=%.2f", s.Wagered, s.Paid)
	}
	return nil
}
