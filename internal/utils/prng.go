// internal/utils/prng.go
package utils

import (
	"math"
	"math/rand"
	"time"
)

// PRNGService wraps a seeded generator. The world owns exactly one so that
// crits, wander, spread, bombardment, bribes and berserk rolls replay
// identically for the same seed.
type PRNGService struct {
	rng  *rand.Rand
	seed int64
}

// NewPRNGService creates a generator; a zero seed uses the current time.
func NewPRNGService(seed int64) *PRNGService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &PRNGService{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the effective seed.
func (s *PRNGService) Seed() int64 { return s.seed }

// Intn returns an int in [0, n). n <= 0 yields 0.
func (s *PRNGService) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}

// Float64 returns a float in [0.0, 1.0).
func (s *PRNGService) Float64() float64 {
	return s.rng.Float64()
}

// Range returns a float in [lo, hi]; equal bounds return lo without drawing.
func (s *PRNGService) Range(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Float64()*(hi-lo)
}

// IntRange returns an int in [lo, hi].
func (s *PRNGService) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Chance reports true with probability p. p <= 0 never draws.
func (s *PRNGService) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.rng.Float64() < p
}

// PointInCircle returns a uniformly distributed point within radius of (cx,cy).
func (s *PRNGService) PointInCircle(cx, cy, radius float64) (float64, float64) {
	a := s.rng.Float64() * 2 * math.Pi
	r := radius * math.Sqrt(s.rng.Float64())
	return cx + math.Cos(a)*r, cy + math.Sin(a)*r
}
