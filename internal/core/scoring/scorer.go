// Package scoring holds the recency/engagement blend used to rank feed candidates.
//
//	score = recency * exp(-ageMinutes / halfLife) + engagement * ln(1 + likes)
package scoring

import (
	"fmt"
	"math"
)

const (
	DefaultRecencyWeight    = 0.7
	DefaultEngagementWeight = 0.3
	DefaultHalfLifeMinutes  = 720.0
)

// Scorer is a pure, immutable value. Callers must pass non-negative ages and counts.
type Scorer struct {
	RecencyWeight    float64 `toml:"recency_weight" json:"recency_weight"`
	EngagementWeight float64 `toml:"engagement_weight" json:"engagement_weight"`
	HalfLifeMinutes  float64 `toml:"half_life_minutes" json:"half_life_minutes"`
}

func Default() Scorer {
	return Scorer{
		RecencyWeight:    DefaultRecencyWeight,
		EngagementWeight: DefaultEngagementWeight,
		HalfLifeMinutes:  DefaultHalfLifeMinutes,
	}
}

func (s Scorer) Score(ageMinutes float64, engagement int) float64 {
	return s.RecencyWeight*math.Exp(-ageMinutes/s.HalfLifeMinutes) +
		s.EngagementWeight*math.Log1p(float64(engagement))
}

// Validate rejects configurations that would break monotonicity.
func (s Scorer) Validate() error {
	if s.RecencyWeight <= 0 {
		return fmt.Errorf("recency weight must be positive, got %v", s.RecencyWeight)
	}
	if s.EngagementWeight < 0 {
		return fmt.Errorf("engagement weight must not be negative, got %v", s.EngagementWeight)
	}
	if s.HalfLifeMinutes <= 0 {
		return fmt.Errorf("half life must be positive, got %v", s.HalfLifeMinutes)
	}
	return nil
}

// Round4 rounds a score to 4 decimal digits for presentation.
func Round4(score float64) float64 {
	return math.Round(score*1e4) / 1e4
}
