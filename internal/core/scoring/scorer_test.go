package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_FreshUnliked(t *testing.T) {
	assert.InDelta(t, 0.7, Default().Score(0, 0), 1e-12)
}

func TestScore_KnownValues(t *testing.T) {
	s := Default()

	// one half-life constant old, no likes
	assert.InDelta(t, 0.7*math.Exp(-1), s.Score(720, 0), 1e-12)
	// fresh, 9 likes -> ln(10)
	assert.InDelta(t, 0.7+0.3*math.Log(10), s.Score(0, 9), 1e-12)
}

func TestScore_StrictlyDecreasingInAge(t *testing.T) {
	s := Default()
	for _, likes := range []int{0, 1, 10, 500} {
		prev := s.Score(0, likes)
		for age := 1.0; age <= 1440; age += 7.5 {
			cur := s.Score(age, likes)
			assert.Less(t, cur, prev, "likes=%d age=%v", likes, age)
			prev = cur
		}
	}
}

func TestScore_NonDecreasingInEngagement(t *testing.T) {
	s := Default()
	for _, age := range []float64{0, 30, 720, 1439} {
		prev := s.Score(age, 0)
		for likes := 1; likes <= 1000; likes++ {
			cur := s.Score(age, likes)
			assert.GreaterOrEqual(t, cur, prev, "age=%v likes=%d", age, likes)
			prev = cur
		}
	}
}

func TestScore_DiminishingReturns(t *testing.T) {
	s := Default()
	base := s.Score(60, 0)
	gain10 := s.Score(60, 10) - base
	gain20 := s.Score(60, 20) - base
	assert.Less(t, gain20, 2*gain10)
}

func TestScore_Deterministic(t *testing.T) {
	s := Default()
	first := s.Score(123.456, 42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, s.Score(123.456, 42))
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())
	assert.Error(t, Scorer{RecencyWeight: 0, EngagementWeight: 0.3, HalfLifeMinutes: 720}.Validate())
	assert.Error(t, Scorer{RecencyWeight: 0.7, EngagementWeight: -1, HalfLifeMinutes: 720}.Validate())
	assert.Error(t, Scorer{RecencyWeight: 0.7, EngagementWeight: 0.3, HalfLifeMinutes: 0}.Validate())
}

func TestRound4(t *testing.T) {
	assert.Equal(t, 0.7, Round4(0.70000001))
	assert.Equal(t, 1.2346, Round4(1.23456))
	assert.Equal(t, 0.2575, Round4(0.7*math.Exp(-1)))
}

func BenchmarkScore(b *testing.B) {
	s := Default()
	for i := 0; i < b.N; i++ {
		s.Score(float64(i%1440), i%300)
	}
}
