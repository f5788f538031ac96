package domain

// ScoreThresholds maps a source-native 0-10 rating onto sentiment categories.
// Scores strictly between NegativeMax and PositiveMin fall into the neutral
// band. The bounds are configurable because the upstream sources disagree on
// where neutral starts.
type ScoreThresholds struct {
	PositiveMin float64
	NegativeMax float64
}

// DefaultThresholds matches the Metacritic convention: positive >= 7,
// negative <= 4.
func DefaultThresholds() ScoreThresholds {
	return ScoreThresholds{PositiveMin: 7, NegativeMax: 4}
}

// Categorize buckets a numeric score.
func (t ScoreThresholds) Categorize(score float64) Category {
	switch {
	case score >= t.PositiveMin:
		return CategoryPositive
	case score <= t.NegativeMax:
		return CategoryNegative
	default:
		return CategoryNeutral
	}
}
