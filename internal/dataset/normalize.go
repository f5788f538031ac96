package dataset

import (
	"math"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
)

const (
	defaultPositiveScore = 7
	defaultNegativeScore = 3
)

type scoreKey struct {
	game     string
	category domain.Category
}

// NormalizeScores assigns a numeric user score to vote-only reviews from the
// per-game per-category average of the reviews that do carry one, falling
// back to 7 for positive and 3 for negative. It then stamps every review
// with its game's overall average score.
func NormalizeScores(reviews []domain.Review) []domain.Review {
	averages := categoryAverages(reviews)

	normalized := make([]domain.Review, len(reviews))
	for i, r := range reviews {
		if !r.Scored {
			r.UserScore = assignedScore(averages, r)
			r.Scored = true
		}
		normalized[i] = r
	}

	gameAvg := overallAverages(normalized)
	for i := range normalized {
		if avg, ok := gameAvg[normalized[i].SubjectName]; ok {
			normalized[i].GameAvgScore = math.Round(avg*100) / 100
			normalized[i].HasGameAvg = true
		}
	}

	return normalized
}

func assignedScore(averages map[scoreKey]float64, r domain.Review) float64 {
	if avg, ok := averages[scoreKey{game: r.SubjectName, category: r.Category}]; ok {
		return math.Round(avg)
	}
	if r.Category == domain.CategoryPositive {
		return defaultPositiveScore
	}
	return defaultNegativeScore
}

func categoryAverages(reviews []domain.Review) map[scoreKey]float64 {
	sums := make(map[scoreKey]float64)
	counts := make(map[scoreKey]int)
	for _, r := range reviews {
		if !r.Scored {
			continue
		}
		key := scoreKey{game: r.SubjectName, category: r.Category}
		sums[key] += r.UserScore
		counts[key]++
	}

	averages := make(map[scoreKey]float64, len(sums))
	for key, sum := range sums {
		averages[key] = sum / float64(counts[key])
	}
	return averages
}

func overallAverages(reviews []domain.Review) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range reviews {
		if !r.Scored {
			continue
		}
		sums[r.SubjectName] += r.UserScore
		counts[r.SubjectName]++
	}

	averages := make(map[string]float64, len(sums))
	for game, sum := range sums {
		averages[game] = sum / float64(counts[game])
	}
	return averages
}
