package dataset

import (
	"math/rand"
	"sort"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
)

// Balance downsamples one source to a target row count by removing a single
// random review per game per round, so no game loses its representation
// disproportionately. Other sources pass through untouched. The seed makes
// runs reproducible.
func Balance(reviews []domain.Review, source string, target int, seed int64) []domain.Review {
	var sourceCount int
	for _, r := range reviews {
		if r.Source == source {
			sourceCount++
		}
	}
	if sourceCount <= target {
		return reviews
	}

	// Index source rows by game.
	byGame := make(map[string][]int)
	for i, r := range reviews {
		if r.Source == source {
			byGame[r.SubjectName] = append(byGame[r.SubjectName], i)
		}
	}

	games := make([]string, 0, len(byGame))
	for g := range byGame {
		games = append(games, g)
	}
	sort.Strings(games)

	rng := rand.New(rand.NewSource(seed))
	removed := make(map[int]struct{})

	for sourceCount > target {
		for _, game := range games {
			indices := byGame[game]
			if len(indices) == 0 {
				continue
			}
			pick := rng.Intn(len(indices))
			removed[indices[pick]] = struct{}{}
			byGame[game] = append(indices[:pick], indices[pick+1:]...)
			sourceCount--
			if sourceCount <= target {
				break
			}
		}
	}

	balanced := make([]domain.Review, 0, len(reviews)-len(removed))
	for i, r := range reviews {
		if _, gone := removed[i]; gone {
			continue
		}
		balanced = append(balanced, r)
	}
	return balanced
}
