package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
)

// Stats summarizes a dataset for eyeballing balance before training.
type Stats struct {
	Total           int
	UniqueGames     int
	UniqueGenres    int
	UniqueReviewers int
	BySource        map[string]int
	ByCategory      map[domain.Category]int
}

// Compute walks the table once and aggregates the counts.
func Compute(reviews []domain.Review) Stats {
	games := make(map[string]struct{})
	genres := make(map[string]struct{})
	reviewers := make(map[string]struct{})
	bySource := make(map[string]int)
	byCategory := make(map[domain.Category]int)

	for _, r := range reviews {
		games[r.SubjectName] = struct{}{}
		if r.Identity().Trackable() {
			reviewers[r.ReviewerID] = struct{}{}
		}
		for _, g := range strings.Split(r.Meta.Genres, ",") {
			g = strings.ToLower(strings.TrimSpace(g))
			if g != "" && g != strings.ToLower(domain.UnknownValue) {
				genres[g] = struct{}{}
			}
		}
		bySource[r.Source]++
		byCategory[r.Category]++
	}

	return Stats{
		Total:           len(reviews),
		UniqueGames:     len(games),
		UniqueGenres:    len(genres),
		UniqueReviewers: len(reviewers),
		BySource:        bySource,
		ByCategory:      byCategory,
	}
}

// String renders the summary in a stable order.
func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "reviews: %d\n", s.Total)
	fmt.Fprintf(&b, "unique games: %d\n", s.UniqueGames)
	fmt.Fprintf(&b, "unique genres: %d\n", s.UniqueGenres)
	fmt.Fprintf(&b, "unique reviewers: %d\n", s.UniqueReviewers)

	fmt.Fprintf(&b, "by source:\n")
	for _, source := range sortedKeys(s.BySource) {
		count := s.BySource[source]
		fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", source, count, percent(count, s.Total))
	}

	fmt.Fprintf(&b, "by category:\n")
	for _, category := range []domain.Category{domain.CategoryPositive, domain.CategoryNegative, domain.CategoryNeutral} {
		if count, ok := s.ByCategory[category]; ok {
			fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", category, count, percent(count, s.Total))
		}
	}

	return b.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
