package dataset

import (
	"regexp"
	"strings"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
)

var whitespaceExpr = regexp.MustCompile(`\s+`)

// CleanOptions bounds what survives cleaning.
type CleanOptions struct {
	MinWords      int
	MaxWords      int
	MaxFunnyVotes int
}

// DefaultCleanOptions mirrors the dataset's curation rules: 3-300 words, and
// reviews voted funny more than twice are dropped as likely sarcasm.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{MinWords: 3, MaxWords: 300, MaxFunnyVotes: 2}
}

// CleanReport counts what each rule removed.
type CleanReport struct {
	Input      int
	Duplicates int
	TooShort   int
	TooLong    int
	TooFunny   int
	Kept       int
}

// Clean normalizes review text (lowercase, collapsed whitespace) and drops
// exact-duplicate texts, out-of-bounds lengths, and over-funny reviews.
// First occurrence wins on duplicates; encounter order is preserved.
func Clean(reviews []domain.Review, opts CleanOptions) ([]domain.Review, CleanReport) {
	report := CleanReport{Input: len(reviews)}
	seen := make(map[string]struct{}, len(reviews))
	kept := make([]domain.Review, 0, len(reviews))

	for _, r := range reviews {
		r.Text = normalizeText(r.Text)

		if _, dup := seen[r.Text]; dup {
			report.Duplicates++
			continue
		}

		words := len(strings.Fields(r.Text))
		if words < opts.MinWords {
			report.TooShort++
			continue
		}
		if words > opts.MaxWords {
			report.TooLong++
			continue
		}
		if r.HasVotes && r.VotesFunny > opts.MaxFunnyVotes {
			report.TooFunny++
			continue
		}

		seen[r.Text] = struct{}{}
		kept = append(kept, r)
	}

	report.Kept = len(kept)
	return kept, report
}

func normalizeText(text string) string {
	text = strings.ToLower(text)
	text = whitespaceExpr.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
