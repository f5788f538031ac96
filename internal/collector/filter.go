package collector

import (
	"strings"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
)

// Verdict explains what the filter decided about a candidate.
type Verdict int

const (
	Accepted Verdict = iota
	WrongCategory
	TooShort
	Duplicate
	Malformed
)

// String names the verdict for logs.
func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case WrongCategory:
		return "wrong_category"
	case TooShort:
		return "too_short"
	case Duplicate:
		return "duplicate"
	default:
		return "malformed"
	}
}

// Filter validates raw candidates against the category being collected, a
// minimum word count, and the identity tracker.
type Filter struct {
	thresholds domain.ScoreThresholds
	minWords   int
	tracker    *Tracker
}

// NewFilter wires the filter to an explicit tracker instance.
func NewFilter(thresholds domain.ScoreThresholds, minWords int, tracker *Tracker) *Filter {
	return &Filter{thresholds: thresholds, minWords: minWords, tracker: tracker}
}

// Accept validates a candidate for the wanted category. Rejection reasons are
// checked in priority order: category mismatch, text length, duplicate
// identity. On acceptance the identity is added to the tracker immediately so
// overlapping pages within the same run are deduplicated too.
func (f *Filter) Accept(subject domain.Subject, source string, want domain.Category, cand domain.Candidate, meta domain.SubjectMetadata) (domain.Review, Verdict) {
	derived := f.derive(cand)
	if derived != want {
		return domain.Review{}, WrongCategory
	}

	if len(strings.Fields(cand.Text)) < f.minWords {
		return domain.Review{}, TooShort
	}

	key := domain.IdentityKey{ReviewerID: cand.ReviewerID, SubjectID: subject.ID}
	if f.tracker.Contains(key) {
		return domain.Review{}, Duplicate
	}

	review, err := domain.NewReview(subject, source, derived, cand, meta)
	if err != nil {
		return domain.Review{}, Malformed
	}

	f.tracker.Add(key)
	return review, Accepted
}

// derive buckets the candidate: scored candidates go through the configured
// thresholds (mid-range scores land in neutral and never match a positive or
// negative fetch), vote-only candidates map directly.
func (f *Filter) derive(cand domain.Candidate) domain.Category {
	if cand.Scored {
		return f.thresholds.Categorize(cand.Score)
	}
	if cand.VotedUp {
		return domain.CategoryPositive
	}
	return domain.CategoryNegative
}
