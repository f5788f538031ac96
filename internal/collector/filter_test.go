package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
)

var testSubject = domain.Subject{ID: "42", Name: "Sample Game"}

func newTestFilter(tracker *Tracker) *Filter {
	return NewFilter(domain.DefaultThresholds(), 3, tracker)
}

func scored(reviewer, text string, score float64) domain.Candidate {
	return domain.Candidate{ReviewerID: reviewer, Text: text, Score: score, Scored: true}
}

func TestFilterNeutralBandRejectedByBothCategories(t *testing.T) {
	t.Parallel()

	filter := newTestFilter(NewTracker(nil))
	cand := scored("u1", "middling game, not sure about it", 5)

	_, verdict := filter.Accept(testSubject, "metacritic", domain.CategoryPositive, cand, domain.SubjectMetadata{})
	assert.Equal(t, WrongCategory, verdict)

	_, verdict = filter.Accept(testSubject, "metacritic", domain.CategoryNegative, cand, domain.SubjectMetadata{})
	assert.Equal(t, WrongCategory, verdict)
}

func TestFilterShortTextRejectedAfterCategoryCheck(t *testing.T) {
	t.Parallel()

	filter := newTestFilter(NewTracker(nil))

	_, verdict := filter.Accept(testSubject, "metacritic", domain.CategoryPositive,
		scored("u1", "great", 9), domain.SubjectMetadata{})
	assert.Equal(t, TooShort, verdict)
}

func TestFilterAcceptTracksIdentityImmediately(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(nil)
	filter := newTestFilter(tracker)
	cand := scored("u1", "really good game worth playing", 9)

	review, verdict := filter.Accept(testSubject, "metacritic", domain.CategoryPositive, cand, domain.SubjectMetadata{})
	assert.Equal(t, Accepted, verdict)
	assert.Equal(t, domain.CategoryPositive, review.Category)
	assert.True(t, tracker.Contains(domain.IdentityKey{ReviewerID: "u1", SubjectID: "42"}))

	// The same reviewer on a later overlapping page is a within-run duplicate.
	_, verdict = filter.Accept(testSubject, "metacritic", domain.CategoryPositive, cand, domain.SubjectMetadata{})
	assert.Equal(t, Duplicate, verdict)
}

func TestFilterVoteOnlyCandidates(t *testing.T) {
	t.Parallel()

	filter := newTestFilter(NewTracker(nil))
	cand := domain.Candidate{ReviewerID: "u2", Text: "thumbs down from me overall", VotedUp: false}

	_, verdict := filter.Accept(testSubject, "steam", domain.CategoryNegative, cand, domain.SubjectMetadata{})
	assert.Equal(t, Accepted, verdict)

	cand.ReviewerID = "u3"
	_, verdict = filter.Accept(testSubject, "steam", domain.CategoryPositive, cand, domain.SubjectMetadata{})
	assert.Equal(t, WrongCategory, verdict)
}

func TestFilterAnonymousReviewersNeverDeduplicated(t *testing.T) {
	t.Parallel()

	filter := newTestFilter(NewTracker(nil))
	cand := scored("Anonymous", "fun little platformer with charm", 8)

	_, verdict := filter.Accept(testSubject, "metacritic", domain.CategoryPositive, cand, domain.SubjectMetadata{})
	assert.Equal(t, Accepted, verdict)

	_, verdict = filter.Accept(testSubject, "metacritic", domain.CategoryPositive, cand, domain.SubjectMetadata{})
	assert.Equal(t, Accepted, verdict)
}
