package domain

import (
	"fmt"
	"strings"
)

// Category is the sentiment bucket a review is collected for.
type Category string

const (
	CategoryPositive Category = "positive"
	CategoryNegative Category = "negative"
	CategoryNeutral  Category = "neutral"
)

// Sentinel written to table cells whose value is unknown for a source.
const UnknownValue = "N/A"

// placeholderReviewers are identities that mean "anonymous/unknown"; records
// carrying them are never deduplicated.
var placeholderReviewers = map[string]struct{}{
	"":           {},
	UnknownValue: {},
	"Anonymous":  {},
}

// IdentityKey is the (reviewer, subject) pair used for deduplication.
type IdentityKey struct {
	ReviewerID string
	SubjectID  string
}

// Trackable reports whether the key carries a real reviewer identity.
func (k IdentityKey) Trackable() bool {
	_, placeholder := placeholderReviewers[k.ReviewerID]
	return !placeholder
}

// Subject is the entity being reviewed (a game).
type Subject struct {
	ID   string
	Name string
	// Refs holds per-source locators, e.g. a Metacritic slug.
	Refs map[string]string
}

// Ref returns the source-specific locator for the subject, if configured.
func (s Subject) Ref(source string) (string, bool) {
	ref, ok := s.Refs[source]
	return ref, ok
}

// SubjectMetadata is store metadata attached to every review of a subject.
type SubjectMetadata struct {
	PriceUSD  float64
	HasPrice  bool
	AgeRating int
	GameMode  string
	Genres    string
	Known     bool
}

// Candidate is a raw scraped record not yet validated against filters.
type Candidate struct {
	ReviewerID string
	Text       string
	// Score is the source-native 0-10 rating when Scored is true; otherwise
	// the source only exposed a thumb vote in VotedUp.
	Score        float64
	Scored       bool
	VotedUp      bool
	VotesHelpful int
	VotesFunny   int
	HasVotes     bool
	CreatedAt    string
}

// Page is one fetched page of candidates plus the cursor for the next one.
// An empty Next cursor terminates pagination.
type Page struct {
	Candidates []Candidate
	Next       string
}

// Review is one collected, validated record.
type Review struct {
	SubjectID    string
	SubjectName  string
	ReviewerID   string
	Text         string
	Category     Category
	UserScore    float64
	Scored       bool
	VotesHelpful int
	VotesFunny   int
	HasVotes     bool
	CreatedAt    string
	Source       string
	Meta         SubjectMetadata
	GameAvgScore float64
	HasGameAvg   bool
}

// Identity derives the deduplication key for the review.
func (r Review) Identity() IdentityKey {
	return IdentityKey{ReviewerID: r.ReviewerID, SubjectID: r.SubjectID}
}

// WordCount counts whitespace-separated tokens in the review text.
func (r Review) WordCount() int {
	return len(strings.Fields(r.Text))
}

// NewReview validates required fields at construction time.
func NewReview(subject Subject, source string, category Category, cand Candidate, meta SubjectMetadata) (Review, error) {
	if subject.ID == "" {
		return Review{}, fmt.Errorf("review for %q: empty subject id", subject.Name)
	}
	if strings.TrimSpace(cand.Text) == "" {
		return Review{}, fmt.Errorf("review for %q: empty text", subject.Name)
	}
	if category != CategoryPositive && category != CategoryNegative && category != CategoryNeutral {
		return Review{}, fmt.Errorf("review for %q: unknown category %q", subject.Name, category)
	}

	reviewer := strings.TrimSpace(cand.ReviewerID)
	if reviewer == "" {
		reviewer = UnknownValue
	}

	return Review{
		SubjectID:    subject.ID,
		SubjectName:  subject.Name,
		ReviewerID:   reviewer,
		Text:         cand.Text,
		Category:     category,
		UserScore:    cand.Score,
		Scored:       cand.Scored,
		VotesHelpful: cand.VotesHelpful,
		VotesFunny:   cand.VotesFunny,
		HasVotes:     cand.HasVotes,
		CreatedAt:    cand.CreatedAt,
		Source:       source,
		Meta:         meta,
	}, nil
}

// TranslationResult is the outcome of the opaque text-transformation service:
// either the transformed text or the original passed through unchanged.
type TranslationResult struct {
	Text     string
	FellBack bool
}

// Ok wraps successfully transformed text.
func Ok(text string) TranslationResult {
	return TranslationResult{Text: text}
}

// Fallback passes the original text through after a service failure.
func Fallback(original string) TranslationResult {
	return TranslationResult{Text: original, FellBack: true}
}
