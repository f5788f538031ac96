package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
	"github.com/ProjectCodeKw/reviewharvest/pkg/ratelimit"
)

type fakeSource struct {
	pages   map[domain.Category]domain.Page
	fetches int
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) FetchPage(_ context.Context, _ domain.Subject, category domain.Category, _ string) (domain.Page, error) {
	s.fetches++
	return s.pages[category], nil
}

type memTable struct {
	reviews []domain.Review
	saves   int
}

func (t *memTable) Load() ([]domain.Review, error) {
	return append([]domain.Review(nil), t.reviews...), nil
}

func (t *memTable) Save(reviews []domain.Review) error {
	t.reviews = append([]domain.Review(nil), reviews...)
	t.saves++
	return nil
}

type memArchive struct {
	batches [][]domain.Review
	runIDs  []string
	keys    []domain.IdentityKey
}

func (a *memArchive) SaveBatch(_ context.Context, runID string, reviews []domain.Review) error {
	a.runIDs = append(a.runIDs, runID)
	a.batches = append(a.batches, reviews)
	return nil
}

func (a *memArchive) Identities(_ context.Context, _ []string) ([]domain.IdentityKey, error) {
	return a.keys, nil
}

type memNotifier struct {
	reports []string
}

func (n *memNotifier) PublishReport(_ context.Context, report string) error {
	n.reports = append(n.reports, report)
	return nil
}

func voteOnlyPage(positive bool, count int) domain.Page {
	prefix := "neg"
	if positive {
		prefix = "pos"
	}
	page := domain.Page{}
	for i := 0; i < count; i++ {
		page.Candidates = append(page.Candidates, domain.Candidate{
			ReviewerID: fmt.Sprintf("%s-user-%d", prefix, i),
			Text:       "plenty of words to clear the minimum length bar",
			VotedUp:    positive,
			HasVotes:   true,
		})
	}
	return page
}

func testHarvest(source *fakeSource, table *memTable, archive *memArchive, notifier *memNotifier) *Harvest {
	deps := HarvestDeps{
		Source:  source,
		Table:   table,
		Limiter: ratelimit.New(0, 0),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if archive != nil {
		deps.Archive = archive
	}
	if notifier != nil {
		deps.Notifier = notifier
	}
	return NewHarvest(deps, HarvestOptions{
		Subjects:         []domain.Subject{{ID: "100", Name: "Portal"}},
		TargetPerSubject: 4,
		Thresholds:       domain.DefaultThresholds(),
		MinWords:         5,
		MaxPages:         10,
	})
}

func TestRunCollectsUpToQuota(t *testing.T) {
	t.Parallel()

	source := &fakeSource{pages: map[domain.Category]domain.Page{
		domain.CategoryPositive: voteOnlyPage(true, 5),
		domain.CategoryNegative: voteOnlyPage(false, 5),
	}}
	table := &memTable{}
	archive := &memArchive{}
	notifier := &memNotifier{}

	report, err := testHarvest(source, table, archive, notifier).Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 4, report.NewReviews)
	assert.Len(t, table.reviews, 4)
	assert.Equal(t, 1, table.saves)

	require.Len(t, archive.batches, 1)
	assert.Len(t, archive.batches[0], 4)
	assert.Equal(t, report.RunID, archive.runIDs[0])

	require.Len(t, notifier.reports, 1)
	assert.Contains(t, notifier.reports[0], report.RunID)
	assert.Contains(t, notifier.reports[0], "Portal")
}

func TestSecondRunWithNoNewRemoteDataAddsNothing(t *testing.T) {
	t.Parallel()

	source := &fakeSource{pages: map[domain.Category]domain.Page{
		domain.CategoryPositive: voteOnlyPage(true, 5),
		domain.CategoryNegative: voteOnlyPage(false, 5),
	}}
	table := &memTable{}

	first, err := testHarvest(source, table, nil, nil).Run(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 4, first.NewReviews)

	second, err := testHarvest(source, table, nil, nil).Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Zero(t, second.NewReviews)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, table.reviews, 4)
}

func TestSubjectAtTargetIsSkippedWithoutFetching(t *testing.T) {
	t.Parallel()

	var existing []domain.Review
	for i := 0; i < 2; i++ {
		existing = append(existing,
			domain.Review{SubjectID: "100", ReviewerID: fmt.Sprintf("p%d", i), Category: domain.CategoryPositive},
			domain.Review{SubjectID: "100", ReviewerID: fmt.Sprintf("n%d", i), Category: domain.CategoryNegative},
		)
	}
	source := &fakeSource{}
	table := &memTable{reviews: existing}

	report, err := testHarvest(source, table, nil, nil).Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, source.fetches)
	assert.Zero(t, report.NewReviews)
}

func TestArchiveIdentitiesSeedTheTracker(t *testing.T) {
	t.Parallel()

	source := &fakeSource{pages: map[domain.Category]domain.Page{
		domain.CategoryPositive: voteOnlyPage(true, 5),
		domain.CategoryNegative: voteOnlyPage(false, 5),
	}}
	table := &memTable{}
	archive := &memArchive{keys: []domain.IdentityKey{
		{ReviewerID: "pos-user-0", SubjectID: "100"},
		{ReviewerID: "pos-user-1", SubjectID: "100"},
	}}

	report, err := testHarvest(source, table, archive, nil).Run(context.Background(), nil)
	require.NoError(t, err)

	// The two archived reviewers are skipped as duplicates; the quota is
	// still met from the remaining candidates.
	assert.Equal(t, 4, report.NewReviews)
	assert.Equal(t, 2, report.Duplicates)
	for _, r := range table.reviews {
		assert.NotEqual(t, "pos-user-0", r.ReviewerID)
		assert.NotEqual(t, "pos-user-1", r.ReviewerID)
	}
}
