package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"

	"github.com/ProjectCodeKw/reviewharvest/internal/collector"
	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
	"github.com/ProjectCodeKw/reviewharvest/internal/ports"
	"github.com/ProjectCodeKw/reviewharvest/pkg/ratelimit"
)

// HarvestDeps wires all driven adapters into the harvest use case.
type HarvestDeps struct {
	Source   ports.ReviewSource
	Table    ports.ReviewTable
	Metadata ports.MetadataProvider
	Archive  ports.ReviewArchive
	Notifier ports.Notifier
	Limiter  *ratelimit.Limiter
	Logger   *slog.Logger
}

// HarvestOptions carries the collection parameters resolved from config.
type HarvestOptions struct {
	Subjects         []domain.Subject
	TargetPerSubject int
	Thresholds       domain.ScoreThresholds
	MinWords         int
	MaxPages         int
	SubjectCooldown  time.Duration
}

// Report summarizes a harvest run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []collector.Outcome
	NewReviews int
	Duplicates int
	Rejected   int
	Skipped    int
}

// Digest renders the report for logs and notification channels.
func (r Report) Digest() string {
	var b strings.Builder
	fmt.Fprintf(&b, "harvest %s\n", r.RunID)
	fmt.Fprintf(&b, "new: %d, duplicates skipped: %d, rejected: %d, subjects at target: %d\n",
		r.NewReviews, r.Duplicates, r.Rejected, r.Skipped)
	for _, o := range r.Outcomes {
		fmt.Fprintf(&b, "- %s: +%d (%d pos / %d neg), %d pages\n",
			o.SubjectName, o.Total(),
			o.Accepted[domain.CategoryPositive], o.Accepted[domain.CategoryNegative],
			o.Pages)
	}
	return b.String()
}

// Harvest implements the incremental, deduplicated, quota-balanced collection
// workflow: one subject at a time, one category at a time, one page at a time.
type Harvest struct {
	deps HarvestDeps
	opts HarvestOptions
}

// NewHarvest constructs the orchestration component.
func NewHarvest(deps HarvestDeps, opts HarvestOptions) *Harvest {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Harvest{deps: deps, opts: opts}
}

// Run loads the persisted table, plans per-subject quotas, collects what is
// still needed, and persists the merged table after each subject. Failures
// degrade to skip-and-continue; the output always reflects whatever was
// collected before any failure.
func (h *Harvest) Run(ctx context.Context, progress *pb.ProgressBar) (Report, error) {
	existing, err := h.deps.Table.Load()
	if err != nil {
		return Report{}, fmt.Errorf("load table: %w", err)
	}

	tracker := collector.NewTracker(existing)
	h.seedFromArchive(ctx, tracker)

	counts := collector.CountBySubject(existing)
	planner := collector.NewPlanner(h.opts.TargetPerSubject)
	filter := collector.NewFilter(h.opts.Thresholds, h.opts.MinWords, tracker)
	col := collector.New(filter, h.deps.Limiter, h.opts.MaxPages, h.deps.Logger)

	report := Report{RunID: uuid.NewString(), StartedAt: time.Now()}
	table := existing

	h.deps.Logger.Info("harvest started",
		"run_id", report.RunID, "subjects", len(h.opts.Subjects),
		"existing", len(existing), "tracked_identities", tracker.Len())

	for _, subject := range h.opts.Subjects {
		needs := planner.Needed(counts[subject.ID])
		if needs.Empty() {
			h.deps.Logger.Info("target already reached, skipping", "subject", subject.Name)
			report.Skipped++
			tick(progress)
			continue
		}

		meta := h.lookupMetadata(ctx, subject)

		reviews, outcome := col.Collect(ctx, h.deps.Source, subject, needs, meta)
		report.Outcomes = append(report.Outcomes, outcome)
		report.NewReviews += outcome.Total()
		report.Duplicates += outcome.Duplicates
		report.Rejected += outcome.Rejected

		if len(reviews) > 0 {
			table = append(table, reviews...)
			if err := h.deps.Table.Save(table); err != nil {
				h.deps.Logger.Error("persist table failed", "subject", subject.Name, "error", err)
			}
			h.archiveBatch(ctx, report.RunID, reviews)

			c := counts[subject.ID]
			c.Positive += outcome.Accepted[domain.CategoryPositive]
			c.Negative += outcome.Accepted[domain.CategoryNegative]
			counts[subject.ID] = c
		}

		h.deps.Logger.Info("subject done",
			"subject", subject.Name, "accepted", outcome.Total(),
			"duplicates", outcome.Duplicates, "rejected", outcome.Rejected,
			"pages", outcome.Pages)

		tick(progress)
		h.cooldown(ctx)
	}

	report.FinishedAt = time.Now()

	if h.deps.Notifier != nil {
		if err := h.deps.Notifier.PublishReport(ctx, report.Digest()); err != nil {
			h.deps.Logger.Warn("publish report failed", "error", err)
		}
	}

	h.deps.Logger.Info("harvest finished",
		"run_id", report.RunID, "new", report.NewReviews,
		"duplicates", report.Duplicates, "rejected", report.Rejected)

	return report, nil
}

func (h *Harvest) seedFromArchive(ctx context.Context, tracker *collector.Tracker) {
	if h.deps.Archive == nil {
		return
	}

	ids := make([]string, 0, len(h.opts.Subjects))
	for _, s := range h.opts.Subjects {
		ids = append(ids, s.ID)
	}

	keys, err := h.deps.Archive.Identities(ctx, ids)
	if err != nil {
		h.deps.Logger.Warn("archive identity scan failed", "error", err)
		return
	}
	for _, key := range keys {
		tracker.Add(key)
	}
}

func (h *Harvest) lookupMetadata(ctx context.Context, subject domain.Subject) domain.SubjectMetadata {
	if h.deps.Metadata == nil {
		return domain.SubjectMetadata{}
	}
	meta, err := h.deps.Metadata.Lookup(ctx, subject)
	if err != nil {
		h.deps.Logger.Warn("metadata lookup failed", "subject", subject.Name, "error", err)
		return domain.SubjectMetadata{}
	}
	return meta
}

func (h *Harvest) archiveBatch(ctx context.Context, runID string, reviews []domain.Review) {
	if h.deps.Archive == nil {
		return
	}
	if err := h.deps.Archive.SaveBatch(ctx, runID, reviews); err != nil {
		h.deps.Logger.Warn("archive batch failed", "error", err)
	}
}

func (h *Harvest) cooldown(ctx context.Context) {
	if h.opts.SubjectCooldown <= 0 {
		return
	}
	select {
	case <-time.After(h.opts.SubjectCooldown):
	case <-ctx.Done():
	}
}

func tick(progress *pb.ProgressBar) {
	if progress != nil {
		progress.Increment()
	}
}
