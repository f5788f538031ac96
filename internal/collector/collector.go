package collector

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
	"github.com/ProjectCodeKw/reviewharvest/internal/ports"
	"github.com/ProjectCodeKw/reviewharvest/pkg/ratelimit"
)

// fetchOrder fixes the per-subject category sequence.
var fetchOrder = []domain.Category{domain.CategoryPositive, domain.CategoryNegative}

// Outcome summarizes one subject's collection session.
type Outcome struct {
	SubjectID   string
	SubjectName string
	Accepted    map[domain.Category]int
	Duplicates  int
	Rejected    int
	Pages       int
	Failed      bool
}

// Total sums accepted records across categories.
func (o Outcome) Total() int {
	n := 0
	for _, v := range o.Accepted {
		n += v
	}
	return n
}

// Collector runs the paginated fetch loop for one subject and category at a
// time, fully sequentially. Every failure degrades to "keep partial results
// and move on"; nothing here is fatal to the overall run.
type Collector struct {
	filter   *Filter
	limiter  *ratelimit.Limiter
	maxPages int
	logger   *slog.Logger
}

// New wires the collector. maxPages is the safety ceiling against unbounded
// crawling; values below 1 fall back to 50.
func New(filter *Filter, limiter *ratelimit.Limiter, maxPages int, logger *slog.Logger) *Collector {
	if maxPages < 1 {
		maxPages = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{filter: filter, limiter: limiter, maxPages: maxPages, logger: logger}
}

// Collect fetches up to needs[category] new reviews per category for the
// subject. It stops a category when the quota is met, the source runs out of
// pages, the page ceiling triggers, or a page fails.
func (c *Collector) Collect(ctx context.Context, src ports.ReviewSource, subject domain.Subject, needs Needs, meta domain.SubjectMetadata) ([]domain.Review, Outcome) {
	outcome := Outcome{
		SubjectID:   subject.ID,
		SubjectName: subject.Name,
		Accepted:    make(map[domain.Category]int, len(fetchOrder)),
	}

	var collected []domain.Review
	for _, category := range fetchOrder {
		need := needs[category]
		if need == 0 {
			continue
		}

		reviews := c.collectCategory(ctx, src, subject, category, need, meta, &outcome)
		outcome.Accepted[category] = len(reviews)
		collected = append(collected, reviews...)
	}

	return collected, outcome
}

func (c *Collector) collectCategory(ctx context.Context, src ports.ReviewSource, subject domain.Subject, category domain.Category, need int, meta domain.SubjectMetadata, outcome *Outcome) []domain.Review {
	var (
		accepted []domain.Review
		cursor   string
		pages    int
		retried  bool
	)

	for len(accepted) < need && pages < c.maxPages {
		if err := c.limiter.Wait(ctx, src.Name()); err != nil {
			c.logger.Warn("wait interrupted", "subject", subject.Name, "error", err)
			break
		}

		page, err := src.FetchPage(ctx, subject, category, cursor)
		if err != nil {
			if errors.Is(err, ports.ErrRateLimited) && !retried {
				retried = true
				c.limiter.Backoff(src.Name())
				c.logger.Warn("rate limited, backing off once",
					"source", src.Name(), "subject", subject.Name)
				continue
			}
			// Best effort: keep what we have for this category and move on.
			c.logger.Warn("page fetch failed",
				"source", src.Name(), "subject", subject.Name,
				"category", category, "page", pages, "error", err)
			outcome.Failed = true
			break
		}

		pages++
		outcome.Pages++

		for _, cand := range page.Candidates {
			review, verdict := c.filter.Accept(subject, src.Name(), category, cand, meta)
			switch verdict {
			case Accepted:
				accepted = append(accepted, review)
			case Duplicate:
				outcome.Duplicates++
			default:
				outcome.Rejected++
			}
			if len(accepted) >= need {
				break
			}
		}

		c.logger.Debug("page processed",
			"source", src.Name(), "subject", subject.Name, "category", category,
			"page", pages, "accepted", len(accepted), "need", need)

		if page.Next == "" {
			break
		}
		cursor = page.Next
	}

	return accepted
}
