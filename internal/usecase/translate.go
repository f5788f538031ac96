package usecase

import (
	"context"
	"log/slog"

	"github.com/cheggaaa/pb/v3"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
	"github.com/ProjectCodeKw/reviewharvest/internal/ports"
)

// TranslateReport counts how many reviews the service actually transformed.
type TranslateReport struct {
	Total    int
	FellBack int
}

// Translate runs the text-transformation service over a table. Service
// failures pass the original text through, so the output always has the same
// number of rows as the input.
type Translate struct {
	translator ports.Translator
	logger     *slog.Logger
}

// NewTranslate wires the translator adapter.
func NewTranslate(translator ports.Translator, logger *slog.Logger) *Translate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translate{translator: translator, logger: logger}
}

// Run transforms every review's text in place, row order preserved.
func (t *Translate) Run(ctx context.Context, reviews []domain.Review, progress *pb.ProgressBar) ([]domain.Review, TranslateReport) {
	report := TranslateReport{Total: len(reviews)}
	out := make([]domain.Review, len(reviews))

	for i, review := range reviews {
		result := t.translator.Translate(ctx, review.Text)
		if result.FellBack {
			report.FellBack++
		}
		review.Text = result.Text
		out[i] = review
		tick(progress)
	}

	t.logger.Info("translation pass done", "total", report.Total, "fell_back", report.FellBack)
	return out, report
}
