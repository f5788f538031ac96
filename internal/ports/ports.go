package ports

import (
	"context"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
)

// ReviewSource walks a remote paginated review listing for one subject and
// category. Cursor is opaque; pass an empty string to start and stop when the
// returned page carries an empty next cursor.
type ReviewSource interface {
	Name() string
	FetchPage(ctx context.Context, subject domain.Subject, category domain.Category, cursor string) (domain.Page, error)
}

// ReviewTable is the persisted dataset: read fully at run start, overwritten
// on save.
type ReviewTable interface {
	Load() ([]domain.Review, error)
	Save(reviews []domain.Review) error
}

// MetadataProvider enriches a subject with store metadata (price, genres...).
type MetadataProvider interface {
	Lookup(ctx context.Context, subject domain.Subject) (domain.SubjectMetadata, error)
}

// Translator is the opaque text-transformation service. Failures degrade to a
// fallback result carrying the original text; they are never surfaced as
// errors.
type Translator interface {
	Translate(ctx context.Context, text string) domain.TranslationResult
}

// ReviewArchive keeps a relational copy of collected reviews for audit and
// cross-run identity scans.
type ReviewArchive interface {
	SaveBatch(ctx context.Context, runID string, reviews []domain.Review) error
	Identities(ctx context.Context, subjectIDs []string) ([]domain.IdentityKey, error)
}

// Notifier publishes the end-of-run digest to an external channel.
type Notifier interface {
	PublishReport(ctx context.Context, report string) error
}
