package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
	"github.com/ProjectCodeKw/reviewharvest/internal/ports"
)

// Archive keeps a relational copy of harvested reviews in Postgres for audit
// and for seeding the identity tracker across machines.
type Archive struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ReviewArchive = (*Archive)(nil)

// NewArchive wires a sql.DB implementation.
func NewArchive(db *sql.DB) *Archive {
	return &Archive{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveBatch upserts the reviews of one run, keyed by (reviewer_id, subject_id).
func (a *Archive) SaveBatch(ctx context.Context, runID string, reviews []domain.Review) error {
	if a.db == nil || len(reviews) == 0 {
		return nil
	}

	insert := a.builder.
		Insert("harvested_reviews").
		Columns("subject_id", "subject_name", "reviewer_id", "review_text",
			"category", "user_score", "source", "run_id")

	for _, r := range reviews {
		var score sql.NullFloat64
		if r.Scored {
			score = sql.NullFloat64{Float64: r.UserScore, Valid: true}
		}
		insert = insert.Values(r.SubjectID, r.SubjectName, r.ReviewerID, r.Text,
			string(r.Category), score, r.Source, runID)
	}

	query, args, err := insert.
		Suffix(`ON CONFLICT (reviewer_id, subject_id) DO UPDATE
                SET review_text = EXCLUDED.review_text,
                    category = EXCLUDED.category,
                    user_score = EXCLUDED.user_score,
                    run_id = EXCLUDED.run_id,
                    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}

// Identities returns every (reviewer, subject) pair archived for the given
// subjects, skipping placeholder reviewer identities.
func (a *Archive) Identities(ctx context.Context, subjectIDs []string) ([]domain.IdentityKey, error) {
	if a.db == nil || len(subjectIDs) == 0 {
		return nil, nil
	}

	query := `SELECT reviewer_id, subject_id FROM harvested_reviews WHERE subject_id = ANY($1)`

	rows, err := a.db.QueryContext(ctx, query, pq.StringArray(subjectIDs))
	if err != nil {
		return nil, fmt.Errorf("query identities: %w", err)
	}
	defer rows.Close()

	var keys []domain.IdentityKey
	for rows.Next() {
		var key domain.IdentityKey
		if err := rows.Scan(&key.ReviewerID, &key.SubjectID); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		if key.Trackable() {
			keys = append(keys, key)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return keys, nil
}
