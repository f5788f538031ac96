package csvtable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
	"github.com/ProjectCodeKw/reviewharvest/internal/ports"
)

// Header is the canonical column layout of the persisted table.
var Header = []string{
	"game_name", "app_id", "price_usd", "age_rating", "game_mode", "genres",
	"user_id", "review_text", "voted_up", "votes_helpful", "votes_funny",
	"created", "user_score", "source", "game_avg_score",
}

// Store persists the review table as a single CSV file. The file is read
// fully at run start and rewritten wholesale on save; the process owns the
// path for the duration of the run.
type Store struct {
	path       string
	thresholds domain.ScoreThresholds
}

var _ ports.ReviewTable = (*Store)(nil)

// NewStore binds the store to a file path. Thresholds are used to derive a
// category for rows that carry only a numeric score.
func NewStore(path string, thresholds domain.ScoreThresholds) *Store {
	return &Store{path: path, thresholds: thresholds}
}

// Load reads the persisted table. A missing file means an empty table.
func (s *Store) Load() ([]domain.Review, error) {
	return LoadFile(s.path, s.thresholds)
}

// Save overwrites the destination with the full table.
func (s *Store) Save(reviews []domain.Review) error {
	return SaveFile(s.path, reviews)
}

// LoadFile reads any review CSV, tolerating both the canonical column order
// and older files lacking trailing columns.
func LoadFile(path string, thresholds domain.ScoreThresholds) ([]domain.Review, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open table %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := indexColumns(rows[0])
	reviews := make([]domain.Review, 0, len(rows)-1)
	for _, row := range rows[1:] {
		reviews = append(reviews, decodeRow(row, col, thresholds))
	}
	return reviews, nil
}

// SaveFile writes the table to path, creating parent directories as needed.
func SaveFile(path string, reviews []domain.Review) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create table dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create table %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, review := range reviews {
		if err := w.Write(encodeRow(review)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func indexColumns(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	return col
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return domain.UnknownValue
	}
	return row[i]
}

func decodeRow(row []string, col map[string]int, thresholds domain.ScoreThresholds) domain.Review {
	review := domain.Review{
		SubjectName: field(row, col, "game_name"),
		SubjectID:   field(row, col, "app_id"),
		ReviewerID:  field(row, col, "user_id"),
		Text:        field(row, col, "review_text"),
		CreatedAt:   field(row, col, "created"),
		Source:      field(row, col, "source"),
	}

	if price, err := strconv.ParseFloat(field(row, col, "price_usd"), 64); err == nil {
		review.Meta.PriceUSD = price
		review.Meta.HasPrice = true
		review.Meta.Known = true
	}
	if age, err := strconv.Atoi(field(row, col, "age_rating")); err == nil {
		review.Meta.AgeRating = age
		review.Meta.Known = true
	}
	if mode := field(row, col, "game_mode"); mode != domain.UnknownValue {
		review.Meta.GameMode = mode
		review.Meta.Known = true
	}
	if genres := field(row, col, "genres"); genres != domain.UnknownValue {
		review.Meta.Genres = genres
		review.Meta.Known = true
	}

	if helpful, err := strconv.Atoi(field(row, col, "votes_helpful")); err == nil {
		review.VotesHelpful = helpful
		review.HasVotes = true
	}
	if funny, err := strconv.Atoi(field(row, col, "votes_funny")); err == nil {
		review.VotesFunny = funny
	}

	if score, err := strconv.ParseFloat(field(row, col, "user_score"), 64); err == nil {
		review.UserScore = score
		review.Scored = true
	}
	if avg, err := strconv.ParseFloat(field(row, col, "game_avg_score"), 64); err == nil {
		review.GameAvgScore = avg
		review.HasGameAvg = true
	}

	switch strings.ToLower(field(row, col, "voted_up")) {
	case "true":
		review.Category = domain.CategoryPositive
	case "false":
		review.Category = domain.CategoryNegative
	default:
		if review.Scored {
			review.Category = thresholds.Categorize(review.UserScore)
		} else {
			review.Category = domain.CategoryNeutral
		}
	}

	return review
}

func encodeRow(r domain.Review) []string {
	na := domain.UnknownValue

	price := na
	if r.Meta.Known && r.Meta.HasPrice {
		price = strconv.FormatFloat(r.Meta.PriceUSD, 'f', 2, 64)
	}
	age := na
	if r.Meta.Known {
		age = strconv.Itoa(r.Meta.AgeRating)
	}
	mode, genres := na, na
	if r.Meta.Known && r.Meta.GameMode != "" {
		mode = r.Meta.GameMode
	}
	if r.Meta.Known && r.Meta.Genres != "" {
		genres = r.Meta.Genres
	}

	votedUp := na
	switch r.Category {
	case domain.CategoryPositive:
		votedUp = "true"
	case domain.CategoryNegative:
		votedUp = "false"
	}

	helpful, funny := na, na
	if r.HasVotes {
		helpful = strconv.Itoa(r.VotesHelpful)
		funny = strconv.Itoa(r.VotesFunny)
	}

	score := na
	if r.Scored {
		score = strconv.FormatFloat(r.UserScore, 'f', -1, 64)
	}
	gameAvg := na
	if r.HasGameAvg {
		gameAvg = strconv.FormatFloat(r.GameAvgScore, 'f', 2, 64)
	}

	return []string{
		r.SubjectName, r.SubjectID, price, age, mode, genres,
		r.ReviewerID, r.Text, votedUp, helpful, funny,
		r.CreatedAt, score, r.Source, gameAvg,
	}
}
