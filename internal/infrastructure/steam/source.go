package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
	"github.com/ProjectCodeKw/reviewharvest/internal/ports"
)

const (
	sourceName  = "steam"
	pageSize    = 100
	startCursor = "*"
)

// Source walks the Steam appreviews JSON API. Pagination is cursor based:
// each page returns the cursor for the next one, and an absent or repeated
// cursor ends the walk.
type Source struct {
	reviewsURL string
	client     *http.Client
}

var _ ports.ReviewSource = (*Source)(nil)

// NewSource wires an HTTP client; a nil client gets a 10s timeout default.
func NewSource(reviewsURL string, client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Source{reviewsURL: reviewsURL, client: client}
}

// Name identifies the source inside the registry.
func (s *Source) Name() string {
	return sourceName
}

type reviewsResponse struct {
	Success int `json:"success"`
	Reviews []struct {
		Author struct {
			SteamID string `json:"steamid"`
		} `json:"author"`
		Review           string `json:"review"`
		VotedUp          bool   `json:"voted_up"`
		VotesUp          int    `json:"votes_up"`
		VotesFunny       int    `json:"votes_funny"`
		TimestampCreated int64  `json:"timestamp_created"`
	} `json:"reviews"`
	Cursor string `json:"cursor"`
}

// FetchPage requests one page of reviews filtered server-side by review type.
// A response without a reviews field yields an empty terminal page rather
// than an error.
func (s *Source) FetchPage(ctx context.Context, subject domain.Subject, category domain.Category, cursor string) (domain.Page, error) {
	if cursor == "" {
		cursor = startCursor
	}

	pageURL, err := s.buildPageURL(subject.ID, category, cursor)
	if err != nil {
		return domain.Page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return domain.Page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "reviewharvest/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Page{}, fmt.Errorf("request reviews page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.Page{}, fmt.Errorf("steam %s: %w", subject.Name, ports.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Page{}, fmt.Errorf("steam returned %s", resp.Status)
	}

	var payload reviewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Page{}, fmt.Errorf("decode reviews page: %w", err)
	}

	if payload.Success != 1 || len(payload.Reviews) == 0 {
		return domain.Page{}, nil
	}

	candidates := make([]domain.Candidate, 0, len(payload.Reviews))
	for _, r := range payload.Reviews {
		candidates = append(candidates, domain.Candidate{
			ReviewerID:   r.Author.SteamID,
			Text:         r.Review,
			VotedUp:      r.VotedUp,
			VotesHelpful: r.VotesUp,
			VotesFunny:   r.VotesFunny,
			HasVotes:     true,
			CreatedAt:    strconv.FormatInt(r.TimestampCreated, 10),
		})
	}

	next := payload.Cursor
	if next == cursor || next == startCursor {
		next = ""
	}

	return domain.Page{Candidates: candidates, Next: next}, nil
}

func (s *Source) buildPageURL(appID string, category domain.Category, cursor string) (string, error) {
	parsed, err := url.Parse(fmt.Sprintf("%s/%s", s.reviewsURL, appID))
	if err != nil {
		return "", fmt.Errorf("invalid reviews url: %w", err)
	}

	reviewType := "positive"
	if category == domain.CategoryNegative {
		reviewType = "negative"
	}

	query := parsed.Query()
	query.Set("json", "1")
	query.Set("language", "english")
	query.Set("filter", "recent")
	query.Set("review_type", reviewType)
	query.Set("num_per_page", strconv.Itoa(pageSize))
	query.Set("purchase_type", "all")
	query.Set("cursor", cursor)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
