package metacritic

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
	"github.com/ProjectCodeKw/reviewharvest/internal/ports"
)

const sourceName = "metacritic"

var slugExpr = regexp.MustCompile(`[^a-z0-9-]`)

// Source scrapes user reviews from a Metacritic game page. The page is not
// paginated through the plain HTML endpoint, so every fetch is a single
// terminal page.
type Source struct {
	baseURL string
	client  *http.Client
}

var _ ports.ReviewSource = (*Source)(nil)

// NewSource wires an HTTP client; nil gets a 10s timeout default.
func NewSource(baseURL string, client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Source{baseURL: baseURL, client: client}
}

// Name identifies the source inside the registry.
func (s *Source) Name() string {
	return sourceName
}

// FetchPage downloads the user-reviews page and extracts every review block.
// Category filtering happens downstream in the record filter; the source
// returns all scored candidates it can parse.
func (s *Source) FetchPage(ctx context.Context, subject domain.Subject, _ domain.Category, cursor string) (domain.Page, error) {
	if cursor != "" {
		return domain.Page{}, nil
	}

	pageURL := fmt.Sprintf("%s/%s/user-reviews/?platform=pc", strings.TrimSuffix(s.baseURL, "/"), s.slug(subject))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return domain.Page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Page{}, fmt.Errorf("request reviews page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.Page{}, fmt.Errorf("metacritic %s: %w", subject.Name, ports.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Page{}, fmt.Errorf("metacritic returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return domain.Page{}, fmt.Errorf("parse reviews page: %w", err)
	}

	return domain.Page{Candidates: extractCandidates(doc)}, nil
}

// slug prefers the configured per-subject locator and falls back to deriving
// one from the game name the way the site builds its URLs.
func (s *Source) slug(subject domain.Subject) string {
	if ref, ok := subject.Ref(sourceName); ok && ref != "" {
		return ref
	}
	slug := strings.ToLower(subject.Name)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "'", "")
	return slugExpr.ReplaceAllString(slug, "")
}

func extractCandidates(doc *goquery.Document) []domain.Candidate {
	var candidates []domain.Candidate

	doc.Find("div.c-siteReview").Each(func(_ int, review *goquery.Selection) {
		scoreText := strings.TrimSpace(review.Find("div.c-siteReviewScore span").First().Text())
		score, err := strconv.Atoi(scoreText)
		if err != nil {
			return
		}

		text := strings.TrimSpace(review.Find("div.c-siteReview_quote span").First().Text())
		if text == "" {
			return
		}

		author := strings.TrimSpace(review.Find("a.c-siteReviewHeader_username").First().Text())
		if author == "" {
			author = "Anonymous"
		}

		date := strings.TrimSpace(review.Find("div.c-siteReview_reviewDate").First().Text())
		if date == "" {
			date = domain.UnknownValue
		}

		candidates = append(candidates, domain.Candidate{
			ReviewerID: author,
			Text:       text,
			Score:      float64(score),
			Scored:     true,
			VotedUp:    false,
			CreatedAt:  date,
		})
	})

	return candidates
}
