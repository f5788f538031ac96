package metacritic

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
)

const fixture = `
<div class="c-siteReview">
  <div class="c-siteReviewScore"><span>9</span></div>
  <div class="c-siteReviewHeader">
    <a class="c-siteReviewHeader_username" href="/user/alice">alice</a>
  </div>
  <div class="c-siteReview_reviewDate">Nov 8, 2025</div>
  <div class="c-siteReview_quote"><span>Wonderful soundtrack and art direction.</span></div>
</div>
<div class="c-siteReview">
  <div class="c-siteReviewScore"><span>3</span></div>
  <div class="c-siteReview_reviewDate">Nov 7, 2025</div>
  <div class="c-siteReview_quote"><span>Crashes constantly, do not buy yet.</span></div>
</div>
<div class="c-siteReview">
  <div class="c-siteReviewScore"><span>tbd</span></div>
  <div class="c-siteReview_quote"><span>Unscored placeholder.</span></div>
</div>`

func TestExtractCandidates(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	candidates := extractCandidates(doc)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	first := candidates[0]
	if first.ReviewerID != "alice" || first.Score != 9 || !first.Scored {
		t.Fatalf("unexpected first candidate: %+v", first)
	}
	if first.CreatedAt != "Nov 8, 2025" {
		t.Fatalf("unexpected date %q", first.CreatedAt)
	}

	second := candidates[1]
	if second.ReviewerID != "Anonymous" {
		t.Fatalf("missing username should become Anonymous, got %q", second.ReviewerID)
	}
	if second.Score != 3 {
		t.Fatalf("unexpected score %v", second.Score)
	}
}

func TestFetchPageIsSinglePage(t *testing.T) {
	t.Parallel()

	var requested string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.String()
		fmt.Fprint(w, fixture)
	}))
	defer server.Close()

	src := NewSource(server.URL, server.Client())
	subject := domain.Subject{ID: "42", Name: "Baldur's Gate 3"}

	page, err := src.FetchPage(context.Background(), subject, domain.CategoryPositive, "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if page.Next != "" {
		t.Fatalf("metacritic pages must be terminal, got next %q", page.Next)
	}
	if len(page.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(page.Candidates))
	}
	if !strings.Contains(requested, "/baldurs-gate-3/user-reviews/") {
		t.Fatalf("unexpected request path %q", requested)
	}

	// A non-empty cursor means the single page was already consumed.
	page, err = src.FetchPage(context.Background(), subject, domain.CategoryPositive, "1")
	if err != nil {
		t.Fatalf("fetch with cursor: %v", err)
	}
	if len(page.Candidates) != 0 {
		t.Fatalf("expected empty page, got %d candidates", len(page.Candidates))
	}
}

func TestSlugPrefersConfiguredRef(t *testing.T) {
	t.Parallel()

	src := NewSource("https://example.org", nil)
	subject := domain.Subject{
		ID:   "42",
		Name: "Sample Game",
		Refs: map[string]string{"metacritic": "sample-game-remastered"},
	}

	if got := src.slug(subject); got != "sample-game-remastered" {
		t.Fatalf("unexpected slug %q", got)
	}
}
