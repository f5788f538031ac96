package steam

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
	"github.com/ProjectCodeKw/reviewharvest/internal/ports"
)

var subject = domain.Subject{ID: "42", Name: "Sample Game"}

func TestFetchPageWalksCursor(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("review_type") != "positive" {
			t.Errorf("unexpected review_type %q", r.URL.Query().Get("review_type"))
		}

		cursor := r.URL.Query().Get("cursor")
		if cursor == "*" {
			fmt.Fprint(w, `{"success":1,"cursor":"AoJ4","reviews":[
				{"author":{"steamid":"u1"},"review":"good game","voted_up":true,"votes_up":3,"votes_funny":0,"timestamp_created":1700000000}
			]}`)
			return
		}
		fmt.Fprint(w, `{"success":1,"cursor":"AoJ4","reviews":[
			{"author":{"steamid":"u2"},"review":"still good","voted_up":true,"votes_up":0,"votes_funny":1,"timestamp_created":1700000100}
		]}`)
	}))
	defer server.Close()

	src := NewSource(server.URL, server.Client())

	page, err := src.FetchPage(context.Background(), subject, domain.CategoryPositive, "")
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(page.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(page.Candidates))
	}
	if page.Candidates[0].ReviewerID != "u1" {
		t.Fatalf("unexpected reviewer %q", page.Candidates[0].ReviewerID)
	}
	if !page.Candidates[0].VotedUp || page.Candidates[0].Scored {
		t.Fatalf("steam candidates should be vote-only")
	}
	if page.Candidates[0].CreatedAt != "1700000000" {
		t.Fatalf("unexpected created %q", page.Candidates[0].CreatedAt)
	}
	if page.Next != "AoJ4" {
		t.Fatalf("unexpected next cursor %q", page.Next)
	}

	// Same cursor returned again means the source is exhausted.
	page, err = src.FetchPage(context.Background(), subject, domain.CategoryPositive, "AoJ4")
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if page.Next != "" {
		t.Fatalf("expected terminal page, got next %q", page.Next)
	}
}

func TestFetchPageNoReviewsFieldEndsQuietly(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":1}`)
	}))
	defer server.Close()

	src := NewSource(server.URL, server.Client())
	page, err := src.FetchPage(context.Background(), subject, domain.CategoryNegative, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(page.Candidates) != 0 || page.Next != "" {
		t.Fatalf("expected empty terminal page, got %+v", page)
	}
}

func TestFetchPageRateLimited(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	src := NewSource(server.URL, server.Client())
	_, err := src.FetchPage(context.Background(), subject, domain.CategoryPositive, "")
	if !errors.Is(err, ports.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestFetchPageServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	src := NewSource(server.URL, server.Client())
	if _, err := src.FetchPage(context.Background(), subject, domain.CategoryPositive, ""); err == nil {
		t.Fatal("expected error for 502 response")
	}
}
