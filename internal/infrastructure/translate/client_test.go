package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranslateReturnsServiceText(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("path = %q, want /translate", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key-123" {
			t.Errorf("Authorization = %q", got)
		}

		var payload struct {
			Text     string `json:"text"`
			MinWords int    `json:"min_words"`
			MaxWords int    `json:"max_words"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.MinWords != 30 || payload.MaxWords != 100 {
			t.Errorf("word bounds = %d/%d, want 30/100", payload.MinWords, payload.MaxWords)
		}

		json.NewEncoder(w).Encode(map[string]string{"text": "translated " + payload.Text})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key-123", 30, 100)
	result := client.Translate(context.Background(), "original text")

	if result.FellBack {
		t.Fatal("Translate() fell back, want service result")
	}
	if result.Text != "translated original text" {
		t.Errorf("Text = %q", result.Text)
	}
}

func TestTranslateFallsBackOnServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 30, 100)
	result := client.Translate(context.Background(), "keep me")

	if !result.FellBack {
		t.Fatal("Translate() did not fall back on 500")
	}
	if result.Text != "keep me" {
		t.Errorf("Text = %q, want original text", result.Text)
	}
}

func TestTranslateFallsBackOnEmptyResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": ""})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 30, 100)
	result := client.Translate(context.Background(), "keep me")

	if !result.FellBack {
		t.Fatal("Translate() did not fall back on empty text")
	}
}

func TestTranslateFallsBackWithoutEndpoint(t *testing.T) {
	t.Parallel()

	client := NewClient("", "", 30, 100)
	result := client.Translate(context.Background(), "keep me")

	if !result.FellBack || result.Text != "keep me" {
		t.Errorf("result = %+v, want fallback with original text", result)
	}
}
