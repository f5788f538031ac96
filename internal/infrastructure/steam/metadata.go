package steam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ProjectCodeKw/reviewharvest/internal/domain"
	"github.com/ProjectCodeKw/reviewharvest/internal/ports"
)

// MetadataProvider fetches price, age rating, game mode and genres from the
// Steam store appdetails API.
type MetadataProvider struct {
	storeURL string
	client   *http.Client
}

var _ ports.MetadataProvider = (*MetadataProvider)(nil)

// NewMetadataProvider wires an HTTP client; nil gets a 10s timeout default.
func NewMetadataProvider(storeURL string, client *http.Client) *MetadataProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &MetadataProvider{storeURL: storeURL, client: client}
}

type appDetails struct {
	Success bool `json:"success"`
	Data    struct {
		IsFree        bool `json:"is_free"`
		PriceOverview struct {
			Final int `json:"final"`
		} `json:"price_overview"`
		// required_age arrives as a number for some games and a quoted
		// string for others.
		RequiredAge json.RawMessage `json:"required_age"`
		Categories  []struct {
			Description string `json:"description"`
		} `json:"categories"`
		Genres []struct {
			Description string `json:"description"`
		} `json:"genres"`
	} `json:"data"`
}

// Lookup resolves store metadata for the subject. Missing or unsuccessful
// responses yield zero-valued metadata without an error: enrichment is best
// effort.
func (p *MetadataProvider) Lookup(ctx context.Context, subject domain.Subject) (domain.SubjectMetadata, error) {
	parsed, err := url.Parse(p.storeURL)
	if err != nil {
		return domain.SubjectMetadata{}, fmt.Errorf("invalid store url: %w", err)
	}
	query := parsed.Query()
	query.Set("appids", subject.ID)
	query.Set("cc", "us")
	query.Set("l", "en")
	parsed.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return domain.SubjectMetadata{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "reviewharvest/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.SubjectMetadata{}, fmt.Errorf("request appdetails: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.SubjectMetadata{}, fmt.Errorf("steam store returned %s", resp.Status)
	}

	var payload map[string]appDetails
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.SubjectMetadata{}, fmt.Errorf("decode appdetails: %w", err)
	}

	details, ok := payload[subject.ID]
	if !ok || !details.Success {
		return domain.SubjectMetadata{}, nil
	}

	meta := domain.SubjectMetadata{
		AgeRating: parseAge(details.Data.RequiredAge),
		GameMode:  deriveGameMode(details.Data.Categories),
		Known:     true,
	}

	if details.Data.IsFree {
		meta.PriceUSD = 0
		meta.HasPrice = true
	} else if details.Data.PriceOverview.Final > 0 {
		meta.PriceUSD = float64(details.Data.PriceOverview.Final) / 100
		meta.HasPrice = true
	}

	genres := make([]string, 0, len(details.Data.Genres))
	for _, g := range details.Data.Genres {
		genres = append(genres, g.Description)
	}
	meta.Genres = strings.Join(genres, ", ")

	return meta, nil
}

func parseAge(raw json.RawMessage) int {
	trimmed := strings.Trim(string(bytes.TrimSpace(raw)), `"`)
	if trimmed == "" {
		return 0
	}
	age, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0
	}
	return age
}

func deriveGameMode(categories []struct {
	Description string `json:"description"`
}) string {
	var modes []string
	has := func(substr string) bool {
		for _, c := range categories {
			if strings.Contains(strings.ToLower(c.Description), substr) {
				return true
			}
		}
		return false
	}

	if has("single") {
		modes = append(modes, "solo")
	}
	if has("multi") {
		modes = append(modes, "multiplayer")
	}
	if has("co-op") || has("coop") {
		modes = append(modes, "co-op")
	}

	if len(modes) == 0 {
		return "solo"
	}
	return strings.Join(modes, "/")
}
