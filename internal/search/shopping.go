package search

import (
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"
	"net/http"
	"net/url"
)

const defaultShoppingURL = "https://serpapi.com/search.json"

// ShoppingAPI queries a structured shopping-search endpoint (SerpAPI Google
// Shopping shape). Needs an API key; the key-less deployment uses the
// DuckDuckGo backend instead.
type ShoppingAPI struct {
	HTTPClient *http.Client
	APIKey     string
	BaseURL    string
}

func NewShoppingAPI(client *http.Client, apiKey string) *ShoppingAPI {
	return &ShoppingAPI{HTTPClient: client, APIKey: apiKey, BaseURL: defaultShoppingURL}
}

type shoppingResponse struct {
	ShoppingResults []struct {
		Title   string `json:"title"`
		Price   string `json:"price"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Source  string `json:"source"`
	} `json:"shopping_results"`
}

func (s *ShoppingAPI) Search(ctx context.Context, query string, maxResults int) []Product {
	if s.APIKey == "" {
		log.Warn("search: shopping api key not configured")
		return nil
	}

	params := url.Values{}
	params.Set("engine", "google_shopping")
	params.Set("q", query)
	params.Set("api_key", s.APIKey)
	target := fmt.Sprintf("%s?%s", s.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		log.Warn("search: build request", "err", err)
		return nil
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		log.Warn("search: shopping request failed", "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("search: shopping bad status", "status", resp.StatusCode)
		return nil
	}

	var body shoppingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Warn("search: decode shopping response", "err", err)
		return nil
	}

	var products []Product
	for _, r := range body.ShoppingResults {
		if len(products) >= maxResults {
			break
		}
		if r.Title == "" {
			continue
		}
		desc := r.Snippet
		if desc == "" {
			desc = r.Source
		}
		products = append(products, Product{
			Rank:        len(products) + 1,
			Title:       r.Title,
			Price:       r.Price,
			Link:        r.Link,
			Description: truncateDescription(desc),
		})
	}
	return products
}
