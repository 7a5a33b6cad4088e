package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const resultTemplate = `
<div class="result results_links results_links_deep web-result">
  <div class="links_main links_deep result__body">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="%s">%s</a>
    </h2>
    <a class="result__snippet" href="%s">%s</a>
  </div>
</div>`

func resultsPage(n int) string {
	var b strings.Builder
	b.WriteString("<html><body><div id=\"links\" class=\"results\">")
	for i := 1; i <= n; i++ {
		link := fmt.Sprintf("https://shop.example/item-%d", i)
		fmt.Fprintf(&b, resultTemplate, link, fmt.Sprintf("Item %d", i), link, fmt.Sprintf("Snippet for item %d", i))
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

func TestDuckDuckGo_ParsesResults(t *testing.T) {
	t.Parallel()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, resultsPage(3))
	}))
	defer srv.Close()

	d := NewDuckDuckGo(srv.Client())
	d.BaseURL = srv.URL

	products := d.Search(context.Background(), "wireless headphones", 5)
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	if gotQuery != "wireless headphones buy online" {
		t.Errorf("expected shopping-biased query, got %q", gotQuery)
	}
	for i, p := range products {
		if p.Rank != i+1 {
			t.Errorf("product %d: rank %d, want %d", i, p.Rank, i+1)
		}
	}
	if products[0].Title != "Item 1" {
		t.Errorf("title = %q", products[0].Title)
	}
	if products[0].Link != "https://shop.example/item-1" {
		t.Errorf("link = %q", products[0].Link)
	}
	if products[0].Description != "Snippet for item 1" {
		t.Errorf("description = %q", products[0].Description)
	}
}

func TestDuckDuckGo_CapsAtMaxResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, resultsPage(10))
	}))
	defer srv.Close()

	d := NewDuckDuckGo(srv.Client())
	d.BaseURL = srv.URL

	products := d.Search(context.Background(), "usb hub", 5)
	if len(products) != 5 {
		t.Fatalf("expected 5 products, got %d", len(products))
	}
	if products[4].Rank != 5 {
		t.Errorf("last rank = %d", products[4].Rank)
	}
}

func TestDuckDuckGo_MissingSnippet(t *testing.T) {
	t.Parallel()

	page := `<html><body>
<div class="result">
  <a class="result__a" href="https://shop.example/x">Bare Item</a>
</div>
</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	d := NewDuckDuckGo(srv.Client())
	d.BaseURL = srv.URL

	products := d.Search(context.Background(), "x", 5)
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0].Description != "No description available" {
		t.Errorf("description = %q", products[0].Description)
	}
}

func TestDuckDuckGo_FailuresYieldEmptyList(t *testing.T) {
	t.Parallel()

	t.Run("bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "blocked", http.StatusForbidden)
		}))
		defer srv.Close()

		d := NewDuckDuckGo(srv.Client())
		d.BaseURL = srv.URL
		if products := d.Search(context.Background(), "anything", 5); products != nil {
			t.Errorf("expected nil on bad status, got %v", products)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // refuse everything

		d := NewDuckDuckGo(http.DefaultClient)
		d.BaseURL = srv.URL
		if products := d.Search(context.Background(), "anything", 5); products != nil {
			t.Errorf("expected nil on transport failure, got %v", products)
		}
	})

	t.Run("no results in page", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html><body><p>nothing here</p></body></html>")
		}))
		defer srv.Close()

		d := NewDuckDuckGo(srv.Client())
		d.BaseURL = srv.URL
		if products := d.Search(context.Background(), "anything", 5); len(products) != 0 {
			t.Errorf("expected empty list, got %v", products)
		}
	})
}

func TestTruncateDescription(t *testing.T) {
	t.Parallel()

	short := "short snippet"
	if got := truncateDescription(short); got != short {
		t.Errorf("short snippet modified: %q", got)
	}

	long := strings.Repeat("a", 200)
	if got := truncateDescription(long); len([]rune(got)) != maxDescriptionRunes {
		t.Errorf("expected %d runes, got %d", maxDescriptionRunes, len([]rune(got)))
	}
}
