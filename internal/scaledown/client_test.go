package scaledown

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompress_Success(t *testing.T) {
	t.Parallel()

	var gotKey, gotContentType string
	var gotReq compressRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(compressResponse{
			CompressedPrompt:       "compressed",
			OriginalPromptTokens:   100,
			CompressedPromptTokens: 60,
		})
	}))
	defer srv.Close()

	c := New(srv.Client(), "test-key")
	c.URL = srv.URL

	res := c.Compress(context.Background(), "product list", "long prompt")
	if !res.Compressed {
		t.Fatal("expected compressed result")
	}
	if res.Prompt != "compressed" {
		t.Errorf("prompt = %q", res.Prompt)
	}
	if res.OriginalTokens != 100 || res.CompressedTokens != 60 {
		t.Errorf("tokens = %d/%d", res.OriginalTokens, res.CompressedTokens)
	}
	if pct, ok := res.SavingsPct(); !ok || pct != 40.0 {
		t.Errorf("savings = %v %v, want 40.0 true", pct, ok)
	}

	if gotKey != "test-key" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if gotContentType != "application/json" {
		t.Errorf("content-type = %q", gotContentType)
	}
	if gotReq.Context != "product list" || gotReq.Prompt != "long prompt" {
		t.Errorf("request body = %+v", gotReq)
	}
	if gotReq.Model != DefaultModel || gotReq.ScaleDown.Rate != "auto" {
		t.Errorf("model/rate = %q/%q", gotReq.Model, gotReq.ScaleDown.Rate)
	}
}

func TestCompress_Fallbacks(t *testing.T) {
	t.Parallel()

	const prompt = "original prompt"

	assertFallback := func(t *testing.T, res Result) {
		t.Helper()
		if res.Compressed {
			t.Error("expected uncompressed fallback")
		}
		if res.Prompt != prompt {
			t.Errorf("fallback prompt = %q, want original", res.Prompt)
		}
		if _, ok := res.SavingsPct(); ok {
			t.Error("fallback must not report savings")
		}
	}

	t.Run("nil client", func(t *testing.T) {
		var c *Client
		assertFallback(t, c.Compress(context.Background(), "ctx", prompt))
	})

	t.Run("missing api key", func(t *testing.T) {
		c := New(http.DefaultClient, "")
		assertFallback(t, c.Compress(context.Background(), "ctx", prompt))
	})

	t.Run("bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := New(srv.Client(), "test-key")
		c.URL = srv.URL
		assertFallback(t, c.Compress(context.Background(), "ctx", prompt))
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		}))
		defer srv.Close()

		c := New(srv.Client(), "test-key")
		c.URL = srv.URL
		assertFallback(t, c.Compress(context.Background(), "ctx", prompt))
	})

	t.Run("empty compressed prompt", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(compressResponse{})
		}))
		defer srv.Close()

		c := New(srv.Client(), "test-key")
		c.URL = srv.URL
		assertFallback(t, c.Compress(context.Background(), "ctx", prompt))
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		c := New(http.DefaultClient, "test-key")
		c.URL = srv.URL
		assertFallback(t, c.Compress(context.Background(), "ctx", prompt))
	})
}

func TestSavingsPct_ZeroOriginalTokens(t *testing.T) {
	t.Parallel()

	res := Result{Prompt: "x", Compressed: true, OriginalTokens: 0, CompressedTokens: 0}
	if _, ok := res.SavingsPct(); ok {
		t.Error("expected ok=false when original token count is missing")
	}
}
