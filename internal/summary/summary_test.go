package summary

import (
	"context"
	"strings"
	"testing"

	"voicecart/internal/scaledown"
	"voicecart/internal/search"
)

type fakeCompressor struct {
	calls       int
	gotContext  string
	gotPrompt   string
	replacement string
}

func (f *fakeCompressor) Compress(ctx context.Context, contextText, prompt string) scaledown.Result {
	f.calls++
	f.gotContext = contextText
	f.gotPrompt = prompt
	if f.replacement != "" {
		return scaledown.Result{Prompt: f.replacement, Compressed: true}
	}
	return scaledown.Result{Prompt: prompt}
}

func sampleProducts(n int) []search.Product {
	titles := []string{"Sony WH-1000XM5", "Bose QC Ultra", "AirPods Max", "Anker Q45", "JBL Tune"}
	var out []search.Product
	for i := 0; i < n; i++ {
		out = append(out, search.Product{
			Rank:        i + 1,
			Title:       titles[i%len(titles)],
			Description: "Noise cancelling headphones",
			Link:        "https://shop.example/p",
		})
	}
	return out
}

func TestRespond_NoProducts(t *testing.T) {
	t.Parallel()

	comp := &fakeCompressor{}
	r := &Responder{Compressor: comp}

	got := r.Respond(context.Background(), "unobtainium", nil)
	if !strings.Contains(got, "couldn't find any products") {
		t.Errorf("got %q", got)
	}
	if comp.calls != 0 {
		t.Error("compressor must not run for an empty result set")
	}
}

func TestRespond_TemplateWithoutLLM(t *testing.T) {
	t.Parallel()

	comp := &fakeCompressor{}
	r := &Responder{Compressor: comp}

	got := r.Respond(context.Background(), "headphones", sampleProducts(5))
	if !strings.Contains(got, "I found 5 results for 'headphones'") {
		t.Errorf("missing result count: %q", got)
	}
	// Top three titles only, numbered.
	for _, want := range []string{"1. Sony WH-1000XM5", "2. Bose QC Ultra", "3. AirPods Max"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
	if strings.Contains(got, "Anker") {
		t.Errorf("template should stop after three titles: %q", got)
	}
	if !strings.Contains(got, "Would you like more details") {
		t.Errorf("missing follow-up question: %q", got)
	}

	if comp.calls != 1 {
		t.Fatalf("compressor calls = %d", comp.calls)
	}
	if !strings.Contains(comp.gotContext, "User is searching for: headphones") {
		t.Errorf("compressor context = %q", comp.gotContext)
	}
	if !strings.Contains(comp.gotContext, "1. Sony WH-1000XM5") {
		t.Errorf("compressor context missing results: %q", comp.gotContext)
	}
	if !strings.Contains(comp.gotPrompt, "Summarize the top 3") {
		t.Errorf("compressor prompt = %q", comp.gotPrompt)
	}
}

func TestRespond_NilCompressor(t *testing.T) {
	t.Parallel()

	r := &Responder{}
	got := r.Respond(context.Background(), "headphones", sampleProducts(1))
	if !strings.Contains(got, "I found 1 results for 'headphones'") {
		t.Errorf("got %q", got)
	}
}

func TestResultContext(t *testing.T) {
	t.Parallel()

	ctx := resultContext("usb hub", sampleProducts(2))
	if !strings.HasPrefix(ctx, "User is searching for: usb hub\n") {
		t.Errorf("prefix wrong: %q", ctx)
	}
	if !strings.Contains(ctx, "2. Bose QC Ultra") {
		t.Errorf("missing ranked entry: %q", ctx)
	}
	if !strings.Contains(ctx, "Link: https://shop.example/p") {
		t.Errorf("missing link: %q", ctx)
	}
}
