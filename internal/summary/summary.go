// Package summary synthesizes the spoken response for a product search: it
// assembles the result context, routes the summarization prompt through the
// compressor, and either asks an LLM for a conversational summary or falls
// back to a deterministic template when no LLM is configured or the call
// fails.
package summary

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"

	openai "github.com/openai/openai-go/v3"

	"voicecart/internal/scaledown"
	"voicecart/internal/search"
)

const summarizePrompt = "Summarize the top 3 most relevant products for the user " +
	"in a friendly, conversational way. Include product names and brief descriptions."

const systemPrompt = "You are a voice shopping assistant. Your reply is read " +
	"aloud, so keep it short, plain and conversational. No markup, no links."

// Compressor is the prompt-compression capability; *scaledown.Client
// satisfies it.
type Compressor interface {
	Compress(ctx context.Context, contextText, prompt string) scaledown.Result
}

// Responder turns ranked products into the sentence the assistant speaks.
type Responder struct {
	Compressor Compressor
	// LLM is optional. When nil, responses always use the template.
	LLM   *openai.Client
	Model openai.ChatModel
}

// Respond builds the spoken answer for one completed search.
func (r *Responder) Respond(ctx context.Context, query string, products []search.Product) string {
	if len(products) == 0 {
		return "I couldn't find any products matching your search. Please try a different query."
	}

	prompt := summarizePrompt
	if r.Compressor != nil {
		prompt = r.Compressor.Compress(ctx, resultContext(query, products), prompt).Prompt
	}

	if r.LLM != nil {
		if text, err := r.generate(ctx, query, products, prompt); err == nil {
			return text
		} else {
			log.Warn("summary: llm generation failed, using template", "err", err)
		}
	}
	return template(query, products)
}

func (r *Responder) generate(ctx context.Context, query string, products []search.Product, prompt string) (string, error) {
	model := r.Model
	if model == "" {
		model = openai.ChatModelGPT4o
	}

	resp, err := r.LLM.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(resultContext(query, products) + "\n" + prompt),
		},
		Model: model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty message content")
	}
	return text, nil
}

// resultContext renders the search results as the context block sent for
// compression and generation.
func resultContext(query string, products []search.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User is searching for: %s\n\nSearch Results:\n", query)
	for _, p := range products {
		fmt.Fprintf(&b, "%d. %s\n   %s\n   Link: %s\n\n", p.Rank, p.Title, p.Description, p.Link)
	}
	return b.String()
}

// template is the no-LLM response: result count, up to three titles, and a
// follow-up question.
func template(query string, products []search.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I found %d results for '%s'. Here are the top options: ", len(products), query)
	for i, p := range products {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "%d. %s. ", i+1, p.Title)
	}
	b.WriteString("Would you like more details about any of these?")
	return b.String()
}
