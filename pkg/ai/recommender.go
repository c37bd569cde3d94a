package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/yourusername/library-circulation/pkg/model"
)

// Fallback texts returned when the model is unreachable or produced no
// output. AI failures never surface to callers as errors; recommendations
// are best-effort display text.
const (
	FallbackRecommendation = "The AI librarian is offline right now. Please try again later."
	FallbackSummary        = "No summary could be generated for this title."
)

// Keeps the catalog context within a reasonable prompt size.
const maxInventoryContext = 10000

// Recommender is a thin wrapper around the Gemini API acting as a
// reading advisor over a catalog snapshot. It only ever reads book data.
type Recommender struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewRecommender(ctx context.Context) (*Recommender, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	m := client.GenerativeModel("gemini-2.5-flash")
	return &Recommender{client: client, model: m}, nil
}

// bookContext trims the catalog to the fields the prompt needs.
type bookContext struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}

// Recommend suggests titles from the given inventory for a free-form
// reader query. On any failure it degrades to a fixed fallback string.
func (r *Recommender) Recommend(ctx context.Context, query string, inventory []model.Book) string {
	books := make([]bookContext, 0, len(inventory))
	for _, b := range inventory {
		books = append(books, bookContext{
			Title:       b.Title,
			Author:      b.Author,
			Category:    b.Category,
			Description: b.Description,
			Status:      string(b.Status),
		})
	}

	inventoryJSON, err := json.Marshal(books)
	if err != nil {
		slog.Error("failed to encode inventory context", "error", err)
		return FallbackRecommendation
	}
	catalog := string(inventoryJSON)
	if len(catalog) > maxInventoryContext {
		catalog = catalog[:maxInventoryContext] + "... (truncated)"
	}

	prompt := fmt.Sprintf(`You are a professional librarian. This is the current catalog (JSON):
%s

Reader query: %q

Recommend the 1-3 most relevant books from the catalog. For a subject-specific
query, explain briefly why each pick fits. If nothing matches exactly,
recommend the closest titles. Answer in a warm, professional tone and keep it
under 200 words.`, catalog, query)

	text, err := r.generate(ctx, prompt)
	if err != nil {
		slog.Error("recommendation request failed", "error", err)
		return FallbackRecommendation
	}
	if text == "" {
		return FallbackRecommendation
	}
	return text
}

// BookSummary produces a short display blurb for a single title.
func (r *Recommender) BookSummary(ctx context.Context, title, author string) string {
	prompt := fmt.Sprintf(`Write a short summary (about 100 words) of the book %q by %s,
suitable as a library display introduction. Focus on the core content and who
should read it.`, title, author)

	text, err := r.generate(ctx, prompt)
	if err != nil {
		slog.Error("summary request failed", "title", title, "error", err)
		return FallbackSummary
	}
	if text == "" {
		return FallbackSummary
	}
	return text
}

func (r *Recommender) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := r.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		out += fmt.Sprintf("%v", part)
	}
	return out, nil
}
