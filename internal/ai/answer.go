// Package ai augments a search response with a natural-language answer from
// the language-model collaborator. The augmenter is strictly best-effort:
// any failure yields no answer and never disturbs the parent request.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/MycosoftLabs/biosearch/config"
	"github.com/MycosoftLabs/biosearch/internal/search"
)

type Augmenter struct {
	cfg        config.AIConfig
	httpClient *http.Client
	logger     *log.Logger
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func New(cfg config.AIConfig, logger *log.Logger) *Augmenter {
	if cfg.Timeout == 0 {
		cfg.Timeout = 12 * time.Second
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[AI] ", log.LstdFlags)
	}
	return &Augmenter{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Answer builds a bounded context from the top reconciled records and asks
// the model for a short factual answer. A nil return means no answer.
func (a *Augmenter) Answer(ctx context.Context, query string, results search.Results) *search.AIAnswer {
	answer, err := a.answer(ctx, query, results)
	if err != nil {
		a.logger.Printf("augmentation failed for %q: %v", query, err)
		return nil
	}
	return answer
}

func (a *Augmenter) answer(ctx context.Context, query string, results search.Results) (*search.AIAnswer, error) {
	recordContext := buildContext(results)
	if recordContext == "" {
		return nil, fmt.Errorf("no records to summarise")
	}

	systemPrompt := `You are a mycology and natural-products research assistant. Answer the user's question using ONLY the provided records.

RESPONSE FORMAT:
Respond ONLY with valid JSON in the following format:
{
  "text": "your factual answer",
  "confidence": 0.0,
  "sources": ["record ids or names you relied on"]
}
Do not include any other text or explanation.`

	userPrompt := fmt.Sprintf("QUESTION: %s\n\nRECORDS:\n%s", query, recordContext)

	responseStr, err := a.sendRequest(ctx, []message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	})
	if err != nil {
		return nil, err
	}

	var parsed search.AIAnswer
	if err := json.Unmarshal([]byte(responseStr), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse answer: %w", err)
	}
	if strings.TrimSpace(parsed.Text) == "" {
		return nil, fmt.Errorf("empty answer text")
	}
	return &parsed, nil
}

// buildContext renders at most: 5 species with truncated descriptions,
// 5 compounds with their activity lists, 3 research abstracts.
func buildContext(results search.Results) string {
	var b strings.Builder

	for i, sp := range results.Species {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "SPECIES %s (%s): %s\n", sp.ScientificName, sp.CommonName, truncate(sp.Description, 300))
	}
	for i, cmp := range results.Compounds {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "COMPOUND %s formula=%s activity=%s sources=%s\n",
			cmp.Name, cmp.Formula, strings.Join(cmp.BiologicalActivity, ","), strings.Join(cmp.SourceSpecies, ","))
	}
	for i, r := range results.Research {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "PAPER %q (%s %d): %s\n", r.Title, r.Journal, r.Year, truncate(r.Abstract, 200))
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func (a *Augmenter) sendRequest(ctx context.Context, messages []message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       a.cfg.Model,
		Messages:    messages,
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimRight(a.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status: %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return parsed.Choices[0].Message.Content, nil
}
