// Package oracle is the LLM collaborator client. The service treats the
// oracle as opaque: it classifies candidate relevance against a target
// meeting and summarizes item content, nothing more.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/prepwise/prepwise/server/internal/model"
)

// Client calls the classification/summarization endpoint.
type Client struct {
	client *resty.Client
	model  string
}

// New creates a Client for the given base URL and model name.
func New(baseURL, modelName string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Client{client: c, model: modelName}
}

type classifyRequest struct {
	Model       string               `json:"model"`
	TargetTitle string               `json:"targetTitle"`
	Category    string               `json:"category"`
	Keywords    string               `json:"keywords,omitempty"`
	Items       []model.ClassifyItem `json:"items"`
}

type classifyResponse struct {
	Results []model.Classification `json:"results"`
	Error   string                 `json:"error"`
}

// Classify scores a batch of items for relevance to the target meeting.
// Callers must not invoke it with an empty item list.
func (c *Client) Classify(ctx context.Context, targetTitle string, items []model.ClassifyItem, category model.SourceKind, keywords string) ([]model.Classification, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("classify called with zero items")
	}

	reqBody := classifyRequest{
		Model:       c.model,
		TargetTitle: targetTitle,
		Category:    string(category),
		Keywords:    keywords,
		Items:       items,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/v1/classify")
	if err != nil {
		return nil, fmt.Errorf("oracle classify request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("oracle classify status %d: %s", resp.StatusCode(), resp.String())
	}

	var out classifyResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("oracle classify decode: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("oracle classify error: %s", out.Error)
	}
	return out.Results, nil
}

type summarizeRequest struct {
	Model   string `json:"model"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
	Model   string `json:"model"`
	Error   string `json:"error"`
}

// Summarize produces a prep-brief summary for one item's full content.
// Returns the summary text and the model that generated it.
func (c *Client) Summarize(ctx context.Context, title, content string) (string, string, error) {
	reqBody := summarizeRequest{Model: c.model, Title: title, Content: content}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/v1/summarize")
	if err != nil {
		return "", "", fmt.Errorf("oracle summarize request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", "", fmt.Errorf("oracle summarize status %d: %s", resp.StatusCode(), resp.String())
	}

	var out summarizeResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", "", fmt.Errorf("oracle summarize decode: %w", err)
	}
	if out.Error != "" {
		return "", "", fmt.Errorf("oracle summarize error: %s", out.Error)
	}
	respModel := out.Model
	if respModel == "" {
		respModel = c.model
	}
	return out.Summary, respModel, nil
}

// HealthPing implements health.HealthPinger.
func (c *Client) HealthPing(ctx context.Context) error {
	resp, err := c.client.R().SetContext(ctx).Get("/v1/ping")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("oracle ping status %d", resp.StatusCode())
	}
	return nil
}
