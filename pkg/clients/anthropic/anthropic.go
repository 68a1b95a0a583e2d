package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
	defaultModel   = "claude-sonnet-4-5"
	maxTokens      = 2048
)

// ErrUnsupportedMedia is returned for documents the messages API cannot read.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// Client defines the interface for report extraction.
type Client interface {
	ExtractProductionReport(ctx context.Context, doc Document) (models.ProductionRecord, error)
}

// Document is a base64 encoded report scan or PDF.
type Document struct {
	Data     string
	MimeType string
}

// Config configures the messages API client. Empty BaseURL and Model use the defaults.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type anthropicClient struct {
	httpClient *resty.Client
	model      string
}

// NewClient creates a configured Anthropic client.
func NewClient(cfg Config) Client {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(base).
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(timeout)

	return &anthropicClient{httpClient: client, model: model}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *mediaSource `json:"source,omitempty"`
}

type mediaSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

var systemPrompt = `You are an expert data extraction specialist for textile manufacturing reports.
Your task is to extract production data from the "Daily Dyeing Production Report" of LANTABUR GROUP.

Look for summary tables or headers labeled "Color Group Wise", "Inhouse/Sub Contract" and "Taqwa/Others".
The data is usually at the top of the first page.

For both "lantabur" and "taqwa" extract:
- total: total weight in kg
- loadingCap: loading capacity percent, when printed
- inhouse and subContract weights in kg
- colorGroups: one {"groupName", "weight"} entry per colour group:
` + colorGroupList() + `
Return ONLY a JSON object of the form
{"date": "29 Dec 2025", "lantabur": {...}, "taqwa": {...}}
Every numeric value must be a JSON number. If a value is missing in the report, use 0.`

const userPrompt = "Please analyze this production report and extract the summary data for the date it mentions, " +
	"including the weight of every colour group for both industries."

func colorGroupList() string {
	var b strings.Builder
	for i, name := range models.ReportColorGroups {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, name)
	}
	return b.String()
}

func (c *anthropicClient) ExtractProductionReport(ctx context.Context, doc Document) (models.ProductionRecord, error) {
	block, err := documentBlock(doc)
	if err != nil {
		return models.ProductionRecord{}, err
	}

	reqBody := messageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages: []message{
			{Role: "user", Content: []contentBlock{block, {Type: "text", Text: userPrompt}}},
			// Prefill the assistant turn to force a JSON object.
			{Role: "assistant", Content: []contentBlock{{Type: "text", Text: "{"}}},
		},
	}

	var respBody messageResponse
	apiErr := new(apiError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(apiErr).
		Post("/v1/messages")
	if err != nil {
		return models.ProductionRecord{}, fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error.Message != "" {
			return models.ProductionRecord{}, fmt.Errorf("anthropic api error: %s", apiErr.Error.Message)
		}
		return models.ProductionRecord{}, fmt.Errorf("anthropic api error: status %d", resp.StatusCode())
	}
	if len(respBody.Content) == 0 {
		return models.ProductionRecord{}, errors.New("empty response from ai")
	}

	return ParseReport("{" + respBody.Content[0].Text)
}

// ParseReport decodes the model's JSON answer, tolerating markdown code fences.
func ParseReport(text string) (models.ProductionRecord, error) {
	text = strings.TrimSpace(text)
	// A fenced answer after the prefilled brace.
	if strings.HasPrefix(text, "{```") {
		text = strings.TrimSpace(text[1:])
	}
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	text = strings.TrimSpace(text)
	if i := strings.LastIndex(text, "}"); i >= 0 {
		text = text[:i+1]
	}

	var record models.ProductionRecord
	if err := json.Unmarshal([]byte(text), &record); err != nil {
		return models.ProductionRecord{}, fmt.Errorf("failed to unmarshal ai response: %w", err)
	}
	if strings.TrimSpace(record.Date) == "" {
		return models.ProductionRecord{}, errors.New("ai response has no report date")
	}
	return record, nil
}

func documentBlock(doc Document) (contentBlock, error) {
	mime := strings.ToLower(strings.TrimSpace(doc.MimeType))
	if doc.Data == "" {
		return contentBlock{}, errors.New("document data is empty")
	}
	switch {
	case mime == "application/pdf":
		return contentBlock{Type: "document", Source: &mediaSource{Type: "base64", MediaType: mime, Data: doc.Data}}, nil
	case mime == "image/jpeg", mime == "image/png", mime == "image/gif", mime == "image/webp":
		return contentBlock{Type: "image", Source: &mediaSource{Type: "base64", MediaType: mime, Data: doc.Data}}, nil
	default:
		return contentBlock{}, fmt.Errorf("%w: %q", ErrUnsupportedMedia, doc.MimeType)
	}
}
