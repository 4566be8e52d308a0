package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"
const defaultOpenAIModel = "gpt-4o-mini"

type LLMUsage struct {
	InputTokens  int64
	OutputTokens int64
}

func (u LLMUsage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

func (u *LLMUsage) Add(other LLMUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// CompletionBackend sends one free-form prompt to a language model and
// returns the raw reply text. The reply is untrusted; callers validate it.
type CompletionBackend interface {
	Complete(prompt string) (string, LLMUsage, error)
}

// NewBackend picks the transport for the configured provider.
func NewBackend(cfg Config) CompletionBackend {
	switch cfg.LLMProvider {
	case "openai":
		model := cfg.LLMModel
		if model == "" {
			model = defaultOpenAIModel
		}
		return &openAIBackend{apiKey: cfg.OpenAIAPIKey, model: model}
	default:
		model := cfg.LLMModel
		if model == "" {
			model = defaultAnthropicModel
		}
		return &anthropicBackend{apiKey: cfg.AnthropicAPIKey, model: model}
	}
}

// --- Anthropic ---

type anthropicBackend struct {
	apiKey string
	model  string
}

func (b *anthropicBackend) Complete(prompt string) (string, LLMUsage, error) {
	client := anthropic.NewClient(option.WithAPIKey(b.apiKey))

	message, err := client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		log.Printf("llm anthropic error: %v", err)
		return "", LLMUsage{}, fmt.Errorf("Anthropic API error: %w", err)
	}
	usage := LLMUsage{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("llm anthropic response size=%d tokens_in=%d tokens_out=%d", len(block.Text), usage.InputTokens, usage.OutputTokens)
			return block.Text, usage, nil
		}
	}
	return "", usage, fmt.Errorf("no text content in Anthropic response")
}

// --- OpenAI ---

type openAIBackend struct {
	apiKey string
	model  string
}

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (b *openAIBackend) Complete(prompt string) (string, LLMUsage, error) {
	reqBody := openAIRequest{
		Model: b.model,
		Messages: []openAIMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", LLMUsage{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", LLMUsage{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("llm openai error: %v", err)
		return "", LLMUsage{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", LLMUsage{}, fmt.Errorf("reading response: %w", err)
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(respBody, &openAIResp); err != nil {
		return "", LLMUsage{}, fmt.Errorf("parsing OpenAI response: %w", err)
	}

	if openAIResp.Error != nil {
		log.Printf("llm openai api error: %s", openAIResp.Error.Message)
		return "", LLMUsage{}, fmt.Errorf("OpenAI API error: %s", openAIResp.Error.Message)
	}

	if len(openAIResp.Choices) == 0 {
		return "", LLMUsage{}, fmt.Errorf("no choices in OpenAI response")
	}
	usage := LLMUsage{}
	if openAIResp.Usage != nil {
		usage.InputTokens = openAIResp.Usage.PromptTokens
		usage.OutputTokens = openAIResp.Usage.CompletionTokens
	}

	log.Printf("llm openai response size=%d tokens_in=%d tokens_out=%d", len(openAIResp.Choices[0].Message.Content), usage.InputTokens, usage.OutputTokens)
	return openAIResp.Choices[0].Message.Content, usage, nil
}

// --- Classification client ---

// Classifier wraps a backend with the downgrade contract: every transport or
// parse failure comes back as the OTHER sentinel with zero confidence, never
// as an error. Token usage accumulates across calls.
type Classifier struct {
	backend CompletionBackend
	usage   LLMUsage
	calls   int
}

func NewClassifier(backend CompletionBackend) *Classifier {
	return &Classifier{backend: backend}
}

func (c *Classifier) Usage() LLMUsage { return c.usage }
func (c *Classifier) Calls() int      { return c.calls }

// ClassifyColumn asks the model for a column category. Malformed JSON,
// missing keys, or an out-of-taxonomy label all degrade to {OTHER, 0.0}.
func (c *Classifier) ClassifyColumn(prompt string) (ColumnCategory, float64) {
	text, err := c.complete(prompt)
	if err != nil {
		return CategoryOther, 0.0
	}
	label, confidence, err := parseLabeledReply(text, "category")
	if err != nil {
		log.Printf("llm column reply rejected: %v", err)
		return CategoryOther, 0.0
	}
	category := ColumnCategory(label)
	if !category.Valid() {
		log.Printf("llm column reply rejected: unknown category %q", label)
		return CategoryOther, 0.0
	}
	return category, confidence
}

// ClassifyDepartment asks the model for a department, with the same
// downgrade contract as ClassifyColumn.
func (c *Classifier) ClassifyDepartment(prompt string) (Department, float64) {
	text, err := c.complete(prompt)
	if err != nil {
		return DepartmentOther, 0.0
	}
	label, confidence, err := parseLabeledReply(text, "department")
	if err != nil {
		log.Printf("llm department reply rejected: %v", err)
		return DepartmentOther, 0.0
	}
	department := Department(label)
	if !department.Valid() {
		log.Printf("llm department reply rejected: unknown department %q", label)
		return DepartmentOther, 0.0
	}
	return department, confidence
}

func (c *Classifier) complete(prompt string) (string, error) {
	c.calls++
	text, usage, err := c.backend.Complete(prompt)
	c.usage.Add(usage)
	return text, err
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseLabeledReply validates a {<labelKey>, confidence} JSON object. Both
// keys must be present; confidence is clamped to [0,1].
func parseLabeledReply(text, labelKey string) (string, float64, error) {
	text = stripCodeFences(text)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		truncated := text
		if len(truncated) > 256 {
			truncated = truncated[:256] + "..."
		}
		return "", 0, fmt.Errorf("parsing reply: %w (reply: %s)", err, truncated)
	}

	labelRaw, ok := raw[labelKey]
	if !ok {
		return "", 0, fmt.Errorf("reply missing %q key", labelKey)
	}
	confidenceRaw, ok := raw["confidence"]
	if !ok {
		return "", 0, fmt.Errorf("reply missing \"confidence\" key")
	}

	var label string
	if err := json.Unmarshal(labelRaw, &label); err != nil {
		return "", 0, fmt.Errorf("reply %q is not a string: %w", labelKey, err)
	}
	var confidence float64
	if err := json.Unmarshal(confidenceRaw, &confidence); err != nil {
		return "", 0, fmt.Errorf("reply confidence is not a number: %w", err)
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return strings.TrimSpace(label), confidence, nil
}
