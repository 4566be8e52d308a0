package main

import (
	"fmt"
	"strings"
	"testing"
)

// fakeBackend scripts LLM replies for tests. With replyFn set, the reply is
// chosen per prompt; otherwise reply/err are returned as-is.
type fakeBackend struct {
	reply   string
	err     error
	usage   LLMUsage
	replyFn func(prompt string) (string, error)
	calls   int
	prompts []string
}

func (f *fakeBackend) Complete(prompt string) (string, LLMUsage, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.replyFn != nil {
		reply, err := f.replyFn(prompt)
		return reply, f.usage, err
	}
	return f.reply, f.usage, f.err
}

func TestClassifyColumnValidReply(t *testing.T) {
	client := NewClassifier(&fakeBackend{reply: `{"category": "title", "confidence": 0.95}`})

	category, confidence := client.ClassifyColumn("prompt")

	if category != CategoryTitle {
		t.Fatalf("expected title, got %s", category)
	}
	if confidence != 0.95 {
		t.Fatalf("expected confidence 0.95, got %f", confidence)
	}
}

func TestClassifyColumnFencedReply(t *testing.T) {
	client := NewClassifier(&fakeBackend{reply: "```json\n{\"category\": \"status\", \"confidence\": 0.8}\n```"})

	category, confidence := client.ClassifyColumn("prompt")

	if category != CategoryStatus || confidence != 0.8 {
		t.Fatalf("expected fenced reply to parse, got %s %f", category, confidence)
	}
}

func TestClassifyColumnDowngrades(t *testing.T) {
	cases := []struct {
		name    string
		backend *fakeBackend
	}{
		{"malformed json", &fakeBackend{reply: "the column is a title"}},
		{"missing confidence", &fakeBackend{reply: `{"category": "title"}`}},
		{"missing category", &fakeBackend{reply: `{"confidence": 0.9}`}},
		{"unknown category", &fakeBackend{reply: `{"category": "colour", "confidence": 0.9}`}},
		{"non-string label", &fakeBackend{reply: `{"category": 7, "confidence": 0.9}`}},
		{"non-numeric confidence", &fakeBackend{reply: `{"category": "title", "confidence": "high"}`}},
		{"transport error", &fakeBackend{err: fmt.Errorf("connection refused")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := NewClassifier(tc.backend)
			category, confidence := client.ClassifyColumn("prompt")
			if category != CategoryOther || confidence != 0.0 {
				t.Fatalf("expected {OTHER, 0.0} downgrade, got {%s, %f}", category, confidence)
			}
		})
	}
}

func TestClassifyDepartmentValidAndDowngrade(t *testing.T) {
	client := NewClassifier(&fakeBackend{reply: `{"department": "Finance", "confidence": 0.88}`})
	department, confidence := client.ClassifyDepartment("prompt")
	if department != DepartmentFinance || confidence != 0.88 {
		t.Fatalf("expected Finance 0.88, got %s %f", department, confidence)
	}

	client = NewClassifier(&fakeBackend{reply: `{"department": "Engineering", "confidence": 0.9}`})
	department, confidence = client.ClassifyDepartment("prompt")
	if department != DepartmentOther || confidence != 0.0 {
		t.Fatalf("expected unknown department downgrade, got %s %f", department, confidence)
	}
}

func TestConfidenceClamped(t *testing.T) {
	client := NewClassifier(&fakeBackend{reply: `{"category": "title", "confidence": 1.7}`})
	if _, confidence := client.ClassifyColumn("p"); confidence != 1.0 {
		t.Fatalf("expected confidence clamped to 1.0, got %f", confidence)
	}

	client = NewClassifier(&fakeBackend{reply: `{"category": "title", "confidence": -0.2}`})
	if _, confidence := client.ClassifyColumn("p"); confidence != 0.0 {
		t.Fatalf("expected confidence clamped to 0.0, got %f", confidence)
	}
}

func TestClassifierAccumulatesUsage(t *testing.T) {
	backend := &fakeBackend{
		reply: `{"category": "title", "confidence": 0.9}`,
		usage: LLMUsage{InputTokens: 100, OutputTokens: 10},
	}
	client := NewClassifier(backend)

	client.ClassifyColumn("first")
	client.ClassifyColumn("second")

	usage := client.Usage()
	if usage.InputTokens != 200 || usage.OutputTokens != 20 {
		t.Fatalf("expected accumulated usage 200/20, got %d/%d", usage.InputTokens, usage.OutputTokens)
	}
	if usage.TotalTokens() != 220 {
		t.Fatalf("expected 220 total tokens, got %d", usage.TotalTokens())
	}
	if client.Calls() != 2 {
		t.Fatalf("expected 2 calls, got %d", client.Calls())
	}
}

func TestParseLabeledReply(t *testing.T) {
	label, confidence, err := parseLabeledReply(`  {"department": " IT ", "confidence": 0.75}  `, "department")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "IT" || confidence != 0.75 {
		t.Fatalf("expected trimmed IT 0.75, got %q %f", label, confidence)
	}

	_, _, err = parseLabeledReply(`[1, 2]`, "category")
	if err == nil {
		t.Fatal("expected error for non-object reply")
	}
	if !strings.Contains(err.Error(), "parsing reply") {
		t.Fatalf("expected parse context in error, got: %v", err)
	}
}

func TestNewBackendProviderSwitch(t *testing.T) {
	if _, ok := NewBackend(Config{LLMProvider: "openai", OpenAIAPIKey: "sk"}).(*openAIBackend); !ok {
		t.Fatal("expected openai backend for openai provider")
	}
	if _, ok := NewBackend(Config{LLMProvider: "anthropic", AnthropicAPIKey: "sk"}).(*anthropicBackend); !ok {
		t.Fatal("expected anthropic backend for anthropic provider")
	}
}
