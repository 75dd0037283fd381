package ner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ppiankov/veracity/internal/model"
)

// OpenAIRecognizer is the model-backed variant: it asks a chat model to
// extract entities as JSON restricted to the fixed label set. It is selected
// when an API key is configured and the endpoint answers; every failure path
// degrades to the regex variant through the fallback wrapper.
type OpenAIRecognizer struct {
	client *openai.Client
	model  string
}

const recognizerSystemPrompt = `You are a named entity recognizer.
Extract named entities from the user's text and respond with ONLY a JSON array:
[{"text": "<exact surface form from the text>", "label": "<PERSON|ORG|GPE|DATE|NUMBER|MISC>"}]
Rules:
- "text" must be copied verbatim from the input.
- Use GPE for countries, cities and other geopolitical places.
- Use MISC when no other label fits. Do not invent labels.
- Respond with the JSON array and nothing else.`

// NewOpenAIRecognizer creates the model-backed recognizer.
func NewOpenAIRecognizer(cfg model.RecognizerConfig) (*OpenAIRecognizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	m := cfg.Model
	if m == "" {
		m = "gpt-4o-mini"
	}

	return &OpenAIRecognizer{
		client: openai.NewClientWithConfig(clientConfig),
		model:  m,
	}, nil
}

// Name returns the recognizer name.
func (r *OpenAIRecognizer) Name() string {
	return "openai"
}

// IsAvailable checks that the endpoint is reachable and the key valid.
func (r *OpenAIRecognizer) IsAvailable(ctx context.Context) bool {
	_, err := r.client.ListModels(ctx)
	return err == nil
}

// Recognize sends the sentences to the model and parses the JSON reply.
func (r *OpenAIRecognizer) Recognize(ctx context.Context, sentences []model.Sentence) ([]model.Entity, error) {
	if len(sentences) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	for _, s := range sentences {
		sb.WriteString(s.Text)
		sb.WriteString("\n")
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: recognizerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("entity extraction: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("entity extraction: empty response")
	}

	return parseEntityReply(resp.Choices[0].Message.Content, sentences)
}

// parseEntityReply decodes the model's JSON array and anchors each entity
// to its first occurrence in the sentences.
func parseEntityReply(reply string, sentences []model.Sentence) ([]model.Entity, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)

	var wire []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal([]byte(reply), &wire); err != nil {
		return nil, fmt.Errorf("decode entity reply: %w", err)
	}

	var entities []model.Entity
	for _, w := range wire {
		surface := strings.TrimSpace(w.Text)
		if surface == "" {
			continue
		}
		label := model.EntityLabel(strings.ToUpper(strings.TrimSpace(w.Label)))
		if !model.KnownLabel(label) {
			label = model.LabelMisc
		}
		start, end := locate(surface, sentences)
		entities = append(entities, model.Entity{
			Text:      surface,
			Canonical: model.Canonicalize(surface),
			Label:     label,
			Start:     start,
			End:       end,
		})
	}
	return entities, nil
}

// locate finds the first occurrence of surface across the sentences and
// returns its byte span in the original text. Unanchored entities get a
// zero span; dedupe and verification do not depend on spans.
func locate(surface string, sentences []model.Sentence) (int, int) {
	for _, s := range sentences {
		if idx := strings.Index(s.Text, surface); idx >= 0 {
			return s.Start + idx, s.Start + idx + len(surface)
		}
	}
	return 0, 0
}
