// Package translate wraps the machine-translation collaborator used before
// contextual analysis of non-English messages.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"twinpics/internal/config"
)

// ErrUnsupported is returned when no translation backend is configured.
var ErrUnsupported = errors.New("translate: unsupported")

// Translator turns text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Passthrough returns its input for the target language and ErrUnsupported
// for anything else.
type Passthrough struct{}

func (Passthrough) Translate(_ context.Context, text, target string) (string, error) {
	if target == "" || strings.EqualFold(target, "en") {
		return text, nil
	}
	return "", ErrUnsupported
}

// OpenAI translates through the chat completions API.
type OpenAI struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAI builds a translator. Extra options are appended after the API key
// (tests point the base URL at a local server).
func NewOpenAI(apiKey, model string, opts ...option.RequestOption) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAI{client: openai.NewClient(opts...), model: openai.ChatModel(model)}
}

func (o *OpenAI) Translate(ctx context.Context, text, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(fmt.Sprintf("Translate the user's message to %s. Reply with the translation only, keep hashtags, mentions and URLs unchanged.", target)),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai translate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai translate: empty response")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("openai translate: empty translation")
	}
	return out, nil
}

// New picks the translator named by cfg.Provider.
func New(cfg config.TranslationConfig) (Translator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "none":
		return Passthrough{}, nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, errors.New("translate: openai provider needs an API key")
		}
		return NewOpenAI(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("translate: unknown provider %q", cfg.Provider)
	}
}
