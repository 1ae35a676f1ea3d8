package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ChatClient captures the subset of the OpenAI SDK used by OpenAI, so tests
// can substitute a fake client without a network dependency.
type ChatClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI implements Provider on top of the OpenAI Chat Completions API. It is
// the alternate provider adapter alongside Anthropic, selected by
// configuration at the Gateway level.
type OpenAI struct {
	chat         ChatClient
	defaultModel string
}

// NewOpenAI wraps an existing Chat Completions client (real or fake).
func NewOpenAI(chat ChatClient, defaultModel string) (*OpenAI, error) {
	if chat == nil {
		return nil, errors.New("openai: chat client is required")
	}
	if defaultModel == "" {
		return nil, errors.New("openai: default model is required")
	}
	return &OpenAI{chat: chat, defaultModel: defaultModel}, nil
}

// NewOpenAIFromAPIKey constructs an OpenAI provider using the default OpenAI
// HTTP client configured from apiKey.
func NewOpenAIFromAPIKey(apiKey, defaultModel string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("openai: api key is required")
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return NewOpenAI(&cli.Chat.Completions, defaultModel)
}

// Complete issues a single Chat Completions call and translates the response
// into the provider-agnostic Response shape.
func (o *OpenAI) Complete(ctx context.Context, req Request) (Response, error) {
	modelID := req.Model
	if modelID == "" {
		modelID = o.defaultModel
	}
	params := openai.ChatCompletionNewParams{
		Model: modelID,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	start := time.Now()
	resp, err := o.chat.New(ctx, params)
	latency := time.Since(start).Seconds()
	if err != nil {
		return Response{}, fmt.Errorf("openai chat.completions.new: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return Response{}, errors.New("openai: empty completion response")
	}

	return Response{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		Latency:          latency,
	}, nil
}
