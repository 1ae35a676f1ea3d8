package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// MessagesClient captures the subset of the Anthropic SDK used by Anthropic,
// so tests can substitute a fake client without a network dependency.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Anthropic implements Provider on top of the Anthropic Claude Messages API.
type Anthropic struct {
	msg          MessagesClient
	defaultModel string
}

// NewAnthropic wraps an existing Messages client (real or fake).
func NewAnthropic(msg MessagesClient, defaultModel string) (*Anthropic, error) {
	if msg == nil {
		return nil, errors.New("anthropic: messages client is required")
	}
	if defaultModel == "" {
		return nil, errors.New("anthropic: default model is required")
	}
	return &Anthropic{msg: msg, defaultModel: defaultModel}, nil
}

// NewAnthropicFromAPIKey constructs an Anthropic provider using the default
// Anthropic HTTP client configured from apiKey.
func NewAnthropicFromAPIKey(apiKey, defaultModel string) (*Anthropic, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic: api key is required")
	}
	cli := sdk.NewClient(option.WithAPIKey(apiKey))
	return NewAnthropic(&cli.Messages, defaultModel)
}

// Complete issues a single Messages.New call and translates the response
// into the provider-agnostic Response shape.
func (a *Anthropic) Complete(ctx context.Context, req Request) (Response, error) {
	modelID := req.Model
	if modelID == "" {
		modelID = a.defaultModel
	}
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	params := sdk.MessageNewParams{
		MaxTokens: maxTokens,
		Model:     sdk.Model(modelID),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	}
	if req.Temperature > 0 {
		params.Temperature = sdk.Float(req.Temperature)
	}

	start := time.Now()
	msg, err := a.msg.New(ctx, params)
	latency := time.Since(start).Seconds()
	if err != nil {
		return Response{}, fmt.Errorf("anthropic messages.new: %w", err)
	}
	if msg == nil {
		return Response{}, errors.New("anthropic: nil response message")
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			text += block.Text
		}
	}

	return Response{
		Text:             text,
		PromptTokens:     int(msg.Usage.InputTokens),
		CompletionTokens: int(msg.Usage.OutputTokens),
		Latency:          latency,
	}, nil
}
