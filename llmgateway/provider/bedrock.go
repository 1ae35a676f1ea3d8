package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	smithy "github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// RuntimeClient captures the subset of the AWS Bedrock runtime SDK used by
// Bedrock, so tests can substitute a fake client without a network
// dependency. It is satisfied by *bedrockruntime.Client.
type RuntimeClient interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Bedrock implements Provider on top of the AWS Bedrock Converse API. It is
// the third provider adapter alongside Anthropic and OpenAI, selected by
// configuration at the Gateway level for deployments that route through AWS.
type Bedrock struct {
	runtime      RuntimeClient
	defaultModel string
}

// NewBedrock wraps an existing Bedrock runtime client (real or fake).
func NewBedrock(runtime RuntimeClient, defaultModel string) (*Bedrock, error) {
	if runtime == nil {
		return nil, errors.New("bedrock: runtime client is required")
	}
	if defaultModel == "" {
		return nil, errors.New("bedrock: default model is required")
	}
	return &Bedrock{runtime: runtime, defaultModel: defaultModel}, nil
}

// NewBedrockFromConfig constructs a Bedrock provider using an
// already-resolved aws.Config (region, credentials, etc. loaded the usual
// AWS SDK way by the caller).
func NewBedrockFromConfig(cfg aws.Config, defaultModel string) (*Bedrock, error) {
	return NewBedrock(bedrockruntime.NewFromConfig(cfg), defaultModel)
}

// Complete issues a single Converse call and translates the response into
// the provider-agnostic Response shape.
func (b *Bedrock) Complete(ctx context.Context, req Request) (Response, error) {
	modelID := req.Model
	if modelID == "" {
		modelID = b.defaultModel
	}

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(modelID),
		Messages: []brtypes.Message{
			{
				Role:    brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: req.Prompt}},
			},
		},
	}
	if cfg := inferenceConfig(req); cfg != nil {
		input.InferenceConfig = cfg
	}

	start := time.Now()
	out, err := b.runtime.Converse(ctx, input)
	latency := time.Since(start).Seconds()
	if err != nil {
		if isRateLimited(err) {
			return Response{}, fmt.Errorf("bedrock converse: rate limited: %w", err)
		}
		return Response{}, fmt.Errorf("bedrock converse: %w", err)
	}
	if out == nil {
		return Response{}, errors.New("bedrock: nil converse output")
	}

	var text string
	if msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage); ok {
		for _, block := range msg.Value.Content {
			if tb, ok := block.(*brtypes.ContentBlockMemberText); ok {
				text += tb.Value
			}
		}
	}

	var promptTokens, completionTokens int
	if out.Usage != nil {
		promptTokens = int(aws.ToInt32(out.Usage.InputTokens))
		completionTokens = int(aws.ToInt32(out.Usage.OutputTokens))
	}

	return Response{
		Text:             text,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		Latency:          latency,
	}, nil
}

func inferenceConfig(req Request) *brtypes.InferenceConfiguration {
	var cfg brtypes.InferenceConfiguration
	if req.MaxTokens > 0 {
		cfg.MaxTokens = aws.Int32(int32(req.MaxTokens))
	}
	if req.Temperature > 0 {
		cfg.Temperature = aws.Float32(float32(req.Temperature))
	}
	if cfg.MaxTokens == nil && cfg.Temperature == nil {
		return nil
	}
	return &cfg
}

// isRateLimited reports whether err represents a Bedrock rate-limiting
// condition, either an HTTP 429 or a ThrottlingException/TooManyRequests
// provider error code.
func isRateLimited(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "TooManyRequestsException":
			return true
		}
	}
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 429 {
		return true
	}
	return false
}
