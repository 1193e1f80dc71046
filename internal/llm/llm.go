package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no API credential is available. It is
// surfaced immediately and never retried.
var ErrNotConfigured = errors.New("llm: OPENAI_API_KEY not configured")

// Request describes one chat completion. Temperature defaults to 0 so
// extraction and classification calls stay deterministic; recommendation
// calls raise it explicitly.
type Request struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	// Schema, when set, constrains the response to a JSON schema.
	SchemaName string
	Schema     json.RawMessage
}

// Tool is one callable function offered to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// ToolCall is one function invocation requested by the model.
type ToolCall struct {
	Name      string
	Arguments string
}

// Decision is the model's answer to a tool-enabled request: either direct
// content, or one or more requested tool calls.
type Decision struct {
	Content string
	Calls   []ToolCall
}

// Completer is the narrow chat-completion capability every component depends
// on. Tests substitute fakes through this interface.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	CompleteWithTools(ctx context.Context, req Request, tools []Tool) (*Decision, error)
}

type Client struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

func NewClient(apiKey, model string, maxTokens int, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	return &Client{
		client:    openai.NewClient(apiKey),
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}, nil
}

func (c *Client) buildRequest(req Request) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	// A literal 0 is dropped from the wire request (omitempty) and the API
	// then applies its own default. The smallest nonzero float is how an
	// explicit temperature of 0 is requested.
	temperature := req.Temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	out := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	if req.Schema != nil {
		out.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: req.Schema,
			},
		}
	}
	return out
}

func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, c.buildRequest(req))
	if err != nil {
		c.logger.Error("chat completion failed", zap.Error(err))
		return "", fmt.Errorf("llm: completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) CompleteWithTools(ctx context.Context, req Request, tools []Tool) (*Decision, error) {
	chatReq := c.buildRequest(req)
	chatReq.Tools = make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		chatReq.Tools = append(chatReq.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	chatReq.ToolChoice = "auto"

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		c.logger.Error("tool completion failed", zap.Error(err))
		return nil, fmt.Errorf("llm: tool completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("llm: tool completion returned no choices")
	}

	message := resp.Choices[0].Message
	decision := &Decision{Content: message.Content}
	for _, call := range message.ToolCalls {
		decision.Calls = append(decision.Calls, ToolCall{
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return decision, nil
}
