// Package llm provides the language-model client used by the planner.
//
// OpenAI implements langchaingo's llms.Model on top of the
// sashabaranov/go-openai client, so planner nodes stay agnostic of the
// concrete backend and tests can substitute fakes.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/llms"
)

var (
	// ErrEmptyResponse is returned when the model returns no choices.
	ErrEmptyResponse = errors.New("no response")

	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("missing OpenAI API key")
)

// OpenAI is an llms.Model backed by the OpenAI chat completion API.
type OpenAI struct {
	client *openai.Client
	model  string
}

var _ llms.Model = (*OpenAI)(nil)

// Option configures an OpenAI client.
type Option func(*options)

type options struct {
	apiKey  string
	baseURL string
	model   string
}

// WithAPIKey sets the API key. Defaults to the OPENAI_API_KEY environment variable.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithBaseURL overrides the API base URL, for proxies and compatible backends.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithModel sets the model name. Defaults to gpt-4o-mini.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// New returns a new OpenAI-backed model client.
//
// Authentication options:
//  1. WithAPIKey(apiKey) - pass the key directly
//  2. Set the OPENAI_API_KEY environment variable
func New(opts ...Option) (*OpenAI, error) {
	o := &options{
		apiKey: os.Getenv("OPENAI_API_KEY"),
		model:  openai.GPT4oMini,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.apiKey == "" {
		return nil, fmt.Errorf(`%w
You can pass the key with llm.New(llm.WithAPIKey("{API Key}"))
or
export OPENAI_API_KEY={API Key}`, ErrMissingAPIKey)
	}

	cfg := openai.DefaultConfig(o.apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  o.model,
	}, nil
}

// Call generates a response from the model for the given prompt.
func (o *OpenAI) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, o, prompt, options...)
}

// GenerateContent implements the llms.Model interface.
func (o *OpenAI) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := &llms.CallOptions{}
	for _, opt := range options {
		opt(opts)
	}

	model := o.model
	if opts.Model != "" {
		model = opts.Model
	}

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		role := openai.ChatMessageRoleUser
		switch msg.Role {
		case llms.ChatMessageTypeSystem:
			role = openai.ChatMessageRoleSystem
		case llms.ChatMessageTypeAI:
			role = openai.ChatMessageRoleAssistant
		case llms.ChatMessageTypeHuman, llms.ChatMessageTypeGeneric:
			role = openai.ChatMessageRoleUser
		}

		var content string
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				content += text.Text
			}
		}

		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    role,
			Content: content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: chatMessages,
	}
	if opts.Temperature > 0 {
		req.Temperature = float32(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	for _, tool := range opts.Tools {
		if tool.Function == nil {
			continue
		}
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  tool.Function.Parameters,
			},
		})
	}
	if tc, ok := opts.ToolChoice.(llms.ToolChoice); ok && tc.Function != nil {
		req.ToolChoice = openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: tc.Function.Name},
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choices := make([]*llms.ContentChoice, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		choice := &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: string(c.FinishReason),
		}
		for _, tc := range c.Message.ToolCalls {
			choice.ToolCalls = append(choice.ToolCalls, llms.ToolCall{
				ID:   tc.ID,
				Type: string(tc.Type),
				FunctionCall: &llms.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		choices = append(choices, choice)
	}

	return &llms.ContentResponse{Choices: choices}, nil
}
