package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v5"

	"github.com/getlawrence/autodocs/internal/templates"
)

// MessageClient is the part of the Anthropic SDK the generator uses.
type MessageClient interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicOptions configures the Anthropic generator.
type AnthropicOptions struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	Retries   int
	// Client overrides the SDK client, mainly for tests.
	Client MessageClient
	// BackOff overrides the retry schedule.
	BackOff backoff.BackOff
}

// Anthropic writes docstrings with the Messages API.
type Anthropic struct {
	client  MessageClient
	engine  *templates.TemplateEngine
	model   string
	tokens  int64
	timeout time.Duration
	tries   uint
	backOff func() backoff.BackOff
}

func NewAnthropic(engine *templates.TemplateEngine, opts AnthropicOptions) (*Anthropic, error) {
	client := opts.Client
	if client == nil {
		if opts.APIKey == "" {
			return nil, errors.New("anthropic generator requires an API key")
		}
		reqOpts := []option.RequestOption{
			option.WithAPIKey(opts.APIKey),
			// Retries are driven by backoff below.
			option.WithMaxRetries(0),
		}
		if opts.Timeout > 0 {
			reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
		}
		if opts.BaseURL != "" {
			reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
		}
		c := anthropic.NewClient(reqOpts...)
		client = &c.Messages
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 512
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}

	g := &Anthropic{
		client:  client,
		engine:  engine,
		model:   opts.Model,
		tokens:  int64(opts.MaxTokens),
		timeout: opts.Timeout,
		tries:   uint(opts.Retries + 1),
		backOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	if opts.BackOff != nil {
		g.backOff = func() backoff.BackOff { return opts.BackOff }
	}
	return g, nil
}

func (g *Anthropic) Generate(ctx context.Context, req Request) (string, error) {
	system, err := g.engine.SystemPrompt()
	if err != nil {
		return "", err
	}
	prompt, err := g.engine.GenerateDocstringPrompt(promptData(req))
	if err != nil {
		return "", fmt.Errorf("failed to generate prompt: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.tokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	operation := func() (string, error) {
		msg, err := g.client.New(ctx, params)
		if err != nil {
			if !retryable(err) {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		return responseText(msg), nil
	}

	out, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(g.backOff()),
		backoff.WithMaxTries(g.tries),
		backoff.WithMaxElapsedTime(g.timeout),
	)
	if err != nil {
		return "", fmt.Errorf("anthropic request for %s failed: %w", req.QualifiedName(), err)
	}

	text := Sanitize(out)
	if text == "" {
		return "", fmt.Errorf("anthropic returned no text for %s", req.QualifiedName())
	}
	return text, nil
}

func responseText(msg *anthropic.Message) string {
	if msg == nil {
		return ""
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// retryable reports whether a failed request is worth repeating: rate limits,
// server errors and transport failures are, client errors are not.
func retryable(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled)
}
