package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

const (
	claudeDefaultModel = "claude-sonnet-4-5-20250929"
	claudeRetryMax     = 3
	claudeRetryBase    = time.Second
)

// ClaudeProvider completes requests against the Anthropic messages API, with
// retries on 5xx and timeout failures.
type ClaudeProvider struct {
	apiKey  string
	baseURL string
	model   string

	retryMax  int
	retryBase time.Duration
}

// NewClaudeProvider builds a provider. An empty API key falls back to the
// ANTHROPIC_API_KEY environment variable.
func NewClaudeProvider(apiKey, baseURL, model string) *ClaudeProvider {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	}
	if model = strings.TrimSpace(model); model == "" {
		model = claudeDefaultModel
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv("ANTHROPIC_BASE_URL"))
	}
	return &ClaudeProvider{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		retryMax:  claudeRetryMax,
		retryBase: claudeRetryBase,
	}
}

func (p *ClaudeProvider) Name() string {
	return "claude"
}

func (p *ClaudeProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	if p == nil {
		return nil, errors.New("llm: claude: nil provider")
	}
	if ctx == nil {
		return nil, errors.New("llm: claude: nil context")
	}
	if req == nil {
		return nil, errors.New("llm: claude: nil request")
	}
	if strings.TrimSpace(p.apiKey) == "" {
		return nil, errors.New("llm: claude: missing api key")
	}

	params := p.buildParams(req)
	client := p.newClient()

	for attempt := 0; ; attempt++ {
		msg, err := client.Messages.New(ctx, params)
		if err != nil {
			if !claudeShouldRetry(err) || attempt >= p.retryMax {
				return nil, fmt.Errorf("llm: claude: %w", err)
			}
			if err := sleepWithContext(ctx, p.retryBase*time.Duration(1<<attempt)); err != nil {
				return nil, err
			}
			continue
		}
		return fromClaudeMessage(msg), nil
	}
}

func (p *ClaudeProvider) newClient() *anthropic.Client {
	opts := []option.RequestOption{option.WithAPIKey(p.apiKey), option.WithMaxRetries(0)}
	if base := strings.TrimSpace(p.baseURL); base != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(base, "/v1")))
	}
	client := anthropic.NewClient(opts...)
	return &client
}

func (p *ClaudeProvider) buildParams(req *Request) anthropic.MessageNewParams {
	msgs := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := anthropic.MessageParamRoleUser
		if strings.EqualFold(strings.TrimSpace(m.Role), "assistant") {
			role = anthropic.MessageParamRoleAssistant
		}
		msgs = append(msgs, anthropic.MessageParam{
			Role:    role,
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(m.Content)},
		})
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokens),
		Messages:  msgs,
	}
	if system := strings.TrimSpace(req.System); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system, Type: "text"}}
	}
	if req.Temperature != 0 {
		params.Temperature = param.NewOpt(req.Temperature)
	}
	return params
}

func fromClaudeMessage(msg *anthropic.Message) *Response {
	if msg == nil {
		return nil
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}

	return &Response{
		Text:       sb.String(),
		StopReason: string(msg.StopReason),
		Usage: Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}
}

func claudeShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var sdkErr *anthropic.Error
	if errors.As(err, &sdkErr) {
		return sdkErr.StatusCode >= 500 && sdkErr.StatusCode <= 599
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
