// Package advisor integrates a hosted language model for free-form review
// suggestions. The advisor is optional: when no API key is configured it is
// simply absent from the run.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/revulabs/revu-cli/internal/analyzer"
	sharederrors "github.com/revulabs/revu-cli/internal/shared/errors"
)

const systemPrompt = "You are a senior Python reviewer. Given a code snippet " +
	"and the findings of static-analysis tools, give short, concrete " +
	"suggestions for improving the code. Do not repeat the tool findings " +
	"verbatim; prioritize correctness, then clarity."

// maxFindingsInPrompt bounds how many prior findings get summarized into the
// prompt so large reviews stay inside the model's context.
const maxFindingsInPrompt = 40

// Config holds advisor settings, usually sourced from env or the config file.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// Enabled reports whether the advisor can run at all.
func (c Config) Enabled() bool { return c.APIKey != "" }

// chatClient is the surface of the OpenAI client we use; tests fake it.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Advisor asks a hosted chat model for review suggestions.
type Advisor struct {
	client chatClient
	cfg    Config
}

// New builds an Advisor from config. Returns ErrAdvisorDisabled when no API
// key is configured so callers can skip the advisor cleanly.
func New(cfg Config) (*Advisor, error) {
	if !cfg.Enabled() {
		return nil, sharederrors.ErrAdvisorDisabled
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Advisor{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}, nil
}

// Advise sends the snippet plus a findings summary to the model and wraps
// the reply as one advisory result. API failures become an errored result
// upstream, never a fatal error for the review.
func (a *Advisor) Advise(ctx context.Context, snippet analyzer.Snippet, prior []analyzer.Finding) (analyzer.Result, error) {
	const name = "advisor"

	reqCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       a.cfg.Model,
		Temperature: a.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(snippet, prior)},
		},
	}

	resp, err := a.client.CreateChatCompletion(reqCtx, req)
	if err != nil {
		return analyzer.Result{
			Analyzer:  name,
			Status:    analyzer.StatusError,
			CheckedAt: time.Now().UTC(),
			Error:     fmt.Sprintf("advisor request failed: %v", err),
		}, fmt.Errorf("advisor request failed: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return analyzer.Result{
			Analyzer:  name,
			Status:    analyzer.StatusError,
			CheckedAt: time.Now().UTC(),
			Error:     sharederrors.ErrAdvisorEmpty.Error(),
		}, sharederrors.ErrAdvisorEmpty
	}

	return analyzer.Result{
		Analyzer:  name,
		Status:    analyzer.StatusOK,
		CheckedAt: time.Now().UTC(),
		Notes:     strings.TrimSpace(resp.Choices[0].Message.Content),
	}, nil
}

// BuildPrompt renders the user message: the snippet fenced as code, then a
// compact list of prior findings for context.
func BuildPrompt(snippet analyzer.Snippet, prior []analyzer.Finding) string {
	var b strings.Builder
	b.WriteString("Review this Python snippet:\n\n```python\n")
	b.WriteString(snippet.Source)
	if !strings.HasSuffix(snippet.Source, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("```\n")

	if len(prior) == 0 {
		b.WriteString("\nStatic analysis reported no findings.\n")
		return b.String()
	}

	b.WriteString("\nStatic analysis findings:\n")
	for i, f := range prior {
		if i >= maxFindingsInPrompt {
			fmt.Fprintf(&b, "- ... and %d more\n", len(prior)-i)
			break
		}
		if f.Line > 0 {
			fmt.Fprintf(&b, "- [%s] line %d: %s\n", f.Source, f.Line, f.Message)
		} else {
			fmt.Fprintf(&b, "- [%s] %s\n", f.Source, f.Message)
		}
	}
	return b.String()
}
