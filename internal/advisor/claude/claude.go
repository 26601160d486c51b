package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/vbonduro/lubetrack/internal/advisor"
)

// maxTokens bounds a single advice answer.
const maxTokens = 1024

type ClaudeAdvisor struct {
	client *anthropic.Client
	model  string
}

var _ advisor.Advisor = (*ClaudeAdvisor)(nil)

// NewClaudeAdvisor builds an advisor on the Anthropic Messages API. opts are
// passed to the client, e.g. anthropic.WithBaseURL in tests.
func NewClaudeAdvisor(apiKey, model string, opts ...anthropic.ClientOption) *ClaudeAdvisor {
	return &ClaudeAdvisor{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (a *ClaudeAdvisor) Advise(ctx context.Context, query string, fleet []advisor.Snapshot) (string, error) {
	return a.ask(ctx, advisor.SystemPrompt, advisor.AdvicePrompt(query, fleet))
}

func (a *ClaudeAdvisor) AnalyzeRisk(ctx context.Context, fleet []advisor.Snapshot) (string, error) {
	return a.ask(ctx, advisor.SystemPrompt, advisor.RiskPrompt(fleet))
}

func (a *ClaudeAdvisor) ask(ctx context.Context, system, prompt string) (string, error) {
	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(a.model),
		System:    system,
		Messages:  []anthropic.Message{anthropic.NewUserTextMessage(prompt)},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	var b strings.Builder
	for _, c := range resp.Content {
		if c.Type == anthropic.MessagesContentTypeText {
			b.WriteString(c.GetText())
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("claude returned no text")
	}
	return text, nil
}
