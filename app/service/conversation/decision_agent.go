package conversation

import (
	"context"
	"encoding/json"
	"strings"

	"helpdesk/app/client/llm"
	"helpdesk/app/service/intent"
	"helpdesk/app/service/memory"

	_ "embed"

	"github.com/samber/oops"
	"github.com/tmc/langchaingo/tools"
)

//go:embed decision_prompt_template.txt
var decisionPromptTemplate string

// DecisionAgent is the last layer of the intent chain: one LLM call that
// classifies the message and extracts the product name and order id in a
// single strict-JSON response.
type DecisionAgent struct {
	client *llm.Client
}

func NewDecisionAgent(client *llm.Client) *DecisionAgent {
	return &DecisionAgent{
		client: client,
	}
}

func (a *DecisionAgent) Call(ctx context.Context, text string, productNames []string, extraTools []tools.Tool, turns []memory.Turn) (*DecisionResponse, error) {
	prompt := renderTemplate(decisionPromptTemplate, map[string]any{
		"message":     text,
		"products":    strings.Join(productNames, "\n"),
		"extra_tools": formatExtraTools(extraTools),
		"history":     formatTurns(turns),
	})

	result, err := a.client.Complete(ctx, prompt, llm.CompleteOptions{
		Temperature: 0.1,
		MaxTokens:   decisionMaxTokens,
		JSONMode:    true,
	})
	if err != nil {
		return nil, err
	}

	var response DecisionResponse
	if err = json.Unmarshal([]byte(llm.TrimJSON(result)), &response); err != nil {
		return nil, oops.Errorf("failed to unmarshal decision response: %w", err)
	}

	response.Product = normalizeNone(response.Product)
	response.OrderID = normalizeNone(response.OrderID)
	response.Tool = normalizeNone(response.Tool)
	response.ToolInput = normalizeNone(response.ToolInput)

	if !intent.Valid(response.Intent) {
		response.Intent = string(intent.Fallback)
	}

	return &response, nil
}

func normalizeNone(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "none") {
		return ""
	}

	return value
}
