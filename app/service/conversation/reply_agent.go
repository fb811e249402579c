package conversation

import (
	"context"

	"helpdesk/app/client/llm"

	_ "embed"
)

//go:embed reply_prompt_template.txt
var replyPromptTemplate string

// ReplyAgent phrases structured tool output as prose in the user's language.
type ReplyAgent struct {
	client *llm.Client
}

func NewReplyAgent(client *llm.Client) *ReplyAgent {
	return &ReplyAgent{
		client: client,
	}
}

func (a *ReplyAgent) Call(ctx context.Context, language, toolData string) (string, error) {
	prompt := renderTemplate(replyPromptTemplate, map[string]any{
		"language":  language,
		"tool_data": toolData,
	})

	return a.client.Complete(ctx, prompt, llm.CompleteOptions{
		Temperature: 0.7,
		MaxTokens:   replyMaxTokens,
	})
}
