package conversation

import "helpdesk/app/service/intent"

const (
	minConfidence     = 0.6
	maxReplyLength    = 2000
	decisionMaxTokens = 300
	replyMaxTokens    = 600
)

// Reply is what the chat endpoint returns to the caller.
type Reply struct {
	Text     string        `json:"text"`
	Intent   intent.Intent `json:"intent"`
	Language string        `json:"language"`
}

// DecisionResponse is the strict JSON contract of the decision agent. Tool
// and ToolInput are only honored when they name a bridged MCP tool.
type DecisionResponse struct {
	Intent     string  `json:"intent"`
	Product    string  `json:"product"`
	OrderID    string  `json:"order_id"`
	Tool       string  `json:"tool"`
	ToolInput  string  `json:"tool_input"`
	Confidence float32 `json:"confidence"`
}

// resolution is the outcome of the intent pipeline before phrasing: either a
// registered tool call, or an inline info payload for clarifications and the
// generic fallback.
type resolution struct {
	intent    intent.Intent
	toolName  string
	toolInput string
	info      string
}
