package tools

import "helpdesk/app/service/catalog"

// Tool payloads mirror what the formatter prompt receives as TOOL_DATA.

type productListPayload struct {
	Type     string            `json:"type"`
	Products []catalog.Product `json:"products"`
}

type productInfoPayload struct {
	Type string `json:"type"`
	catalog.Product
}

type orderInfoPayload struct {
	Type string `json:"type"`
	catalog.Order
	Error string `json:"error,omitempty"`
}

type refundPolicyPayload struct {
	Type   string `json:"type"`
	Policy string `json:"policy"`
}

type summaryPayload struct {
	Type     string            `json:"type"`
	Products []catalog.Product `json:"products"`
}

type infoPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// InfoMessage builds the generic {"type":"info"} payload used for
// clarification prompts and the fallback reply.
func InfoMessage(message string) any {
	return infoPayload{
		Type:    "info",
		Message: message,
	}
}
