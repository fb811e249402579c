package memory

import "time"

const turnHistorySize = 20

// Conversation is everything remembered about one chat: products the user
// asked about, the last classified intent, the last order id mentioned, and
// a bounded turn history for prompts.
type Conversation struct {
	ID          string   `json:"id"`
	Products    []string `json:"products,omitempty"`
	LastIntent  string   `json:"last_intent,omitempty"`
	LastOrderID string   `json:"last_order_id,omitempty"`
	Turns       []Turn   `json:"turns,omitempty"`
}

type Turn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *Conversation) addTurn(role, text string) {
	turn := Turn{
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}

	if len(c.Turns) >= turnHistorySize {
		c.Turns = append(c.Turns[1:], turn)
	} else {
		c.Turns = append(c.Turns, turn)
	}
}

func (c *Conversation) clone() Conversation {
	out := *c
	out.Products = append([]string(nil), c.Products...)
	out.Turns = append([]Turn(nil), c.Turns...)
	return out
}
