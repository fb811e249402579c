package conversation

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"unicode/utf8"

	"helpdesk/app/client/llm"
	"helpdesk/app/config"
	"helpdesk/app/service/catalog"
	"helpdesk/app/service/intent"
	"helpdesk/app/service/lang"
	"helpdesk/app/service/memory"
	"helpdesk/app/service/tools"
	"helpdesk/app/service/transcript"

	"github.com/samber/do"
	"github.com/samber/oops"
)

const (
	fallbackMessage   = "I'm here to help with products, orders, or refunds. How can I assist?"
	askOrderIDMessage = "Please provide your order ID."
	askProductMessage = "Can you specify which product you mean?"
)

// Pronouns that refer back to the last discussed product.
var productPronouns = map[string]bool{
	"it": true, "this": true, "that": true, "this one": true,
	"هو": true, "هي": true, "هذا": true, "هذه": true, "ذلك": true,
}

// Service runs a message through the layered intent chain, dispatches the
// matching tool and phrases the result in the user's language.
type Service struct {
	cfg           *config.Config
	catalogSvc    *catalog.Service
	memorySvc     *memory.Service
	registry      *tools.Registry
	transcriptSvc *transcript.Service

	classifier    *intent.Classifier
	decisionAgent *DecisionAgent
	replyAgent    *ReplyAgent
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Service{
		cfg:           cfg,
		catalogSvc:    do.MustInvoke[*catalog.Service](di),
		memorySvc:     do.MustInvoke[*memory.Service](di),
		registry:      do.MustInvoke[*tools.Registry](di),
		transcriptSvc: do.MustInvoke[*transcript.Service](di),
		classifier:    intent.NewClassifier(),
		decisionAgent: NewDecisionAgent(llm.NewClient(cfg.OpenAI.Decision)),
		replyAgent:    NewReplyAgent(llm.NewClient(cfg.OpenAI.Reply)),
	}, nil
}

func (s *Service) ProcessMessage(ctx context.Context, conversationID, text string) (*Reply, error) {
	language := lang.Detect(text)

	snapshot, err := s.memorySvc.Snapshot(conversationID)
	if err != nil {
		return nil, oops.Errorf("memorySvc.Snapshot: %w", err)
	}

	res := s.resolve(ctx, conversationID, text, snapshot)

	toolData, err := s.runTool(ctx, res)
	if err != nil {
		return nil, oops.Errorf("tool %s: %w", res.toolName, err)
	}

	replyText := s.phrase(ctx, language, toolData)

	s.remember(conversationID, text, replyText, res)

	return &Reply{
		Text:     replyText,
		Intent:   res.intent,
		Language: language,
	}, nil
}

// resolve walks the layers: keyword tables first, then one decision-agent
// call for messages the cheap layers cannot place.
func (s *Service) resolve(ctx context.Context, conversationID, text string, snapshot memory.Conversation) resolution {
	matched, exact := s.classifier.Match(text)

	var decision *DecisionResponse
	if !exact && !s.cfg.Chat.DisableLLMFallback {
		decision = s.callDecisionAgent(ctx, text, snapshot)
		if decision != nil && decision.Confidence >= minConfidence {
			matched = intent.Intent(decision.Intent)
		}
	}

	// A bridged MCP tool may answer what none of the built-in intents
	// cover. Only names vetted against the registry are dispatched.
	if matched == intent.Fallback && decision != nil && decision.Tool != "" &&
		s.registry.HasExtra(decision.Tool) {
		return resolution{intent: intent.Fallback, toolName: decision.Tool, toolInput: decision.ToolInput}
	}

	switch matched {
	case intent.ProductList:
		return resolution{intent: matched, toolName: tools.ToolProductList}
	case intent.Refund:
		return resolution{intent: matched, toolName: tools.ToolRefundPolicy}
	case intent.Summary:
		return resolution{intent: matched, toolName: tools.ToolSummary, toolInput: conversationID}
	case intent.Order:
		return s.resolveOrder(text, snapshot, decision)
	case intent.Product:
		return s.resolveProduct(ctx, text, snapshot, decision)
	default:
		return resolution{intent: intent.Fallback, info: fallbackMessage}
	}
}

func (s *Service) callDecisionAgent(ctx context.Context, text string, snapshot memory.Conversation) *DecisionResponse {
	decision, err := s.decisionAgent.Call(ctx, text, s.catalogSvc.ProductNames(), s.registry.ExtraTools(), snapshot.Turns)
	if err != nil {
		slog.Warn("Decision agent failed, falling through",
			"text", text,
			"error", err,
		)
		return nil
	}

	return decision
}

// resolveOrder layers the id sources: regex on the message, then the
// decision agent's extraction, then the id remembered from earlier turns.
func (s *Service) resolveOrder(text string, snapshot memory.Conversation, decision *DecisionResponse) resolution {
	id := intent.ExtractOrderID(text)
	if id == "" && decision != nil {
		id = decision.OrderID
	}
	if id == "" {
		id = snapshot.LastOrderID
	}

	if id == "" {
		return resolution{intent: intent.Order, info: askOrderIDMessage}
	}

	return resolution{intent: intent.Order, toolName: tools.ToolOrderLookup, toolInput: id}
}

// resolveProduct layers the product sources: first-word heuristic on the
// cleaned message, then the decision agent, then pronoun resolution against
// the last discussed product.
func (s *Service) resolveProduct(ctx context.Context, text string, snapshot memory.Conversation, decision *DecisionResponse) resolution {
	cleaned := intent.CleanMessage(text)

	if product, ok := s.catalogSvc.ProductByFirstWord(cleaned); ok {
		return resolution{intent: intent.Product, toolName: tools.ToolProductInfo, toolInput: product.Name}
	}

	if decision == nil && !s.cfg.Chat.DisableLLMFallback {
		decision = s.callDecisionAgent(ctx, text, snapshot)
	}

	if decision != nil && decision.Product != "" {
		if product, ok := s.catalogSvc.ProductByName(decision.Product); ok {
			return resolution{intent: intent.Product, toolName: tools.ToolProductInfo, toolInput: product.Name}
		}
	}

	if (cleaned == "" || productPronouns[cleaned]) && len(snapshot.Products) > 0 {
		last := snapshot.Products[len(snapshot.Products)-1]
		return resolution{intent: intent.Product, toolName: tools.ToolProductInfo, toolInput: last}
	}

	return resolution{intent: intent.Product, info: askProductMessage}
}

func (s *Service) runTool(ctx context.Context, res resolution) (string, error) {
	if res.info != "" {
		data, err := json.Marshal(tools.InfoMessage(res.info))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	return s.registry.Call(ctx, res.toolName, res.toolInput)
}

// phrase asks the reply agent for prose; an LLM failure degrades to a canned
// default in the detected language instead of an error to the caller.
func (s *Service) phrase(ctx context.Context, language, toolData string) string {
	replyText, err := s.replyAgent.Call(ctx, language, toolData)
	if err != nil {
		slog.Error("Reply agent failed",
			"language", language,
			"error", err,
		)
		return defaultReply(language)
	}

	replyText = strings.TrimSpace(replyText)
	if len(replyText) > maxReplyLength {
		replyText = truncateRunes(replyText, maxReplyLength)
	}

	return replyText
}

// truncateRunes cuts the string at the last rune boundary at or before limit
// bytes. Slicing bytes directly would split multi-byte Arabic runes.
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}

	return s[:limit]
}

func defaultReply(language string) string {
	if language == lang.Arabic {
		return "عذراً، حدثت مشكلة أثناء معالجة رسالتك. حاول مرة أخرى."
	}

	return "Sorry, I ran into a problem answering that. Please try again."
}

// remember updates conversation memory and queues the transcript. Failures
// here must not fail the reply.
func (s *Service) remember(conversationID, text, replyText string, res resolution) {
	if err := s.memorySvc.RecordIntent(conversationID, string(res.intent)); err != nil {
		slog.Warn("memorySvc.RecordIntent failed", "error", err)
	}

	switch res.toolName {
	case tools.ToolProductInfo:
		if err := s.memorySvc.RecordProduct(conversationID, res.toolInput); err != nil {
			slog.Warn("memorySvc.RecordProduct failed", "error", err)
		}
	case tools.ToolOrderLookup:
		// A failed lookup must not become the remembered id, or every later
		// "where is my order" turn would resolve to the nonexistent order.
		if _, ok := s.catalogSvc.OrderByID(res.toolInput); ok {
			if err := s.memorySvc.RecordOrder(conversationID, res.toolInput); err != nil {
				slog.Warn("memorySvc.RecordOrder failed", "error", err)
			}
		}
	}

	if err := s.memorySvc.RecordTurn(conversationID, "user", text); err != nil {
		slog.Warn("memorySvc.RecordTurn failed", "error", err)
	}
	if err := s.memorySvc.RecordTurn(conversationID, "assistant", replyText); err != nil {
		slog.Warn("memorySvc.RecordTurn failed", "error", err)
	}

	s.transcriptSvc.Add(conversationID, "user", text)
	s.transcriptSvc.Add(conversationID, "assistant", replyText)
}

func (s *Service) Close() error {
	return nil
}
