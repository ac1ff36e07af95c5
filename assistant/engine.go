// Package assistant runs the bounded tool-calling loop: conversation
// state goes to a chat-completion endpoint, requested tools execute
// against local data, results feed back, and the loop ends with exactly
// one assistant message appended to the conversation.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/memexlabs/memex/internal/jsonutil"
	"github.com/memexlabs/memex/internal/strutil"
	"github.com/memexlabs/memex/llm"
	"github.com/memexlabs/memex/store"
	"github.com/memexlabs/memex/tools"
)

const (
	architectPrefix = "/architect"

	defaultMaxRounds           = 5
	defaultMaxObservationBytes = 128 * 1024
	defaultFallback            = "Sorry, I couldn't reach the assistant service. Please try again."

	titleMaxRunes = 50
)

type Mode string

const (
	ModeStandard  Mode = "standard"
	ModeArchitect Mode = "architect"
)

type Config struct {
	Model string
	// MaxRounds bounds the tool-augmented requests; one extra no-tools
	// request follows when the limit is hit.
	MaxRounds           int
	MaxObservationBytes int
	FallbackMessage     string
}

type Engine struct {
	client    llm.Client
	store     *store.Store
	standard  *tools.Registry
	architect *tools.Registry
	cfg       Config
	log       *slog.Logger
}

type Option func(*Engine)

func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

func New(client llm.Client, st *store.Store, standard, architect *tools.Registry, cfg Config, opts ...Option) *Engine {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = defaultMaxRounds
	}
	if cfg.MaxObservationBytes <= 0 {
		cfg.MaxObservationBytes = defaultMaxObservationBytes
	}
	if strings.TrimSpace(cfg.FallbackMessage) == "" {
		cfg.FallbackMessage = defaultFallback
	}
	if architect == nil {
		architect = standard
	}
	e := &Engine{
		client:    client,
		store:     st,
		standard:  standard,
		architect: architect,
		cfg:       cfg,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Respond processes one user message and returns the assistant message
// appended to the conversation. A total endpoint failure appends the
// fallback message instead of returning an error; only precondition
// violations (empty input) are surfaced to the caller.
func (e *Engine) Respond(ctx context.Context, conversationID, userText string) (store.Message, error) {
	mode, userText := splitMode(userText)
	if strings.TrimSpace(userText) == "" {
		return store.Message{}, fmt.Errorf("empty message")
	}

	reg := e.standard
	system := standardSystemPrompt
	if mode == ModeArchitect {
		reg = e.architect
		system = architectSystemPrompt
	}

	conv := e.store.EnsureConversation(conversationID)
	conversationID = conv.ID
	if conv.Title == "" && len(conv.Messages) == 0 {
		title := strutil.TruncateRunes(strings.TrimSpace(userText), titleMaxRunes)
		if err := e.store.SetConversationTitle(conversationID, title); err != nil {
			e.log.Warn("set conversation title failed", "conversation_id", conversationID, "error", err)
		}
	}

	history := e.store.VisibleMessages(conversationID)
	if _, err := e.store.AppendMessage(conversationID, store.Message{Role: store.RoleUser, Content: userText}); err != nil {
		return store.Message{}, err
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: string(store.RoleSystem), Content: system})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: string(store.RoleUser), Content: userText})

	text, itemIDs, usage, err := e.runLoop(ctx, reg, messages)
	if err != nil {
		e.log.Warn("assistant request failed, appending fallback", "conversation_id", conversationID, "error", err)
		fallback, appendErr := e.store.AppendMessage(conversationID, store.Message{
			Role:    store.RoleAssistant,
			Content: e.cfg.FallbackMessage,
		})
		if appendErr != nil {
			return store.Message{}, appendErr
		}
		return fallback, nil
	}

	meta := &store.MessageMeta{
		Model:        e.cfg.Model,
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
		ItemIDs:      itemIDs,
	}
	return e.store.AppendMessage(conversationID, store.Message{
		Role:    store.RoleAssistant,
		Content: text,
		Meta:    meta,
	})
}

// runLoop drives the completion/tool cycle until the model stops
// requesting tools or the round limit forces a terminal text response.
func (e *Engine) runLoop(ctx context.Context, reg *tools.Registry, messages []llm.Message) (string, []string, llm.Usage, error) {
	var (
		usage   llm.Usage
		itemIDs []string
	)
	llmTools := buildLLMTools(reg)

	for round := 1; round <= e.cfg.MaxRounds; round++ {
		res, err := e.client.Chat(ctx, llm.Request{
			Model:    e.cfg.Model,
			Messages: messages,
			Tools:    llmTools,
		})
		if err != nil {
			return "", nil, usage, err
		}
		usage.Add(res.Usage)

		if len(res.ToolCalls) == 0 {
			return res.Text, itemIDs, usage, nil
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   res.Text,
			ToolCalls: res.ToolCalls,
		})

		// Tool results go back in request order, each bound to its
		// originating call id.
		for _, call := range res.ToolCalls {
			payload := e.executeTool(ctx, reg, call)
			if call.Name == "search_items" {
				if ids := extractItemIDs(payload); len(ids) > 0 {
					itemIDs = ids
				}
			}
			messages = append(messages, llm.Message{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    strutil.TruncateUTF8(payload, e.cfg.MaxObservationBytes),
			})
		}
	}

	// Round limit hit: one final completion with tools disabled forces a
	// text answer.
	res, err := e.client.Chat(ctx, llm.Request{
		Model:    e.cfg.Model,
		Messages: messages,
	})
	if err != nil {
		return "", nil, usage, err
	}
	usage.Add(res.Usage)
	return res.Text, itemIDs, usage, nil
}

// executeTool runs one requested tool and always returns a payload:
// failures become a structured error result the model can react to.
func (e *Engine) executeTool(ctx context.Context, reg *tools.Registry, call llm.ToolCall) string {
	tool, ok := reg.Get(call.Name)
	if !ok {
		return fmt.Sprintf(`{"error":"unknown tool: %s"}`, call.Name)
	}
	out, err := tool.Execute(ctx, call.Arguments)
	if err != nil {
		e.log.Debug("tool execution failed", "tool", call.Name, "error", err)
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return out
}

func buildLLMTools(reg *tools.Registry) []llm.Tool {
	if reg == nil {
		return nil
	}
	all := reg.All()
	out := make([]llm.Tool, 0, len(all))
	for _, t := range all {
		name := strings.TrimSpace(t.Name())
		if name == "" {
			continue
		}
		out = append(out, llm.Tool{
			Name:           name,
			Description:    strings.TrimSpace(t.Description()),
			ParametersJSON: strings.TrimSpace(t.ParameterSchema()),
		})
	}
	return out
}

// splitMode strips a leading mode marker from the user's message.
func splitMode(text string) (Mode, string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == architectPrefix {
		return ModeArchitect, ""
	}
	if strings.HasPrefix(trimmed, architectPrefix+" ") {
		return ModeArchitect, strings.TrimSpace(strings.TrimPrefix(trimmed, architectPrefix+" "))
	}
	return ModeStandard, trimmed
}

// extractItemIDs pulls item ids out of a search_items result so the
// final assistant message can carry cards to render.
func extractItemIDs(payload string) []string {
	var res struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := jsonutil.DecodeWithFallback(payload, &res); err != nil {
		return nil
	}
	out := make([]string, 0, len(res.Items))
	for _, it := range res.Items {
		if it.ID != "" {
			out = append(out, it.ID)
		}
	}
	return out
}
