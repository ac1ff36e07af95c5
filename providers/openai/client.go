package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/memexlabs/memex/internal/strutil"
	"github.com/memexlabs/memex/llm"
)

const (
	defaultEndpoint         = "https://api.openai.com/v1"
	defaultMaxResponseBytes = int64(8 << 20)
)

// Client talks to an OpenAI-compatible chat-completions endpoint with
// function calling. Any backend exposing the same wire shape works.
type Client struct {
	Endpoint string
	APIKey   string

	HTTP             *http.Client
	MaxResponseBytes int64
}

func New(endpoint, apiKey string) *Client {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		Endpoint:         endpoint,
		APIKey:           strings.TrimSpace(apiKey),
		HTTP:             &http.Client{Timeout: 120 * time.Second},
		MaxResponseBytes: defaultMaxResponseBytes,
	}
}

type wireToolCall struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
}

type wireTool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string          `json:"name"`
		Description string          `json:"description,omitempty"`
		Parameters  json.RawMessage `json:"parameters,omitempty"`
	} `json:"function"`
}

type chatResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *Client) Chat(ctx context.Context, req llm.Request) (llm.Result, error) {
	start := time.Now()

	body, err := json.Marshal(buildWireRequest(req))
	if err != nil {
		return llm.Result{}, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return llm.Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return llm.Result{}, err
	}
	defer resp.Body.Close()

	limit := c.MaxResponseBytes
	if limit <= 0 {
		limit = defaultMaxResponseBytes
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return llm.Result{}, fmt.Errorf("read chat response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return llm.Result{}, fmt.Errorf("decode chat response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strutil.TruncateUTF8(string(raw), 512)
		if parsed.Error != nil && strings.TrimSpace(parsed.Error.Message) != "" {
			msg = parsed.Error.Message
		}
		return llm.Result{}, fmt.Errorf("chat completion failed (status %d): %s", resp.StatusCode, msg)
	}
	if len(parsed.Choices) == 0 {
		return llm.Result{}, fmt.Errorf("chat response has no choices")
	}

	msg := parsed.Choices[0].Message
	out := llm.Result{
		Text: msg.Content,
		Usage: llm.Usage{
			InputTokens:  parsed.Usage.PromptTokens,
			OutputTokens: parsed.Usage.CompletionTokens,
			TotalTokens:  parsed.Usage.TotalTokens,
		},
		Duration: time.Since(start),
	}
	for _, tc := range msg.ToolCalls {
		name := strings.TrimSpace(tc.Function.Name)
		if name == "" {
			continue
		}
		args := map[string]any{}
		if raw := strings.TrimSpace(tc.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				// Keep malformed arguments so the tool can report the problem.
				args = map[string]any{"_raw": raw}
			}
		}
		out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
			ID:        strings.TrimSpace(tc.ID),
			Name:      name,
			Arguments: args,
		})
	}
	return out, nil
}

func buildWireRequest(req llm.Request) map[string]any {
	msgs := make([]wireMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		wm := wireMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			var wt wireToolCall
			wt.ID = tc.ID
			wt.Type = "function"
			wt.Function.Name = tc.Name
			if len(tc.Arguments) > 0 {
				if b, err := json.Marshal(tc.Arguments); err == nil {
					wt.Function.Arguments = string(b)
				}
			}
			if wt.Function.Arguments == "" {
				wt.Function.Arguments = "{}"
			}
			wm.ToolCalls = append(wm.ToolCalls, wt)
		}
		msgs = append(msgs, wm)
	}

	payload := map[string]any{
		"model":    req.Model,
		"messages": msgs,
	}
	if len(req.Tools) > 0 {
		tools := make([]wireTool, 0, len(req.Tools))
		for _, t := range req.Tools {
			var wt wireTool
			wt.Type = "function"
			wt.Function.Name = t.Name
			wt.Function.Description = t.Description
			if s := strings.TrimSpace(t.ParametersJSON); s != "" && json.Valid([]byte(s)) {
				wt.Function.Parameters = json.RawMessage(s)
			}
			tools = append(tools, wt)
		}
		payload["tools"] = tools
	}
	for k, v := range req.Parameters {
		if _, reserved := payload[k]; !reserved {
			payload[k] = v
		}
	}
	return payload
}
