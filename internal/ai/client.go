// Package ai talks to the OpenRouter chat-completions API: free
// conversation, structured extraction of purchase details, audio
// transcription, and the tool-calling financial query.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dremassist/obrabot/internal/config"
	"github.com/dremassist/obrabot/internal/domain"
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    "https://openrouter.ai/api/v1",
		httpClient: &http.Client{Timeout: config.RequestTimeout},
	}
}

// Message is one chat-completion message. Content is a string for plain
// text or a []any of content parts (text, input_audio).
type Message struct {
	Role       string     `json:"role"`
	Content    any        `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Tools    []Tool    `json:"tools,omitempty"`
}

type responseMessage struct {
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls"`
}

type chatResponse struct {
	Choices []struct {
		Message responseMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, model string, messages []Message, tools []Tool) (responseMessage, error) {
	payload, err := json.Marshal(chatRequest{Model: model, Messages: messages, Tools: tools})
	if err != nil {
		return responseMessage{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return responseMessage{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return responseMessage{}, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return responseMessage{}, fmt.Errorf("rate limited by OpenRouter (429)")
	}
	if resp.StatusCode >= 500 {
		return responseMessage{}, fmt.Errorf("OpenRouter unavailable (%d)", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return responseMessage{}, fmt.Errorf("read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return responseMessage{}, fmt.Errorf("parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return responseMessage{}, fmt.Errorf("empty completion response")
	}
	return chatResp.Choices[0].Message, nil
}

const chatSystemPrompt = "Você é um assistente virtual de uma loja de materiais de construção. " +
	"Seu nome é Drem. Responda de forma prestativa, amigável e concisa. " +
	"Se o usuário quiser voltar ao menu, ajude-o."

// Chat produces a conversational reply seeded with the caller-supplied
// rolling history window.
func (c *Client) Chat(ctx context.Context, history []domain.ChatMessage, newMessage string) (string, error) {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: chatSystemPrompt})
	for _, m := range history {
		messages = append(messages, Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, Message{Role: "user", Content: newMessage})

	resp, err := c.complete(ctx, config.ChatModel, messages, nil)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
