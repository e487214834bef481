package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cv-builder/internal/model"
	"cv-builder/pkg/ai/formatters"
)

const DefaultChatTimeout = 60 * time.Second

// ChatGenerator calls an internal ai-service exposing POST /v1/chat with
// {"agent","input"} and answering {"agent","output"}.
type ChatGenerator struct {
	BaseURL string
	HTTP    *http.Client
}

func NewChatGenerator(baseURL string, timeout time.Duration) *ChatGenerator {
	if timeout <= 0 {
		timeout = DefaultChatTimeout
	}
	return &ChatGenerator{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Agent string `json:"agent"`
	Input string `json:"input"`
}

type chatResponse struct {
	Agent  string `json:"agent"`
	Output string `json:"output"`
}

func (g *ChatGenerator) Generate(ctx context.Context, req Request) (string, error) {
	input := req.Prompt
	if req.JSON {
		// the service has no response schema support
		input = formatters.WithSchema(req.Prompt, model.Schema())
	}
	b, err := json.Marshal(chatRequest{Agent: "auto", Input: input})
	if err != nil {
		return "", err
	}

	slog.Debug("ai.client: POST /v1/chat", "url", g.BaseURL, "bytes", len(b))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/v1/chat", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTP.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	slog.Debug("ai.client: response", "status", resp.StatusCode, "bytes", len(respBytes))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai-service returned non-200 status: %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", err
	}
	return chatResp.Output, nil
}
