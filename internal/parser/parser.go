// Package parser turns free-form text into structured task candidates by
// calling an OpenAI-compatible chat-completions API and extracting the JSON
// array from the reply. It is a thin wrapper: the only logic on this side is
// JSON extraction and enum validation.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"focusboard/backend/internal/model"
)

// ErrUnconfigured is returned when no API key is available.
var ErrUnconfigured = errors.New("no API key configured")

// ParsedTask is one task candidate extracted from the model reply.
type ParsedTask struct {
	Text     string         `json:"text"`
	Category model.Category `json:"category"`
	Priority model.Priority `json:"priority"`
	Duration string         `json:"duration"`
}

type Client struct {
	baseURL string
	model   string
	apiKey  string
	httpc   *http.Client
}

// New builds a parser client. apiKey may be empty; a per-request key (the
// cached-API-key preference) can stand in at call time.
func New(baseURL, modelName, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   modelName,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

const systemPrompt = `You convert a user's natural-language notes into tasks.
Reply with ONLY a JSON array. Each element: {"text": string, "category": one
of Work|Personal|Deen|Learning|Home|Health, "priority": one of
Critical|QuickWin|High|Medium|Low, "duration": short estimate like "15m"}.`

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Parse sends the text to the completion API and returns the validated task
// candidates. requestKey overrides the configured API key when non-empty.
func (c *Client) Parse(ctx context.Context, text, requestKey string) ([]ParsedTask, error) {
	key := c.apiKey
	if requestKey != "" {
		key = requestKey
	}
	if key == "" {
		return nil, ErrUnconfigured
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call completion API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiResp chatResponse
		if json.Unmarshal(body, &apiResp) == nil && apiResp.Error != nil {
			return nil, fmt.Errorf("completion API: %s", apiResp.Error.Message)
		}
		return nil, fmt.Errorf("completion API returned %d", resp.StatusCode)
	}

	var apiResp chatResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return nil, errors.New("completion API returned no choices")
	}

	return ExtractTasks(apiResp.Choices[0].Message.Content)
}

// ExtractTasks pulls the first JSON array out of a model reply, which often
// wraps it in prose or a code fence, and validates each element.
func ExtractTasks(reply string) ([]ParsedTask, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end <= start {
		return nil, errors.New("no JSON array in model reply")
	}

	var raw []ParsedTask
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode task array: %w", err)
	}

	tasks := make([]ParsedTask, 0, len(raw))
	for _, task := range raw {
		task.Text = strings.TrimSpace(task.Text)
		if task.Text == "" {
			continue
		}
		if !model.IsValidCategory(task.Category) || !task.Category.IsProject() {
			task.Category = model.CategoryVoiceInbox
		}
		if !model.IsValidPriority(task.Priority) {
			task.Priority = model.PriorityMedium
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
