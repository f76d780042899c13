package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ingredient-guide/internal/core/ai"
	"ingredient-guide/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// Client OpenRouter 生成器
type Client struct {
	client    *resty.Client
	model     string
	maxTokens int
	now       func() time.Time
}

// Options 客戶端設定
type Options struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
}

// Message 消息結構
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat 要求模型輸出 JSON 物件
type ResponseFormat struct {
	Type string `json:"type"`
}

// Request chat completions 請求
type Request struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// Response chat completions 響應
type Response struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Choice 選擇結構
type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// NewClient 創建 OpenRouter 客戶端
func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openrouter api key is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", opts.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Title", "Ingredient Guide")

	return &Client{
		client:    client,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		now:       time.Now,
	}, nil
}

// Generate 呼叫 chat completions 並解析判斷
func (c *Client) Generate(ctx context.Context, name string) (*common.IngredientJudgment, error) {
	req := Request{
		Model: c.model,
		Messages: []Message{
			{Role: "user", Content: ai.BuildPrompt(name, c.now())},
		},
		MaxTokens:      c.maxTokens,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	start := time.Now()
	content, err := c.send(ctx, req)
	common.LogAICall("openrouter", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return ai.ParseJudgment(content)
}

func (c *Client) send(ctx context.Context, req Request) (string, error) {
	var result Response
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("OpenRouter API returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if result.Error != nil {
		return "", fmt.Errorf("OpenRouter API returned error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", ai.ErrEmptyResponse
	}

	return result.Choices[0].Message.Content, nil
}

// Model 使用中的模型名稱
func (c *Client) Model() string {
	return c.model
}
