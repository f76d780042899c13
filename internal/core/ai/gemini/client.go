package gemini

import (
	"context"
	"fmt"
	"time"

	"ingredient-guide/internal/core/ai"
	"ingredient-guide/internal/pkg/common"

	"google.golang.org/genai"
)

// contentGenerator genai.Models 中用到的方法
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client Gemini 生成器
type Client struct {
	models contentGenerator
	model  string
	now    func() time.Time
}

// NewClient 創建 Gemini 客戶端
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newClient(genaiClient.Models, model, time.Now), nil
}

func newClient(models contentGenerator, model string, now func() time.Time) *Client {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Client{models: models, model: model, now: now}
}

// Generate 呼叫 Gemini 並解析結構化輸出
func (c *Client) Generate(ctx context.Context, name string) (*common.IngredientJudgment, error) {
	start := time.Now()
	result, err := c.models.GenerateContent(ctx, c.model,
		genai.Text(ai.BuildPrompt(name, c.now())),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   judgmentSchema,
		},
	)
	common.LogAICall("gemini", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if result == nil {
		return nil, ai.ErrEmptyResponse
	}

	return ai.ParseJudgment(result.Text())
}

// Model 使用中的模型名稱
func (c *Client) Model() string {
	return c.model
}

var (
	shelfLifeEntrySchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"days":  {Type: genai.TypeInteger},
			"label": {Type: genai.TypeString},
		},
		Required: []string{"days", "label"},
	}

	judgmentSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"isValid":       {Type: genai.TypeBoolean},
			"correctedName": {Type: genai.TypeString},
			"suggestion":    {Type: genai.TypeString},
			"storage": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"refrigerator": {Type: genai.TypeString},
					"freezer":      {Type: genai.TypeString},
					"roomTemp":     {Type: genai.TypeString},
				},
				Required: []string{"refrigerator", "freezer", "roomTemp"},
			},
			"shelfLife": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"refrigerator": shelfLifeEntrySchema,
					"freezer":      shelfLifeEntrySchema,
					"roomTemp":     shelfLifeEntrySchema,
				},
				Required: []string{"refrigerator", "freezer", "roomTemp"},
			},
			"seasonal": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"isInSeason":   {Type: genai.TypeBoolean},
					"seasonMonths": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeInteger}},
					"seasonLabel":  {Type: genai.TypeString},
					"description":  {Type: genai.TypeString},
				},
				Required: []string{"isInSeason", "seasonMonths", "seasonLabel", "description"},
			},
		},
		Required: []string{"isValid", "correctedName", "suggestion", "storage", "shelfLife", "seasonal"},
	}
)
