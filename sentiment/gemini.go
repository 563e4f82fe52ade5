package sentiment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiExtractor 通过 Gemini 结构化输出完成情感分类和主题抽取。
type GeminiExtractor struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiExtractor(client *genai.Client, model string, timeout time.Duration) *GeminiExtractor {
	if model == "" {
		model = defaultGeminiModel
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GeminiExtractor{client: client, model: model, timeout: timeout}
}

// NewGeminiClient 使用 API Key 创建 Gemini 客户端。
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

func (e *GeminiExtractor) Name() string { return "gemini" }

func reviewSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"label": {
				Type:        genai.TypeString,
				Description: "Overall sentiment of the review",
				Enum:        []string{LabelNegative, LabelNeutral, LabelPositive},
			},
			"score": {
				Type:        genai.TypeNumber,
				Description: "Confidence of the label between 0 and 1",
			},
			"keywords": {
				Type:        genai.TypeArray,
				Description: "Themes and topics mentioned in the review",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"label", "score"},
	}
}

const reviewPrompt = `Classify the sentiment of this book review and extract its themes and topics.

Review:
%s`

func (e *GeminiExtractor) Analyze(ctx context.Context, text string) (*Analysis, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errInvalid("empty review")
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	content := genai.NewContentFromText(fmt.Sprintf(reviewPrompt, text), genai.RoleUser)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   reviewSchema(),
	}
	resp, err := e.client.Models.GenerateContent(ctx, e.model, []*genai.Content{content}, config)
	if err != nil {
		return nil, errUnavailable("gemini generate content", err)
	}
	return parseGeminiResult(resp.Text())
}

func parseGeminiResult(raw string) (*Analysis, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errUnavailable("gemini returned no candidates", nil)
	}
	var result struct {
		Label    string   `json:"label"`
		Score    float64  `json:"score"`
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, errUnavailable("decode gemini result", err)
	}
	label := strings.ToUpper(strings.TrimSpace(result.Label))
	// 模型偶尔把多个关键词合并成一项 "a, b"
	keywords := make([]string, 0, len(result.Keywords))
	for _, k := range result.Keywords {
		keywords = append(keywords, splitKeywords(k)...)
	}
	return &Analysis{
		Label:    label,
		Score:    result.Score,
		Rating:   RatingForLabel(label),
		Keywords: keywords,
	}, nil
}
