// Package llm отвечает на вопросы по контенту сайта через Google Gemini.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/config"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/service"
	"github.com/IvanChernomyrdin/go-webchat/internal/shared/utils"
)

// DefaultModel: модель, если в конфиге не задана.
const DefaultModel = "gemini-2.5-flash"

var _ service.Generator = (*GeminiGenerator)(nil)

// NewGeminiClient создаёт клиента Gemini API.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return client, nil
}

// GeminiGenerator реализует service.Generator.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
	assistant   string
}

// NewGeminiGenerator создаёт генератор по секции llm конфига.
func NewGeminiGenerator(client *genai.Client, cfg config.LLMConfig) *GeminiGenerator {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		assistant:   cfg.AssistantName,
	}
}

// Generate отправляет в модель контент сайта и вопрос, возвращает текст ответа.
func (g *GeminiGenerator) Generate(ctx context.Context, content, question string) (string, error) {
	if g.client == nil {
		return "", errors.New("gemini client is not configured")
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: BuildUserPrompt(content, question)}},
		}},
		BuildConfig(g.assistant, g.temperature),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", errors.New("gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig: системная инструкция (персона ассистента) и температура.
// Нулевая температура означает значение модели по умолчанию.
func BuildConfig(assistantName string, temperature float32) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: BuildSystemInstruction(assistantName)}},
		},
	}
	if temperature > 0 {
		cfg.Temperature = utils.Ptr(temperature)
	}
	return cfg
}

// BuildSystemInstruction описывает поведение ассистента.
func BuildSystemInstruction(assistantName string) string {
	if assistantName == "" {
		assistantName = "Pluto"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s, the assistant of a website called WebChat. ", assistantName)
	sb.WriteString("You have access to the content of one website, provided as markdown. ")
	sb.WriteString("Answer the user's query based on this content. ")
	sb.WriteString("If the query cannot be answered with the provided content, say so and give a general response if possible. ")
	sb.WriteString("If the user gets off track, bring them back to the website content. ")
	sb.WriteString(`Do not start answers with phrases like "Based on the content".`)
	return sb.String()
}

// BuildUserPrompt собирает контент сайта и вопрос в одно сообщение.
func BuildUserPrompt(content, question string) string {
	var sb strings.Builder
	sb.WriteString("<website_content>\n")
	sb.WriteString(content)
	sb.WriteString("\n</website_content>\n\n")
	fmt.Fprintf(&sb, "User query: %s", question)
	return sb.String()
}
