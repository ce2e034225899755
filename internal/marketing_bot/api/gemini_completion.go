package api

import (
	"context"
	"errors"
	"fmt"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/metrics"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"strings"
	"time"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiAPI представляет структуру для работы с Gemini API
type GeminiAPI struct {
	client      *genai.Client // Клиент для взаимодействия с API
	modelName   string        // Версия генеративной модели
	maxTokens   int           // Максимальное количество токенов (опционально)
	temperature float32       // Температура для управления креативностью (опционально)
	timeout     time.Duration // Таймаут одной попытки
}

// NewGeminiAPI создает новый экземпляр GeminiAPI
func NewGeminiAPI(apiKey, modelName string, maxTokens int, temperature float32, timeout time.Duration) (*GeminiAPI, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key can't be empty")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiAPI{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
	}, nil
}

// Complete maps system messages to the system instruction, earlier turns to the
// chat history and sends the last user message. It is retried once like GroqAPI.
func (g *GeminiAPI) Complete(ctx context.Context, messages []models.Message) (string, error) {
	start := time.Now()
	defer func() {
		metrics.CompletionDuration.WithLabelValues("gemini").Observe(time.Since(start).Seconds())
	}()

	system, history, last, err := splitForGemini(messages)
	if err != nil {
		metrics.Completions.WithLabelValues("gemini", "error").Inc()
		return "", fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}

	var lastErr error
	for attempt := 1; attempt <= completionAttempts; attempt++ {
		text, err := g.attempt(ctx, system, history, last)
		if err == nil {
			metrics.Completions.WithLabelValues("gemini", "ok").Inc()
			return text, nil
		}
		lastErr = err
		logrus.WithError(err).WithFields(logrus.Fields{
			"model":   g.modelName,
			"attempt": attempt,
		}).Warn("Completion attempt failed")
		if ctx.Err() != nil {
			break
		}
	}
	metrics.Completions.WithLabelValues("gemini", "error").Inc()
	return "", fmt.Errorf("%w: %w", ErrCompletionFailed, lastErr)
}

func (g *GeminiAPI) attempt(ctx context.Context, system string, history []*genai.Content, last string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.modelName)
	if g.maxTokens > 0 {
		model.SetMaxOutputTokens(int32(g.maxTokens))
	}
	if g.temperature >= 0 && g.temperature <= 2 {
		model.SetTemperature(g.temperature)
	}
	if system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}

	chat := model.StartChat()
	chat.History = history
	resp, err := chat.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return geminiText(resp)
}

// Close releases the underlying gRPC connection.
func (g *GeminiAPI) Close() error {
	return g.client.Close()
}

// splitForGemini converts role-tagged messages into the shape the Gemini chat API expects.
func splitForGemini(messages []models.Message) (system string, history []*genai.Content, last string, err error) {
	var instructions []string
	var turns []models.Message
	for _, m := range messages {
		if m.Role == models.RoleSystem {
			instructions = append(instructions, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	if len(turns) == 0 || turns[len(turns)-1].Role != models.RoleUser {
		return "", nil, "", errors.New("last message must come from the user")
	}
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return strings.Join(instructions, "\n"), history, turns[len(turns)-1].Content, nil
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("empty response")
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		if b.Len() > 0 {
			return b.String(), nil
		}
	}
	return "", errors.New("no text candidates returned")
}
