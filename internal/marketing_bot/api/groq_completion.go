package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/metrics"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "mixtral-8x7b-32768"

	completionAttempts    = 2
	maxParallelCompletion = 8
	maxErrorBodyLen       = 512
)

// GroqAPI talks to Groq or any other OpenAI-compatible chat completions endpoint.
type GroqAPI struct {
	client      *http.Client        // HTTP клиент без общего таймаута, таймаут задаётся на попытку
	apiKey      string              // API-ключ для Bearer авторизации
	endpoint    string              // Полный адрес {base}/chat/completions
	modelName   string              // Версия генеративной модели
	maxTokens   int                 // Максимальное количество токенов ответа
	temperature float32             // Температура для управления креативностью
	timeout     time.Duration       // Таймаут одной попытки
	sem         *semaphore.Weighted // Ограничивает число одновременных запросов к провайдеру
}

// NewGroqAPI creates a completion client.
// Arguments:
//   - apiKey: bearer token of the provider.
//   - modelName: model identifier, DefaultGroqModel when empty.
//   - baseURL: API root without the /chat/completions suffix, DefaultGroqBaseURL when empty.
//   - maxTokens, temperature: sampling parameters sent with every request.
//   - timeout: deadline of a single attempt.
//
// Returns a pointer to a GroqAPI or an error if the key is missing.
func NewGroqAPI(apiKey, modelName, baseURL string, maxTokens int, temperature float32, timeout time.Duration) (*GroqAPI, error) {
	if apiKey == "" {
		return nil, errors.New("groq api key can't be empty")
	}
	if modelName == "" {
		modelName = DefaultGroqModel
	}
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GroqAPI{
		client:      &http.Client{},
		apiKey:      apiKey,
		endpoint:    strings.TrimRight(baseURL, "/") + "/chat/completions",
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
		sem:         semaphore.NewWeighted(maxParallelCompletion),
	}, nil
}

type chatCompletionRequest struct {
	Model       string           `json:"model"`
	Messages    []models.Message `json:"messages"`
	Temperature float32          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message models.Message `json:"message"`
	} `json:"choices"`
}

// Complete sends the messages and returns the text of the first choice.
// A transport error, a non-2xx status or an empty reply is retried once,
// after that the error wraps ErrCompletionFailed.
func (g *GroqAPI) Complete(ctx context.Context, messages []models.Message) (string, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}
	defer g.sem.Release(1)

	start := time.Now()
	defer func() {
		metrics.CompletionDuration.WithLabelValues("groq").Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(chatCompletionRequest{
		Model:       g.modelName,
		Messages:    messages,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %w", ErrCompletionFailed, err)
	}

	var lastErr error
	for attempt := 1; attempt <= completionAttempts; attempt++ {
		text, err := g.attempt(ctx, body)
		if err == nil {
			metrics.Completions.WithLabelValues("groq", "ok").Inc()
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
	metrics.Completions.WithLabelValues("groq", "error").Inc()
	return "", fmt.Errorf("%w: %w", ErrCompletionFailed, lastErr)
}

func (g *GroqAPI) attempt(ctx context.Context, body []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return "", fmt.Errorf("%w: %d %s", ErrBadStatus, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var parsed chatCompletionResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	content := parsed.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", errors.New("empty reply")
	}
	return content, nil
}
