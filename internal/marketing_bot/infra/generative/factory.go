package generative

import (
	"fmt"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/api"
	botServ "github.com/DenisKhanov/MarketingBot/internal/marketing_bot/service"
	"sort"
	"strings"
	"time"
)

// Settings carries the provider options read from the environment.
type Settings struct {
	APIKey      string
	ModelName   string
	BaseURL     string // only used by OpenAI-compatible providers
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// generativeCreator defines a function to create a CompletionClient
type generativeCreator func(s Settings) (botServ.CompletionClient, error)

// generativeRegistry stores registered implementations
var generativeRegistry = map[string]generativeCreator{
	"groq": func(s Settings) (botServ.CompletionClient, error) {
		client, err := api.NewGroqAPI(s.APIKey, s.ModelName, s.BaseURL, s.MaxTokens, s.Temperature, s.Timeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	},
	"gemini": func(s Settings) (botServ.CompletionClient, error) {
		client, err := api.NewGeminiAPI(s.APIKey, s.ModelName, s.MaxTokens, s.Temperature, s.Timeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	},
}

// ModelFactory creates a CompletionClient implementation based on GENERATIVE_NAME
func ModelFactory(generativeName string, s Settings) (botServ.CompletionClient, error) {
	creator, exists := generativeRegistry[strings.ToLower(generativeName)]
	if !exists {
		return nil, fmt.Errorf("unsupported GENERATIVE_NAME: %s (expected one of %s)", generativeName, strings.Join(Names(), ", "))
	}
	return creator(s)
}

// Names lists the registered provider names.
func Names() []string {
	names := make([]string, 0, len(generativeRegistry))
	for name := range generativeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
