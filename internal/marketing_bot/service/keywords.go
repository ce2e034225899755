package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/metrics"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	"github.com/sirupsen/logrus"
	"math"
	"strconv"
	"strings"
)

const (
	keywordSystemPrompt = "You are a digital marketing expert specializing in keyword research and SEO."
	notSpecified        = "Not specified"
)

var (
	// ErrNoJSONArray means the model reply contains no bracketed array.
	ErrNoJSONArray = errors.New("no json array in reply")
	// ErrMalformedJSON means the bracketed span is not a valid array of objects.
	ErrMalformedJSON = errors.New("malformed keyword json")
)

// KeywordOutcome reports how a keyword generation ended.
type KeywordOutcome string

const (
	OutcomeOK               KeywordOutcome = "ok"
	OutcomeCompletionFailed KeywordOutcome = "completion_failed"
	OutcomeNoJSONArray      KeywordOutcome = "no_json_array"
	OutcomeMalformedJSON    KeywordOutcome = "malformed_json"
)

// KeywordResult is the records produced for one request together with the way they were obtained.
type KeywordResult struct {
	Records []models.KeywordRecord
	Outcome KeywordOutcome
	Dropped int // records skipped for a missing keyword or relevance
}

// KeywordGenerator asks the completion provider for keyword suggestions and normalizes the reply.
type KeywordGenerator struct {
	client CompletionClient
}

// NewKeywordGenerator creates a KeywordGenerator on top of client.
func NewKeywordGenerator(client CompletionClient) *KeywordGenerator {
	return &KeywordGenerator{client: client}
}

// Generate returns the keyword records for req. Any failure yields an empty list.
func (g *KeywordGenerator) Generate(ctx context.Context, req models.KeywordRequest) []models.KeywordRecord {
	return g.GenerateWithOutcome(ctx, req).Records
}

// GenerateWithOutcome performs exactly one completion request and normalizes the reply.
// Records is never nil.
func (g *KeywordGenerator) GenerateWithOutcome(ctx context.Context, req models.KeywordRequest) KeywordResult {
	result := KeywordResult{Records: []models.KeywordRecord{}}

	raw, err := g.client.Complete(ctx, []models.Message{
		{Role: models.RoleSystem, Content: keywordSystemPrompt},
		{Role: models.RoleUser, Content: BuildKeywordPrompt(req)},
	})
	if err != nil {
		logrus.WithError(err).WithField("industry", req.Industry).Error("Keyword completion failed")
		result.Outcome = OutcomeCompletionFailed
		metrics.KeywordOutcomes.WithLabelValues(string(result.Outcome)).Inc()
		return result
	}

	records, dropped, err := ExtractKeywords(raw)
	switch {
	case errors.Is(err, ErrNoJSONArray):
		result.Outcome = OutcomeNoJSONArray
	case errors.Is(err, ErrMalformedJSON):
		result.Outcome = OutcomeMalformedJSON
	default:
		result.Outcome = OutcomeOK
		result.Records = records
		result.Dropped = dropped
	}
	if err != nil {
		logrus.WithError(err).WithField("reply_len", len(raw)).Warn("Keyword reply could not be parsed")
	}
	if dropped > 0 {
		logrus.WithField("dropped", dropped).Info("Keyword records without keyword or relevance skipped")
		metrics.KeywordRecordsDropped.Add(float64(dropped))
	}
	metrics.KeywordOutcomes.WithLabelValues(string(result.Outcome)).Inc()
	return result
}

// BuildKeywordPrompt renders the fixed keyword prompt. Empty attributes are shown as "Not specified".
func BuildKeywordPrompt(req models.KeywordRequest) string {
	return fmt.Sprintf(`Generate a list of 10 keywords for a business with:
Industry: %s
Business Objective: %s
Website: %s
Social Media: %s
Target Audience: %s
Location: %s

Format as JSON array:
[
    {
        "keyword": "example keyword",
        "relevance": 85,
        "match_type": "phrase",
        "intent": "transactional"
    }
]`,
		orNotSpecified(req.Industry),
		orNotSpecified(req.Objective),
		orNotSpecified(req.Website),
		orNotSpecified(req.SocialMedia),
		orNotSpecified(req.TargetAudience),
		orNotSpecified(req.Location),
	)
}

func orNotSpecified(v string) string {
	if strings.TrimSpace(v) == "" {
		return notSpecified
	}
	return v
}

// rawKeyword mirrors a model record loosely, the model does not always respect types.
type rawKeyword struct {
	Keyword   json.RawMessage `json:"keyword"`
	Relevance json.RawMessage `json:"relevance"`
	MatchType json.RawMessage `json:"match_type"`
	Intent    json.RawMessage `json:"intent"`
}

// ExtractKeywords takes the span from the first '[' to the last ']' of raw and
// decodes it as an array of keyword records. Records without a keyword or a
// relevance are dropped and counted. Relevance is clamped to 0..100, unknown
// match types and intents are left empty.
func ExtractKeywords(raw string) ([]models.KeywordRecord, int, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < start {
		return []models.KeywordRecord{}, 0, ErrNoJSONArray
	}

	var items []rawKeyword
	if err := json.Unmarshal([]byte(raw[start:end+1]), &items); err != nil {
		return []models.KeywordRecord{}, 0, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}

	records := make([]models.KeywordRecord, 0, len(items))
	dropped := 0
	for _, item := range items {
		keyword := strings.TrimSpace(jsonString(item.Keyword))
		relevance, ok := parseRelevance(item.Relevance)
		if keyword == "" || !ok {
			dropped++
			continue
		}
		record := models.KeywordRecord{Keyword: keyword, Relevance: relevance}
		if mt := models.MatchType(strings.ToLower(strings.TrimSpace(jsonString(item.MatchType)))); mt.Valid() {
			record.MatchType = mt
		}
		if in := models.Intent(strings.ToLower(strings.TrimSpace(jsonString(item.Intent)))); in.Valid() {
			record.Intent = in
		}
		records = append(records, record)
	}
	return records, dropped, nil
}

func jsonString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// parseRelevance accepts 90, 90.4, "90" and "90%".
func parseRelevance(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		s := jsonString(raw)
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
		if s == "" {
			return 0, false
		}
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return int(math.Round(math.Max(0, math.Min(100, f)))), true
}
