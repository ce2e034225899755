package service

import (
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/constant"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	"strconv"
	"strings"
)

// FormatKeywords renders keyword records as a chat message.
func FormatKeywords(records []models.KeywordRecord) string {
	if len(records) == 0 {
		return constant.MSG_KEYWORDS_EMPTY
	}
	var b strings.Builder
	b.WriteString(constant.MSG_KEYWORDS_HEADER)
	for _, kw := range records {
		b.WriteString("Keyword: " + kw.Keyword + "\n")
		b.WriteString("Relevance: " + strconv.Itoa(kw.Relevance) + "%\n")
		b.WriteString("Match Type: " + orNotAvailable(string(kw.MatchType)) + "\n")
		b.WriteString("Intent: " + orNotAvailable(string(kw.Intent)) + "\n\n")
	}
	return b.String()
}

// FormatBenchmarks renders benchmark tables in platform order.
// Platforms without entries are skipped.
func FormatBenchmarks(data models.Benchmarks) string {
	if !hasEntries(data) {
		return constant.MSG_BENCHMARKS_EMPTY
	}
	var b strings.Builder
	b.WriteString(constant.MSG_BENCHMARKS_HEADER)
	for _, platform := range models.Platforms {
		entries := data[platform]
		if len(entries) == 0 {
			continue
		}
		b.WriteString(string(platform) + " Benchmarks:\n")
		for _, e := range entries {
			b.WriteString(e.Industry + ":\n")
			b.WriteString("CTR: " + orNotAvailable(e.CTR) + "\n")
			b.WriteString("CPC: " + orNotAvailable(e.CPC) + "\n\n")
		}
	}
	return b.String()
}

func orNotAvailable(v string) string {
	if v == "" {
		return constant.MSG_NOT_AVAILABLE
	}
	return v
}
