package service

import (
	"context"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/constant"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	"github.com/sirupsen/logrus"
	"strings"
)

const faqSystemPrompt = "You are a digital marketing expert. Provide clear, actionable answers."

// MarketingFAQ answers free-form digital marketing questions.
type MarketingFAQ struct {
	client CompletionClient
}

// NewMarketingFAQ creates a MarketingFAQ on top of client.
func NewMarketingFAQ(client CompletionClient) *MarketingFAQ {
	return &MarketingFAQ{client: client}
}

// Answer returns the model reply as is, or a fixed apology when there is none.
func (f *MarketingFAQ) Answer(ctx context.Context, question string) string {
	answer, err := f.client.Complete(ctx, []models.Message{
		{Role: models.RoleSystem, Content: faqSystemPrompt},
		{Role: models.RoleUser, Content: question},
	})
	if err != nil {
		logrus.WithError(err).Error("FAQ completion failed")
		return constant.MSG_FAQ_FALLBACK
	}
	if strings.TrimSpace(answer) == "" {
		return constant.MSG_FAQ_FALLBACK
	}
	return answer
}
