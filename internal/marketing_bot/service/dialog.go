package service

import (
	"context"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/constant"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/metrics"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	"github.com/sirupsen/logrus"
	"strings"
)

// Dialog is the per-user intake state machine. Every input is one
// read-modify-write of the user's state under the user's lock.
type Dialog struct {
	states     UsersChatStateRepository
	keywords   KeywordSource
	faq        FAQSource
	benchmarks BenchmarkSource
}

// NewDialog creates a Dialog.
// Arguments:
//   - states: user state storage.
//   - keywords: keyword pipeline used when the intake is complete.
//   - faq: answers questions in FAQ mode.
//   - benchmarks: source of the benchmark tables.
//
// Returns a pointer to a Dialog.
func NewDialog(states UsersChatStateRepository, keywords KeywordSource, faq FAQSource, benchmarks BenchmarkSource) *Dialog {
	return &Dialog{
		states:     states,
		keywords:   keywords,
		faq:        faq,
		benchmarks: benchmarks,
	}
}

// MainMenu returns the three top-level choices.
func MainMenu() []models.Choice {
	return []models.Choice{
		{Label: constant.BUTTON_TEXT_KEYWORDS, Data: constant.BUTTON_CODE_KEYWORDS},
		{Label: constant.BUTTON_TEXT_BENCHMARKS, Data: constant.BUTTON_CODE_BENCHMARKS},
		{Label: constant.BUTTON_TEXT_FAQ, Data: constant.BUTTON_CODE_FAQ},
	}
}

// ObjectiveMenu returns the business objective choices.
func ObjectiveMenu() []models.Choice {
	choices := make([]models.Choice, 0, len(constant.Objectives))
	for _, obj := range constant.Objectives {
		choices = append(choices, models.Choice{Label: obj, Data: constant.BUTTON_CODE_OBJECTIVE_PREFIX + obj})
	}
	return choices
}

// HandleInput applies one user event to the user's state and returns the replies to send.
// At most one pipeline call (keywords, FAQ or benchmarks) is made per event.
func (d *Dialog) HandleInput(ctx context.Context, ev models.Event) []models.Reply {
	unlock := d.states.Lock(ev.UserID)
	defer unlock()

	metrics.Updates.WithLabelValues(kindLabel(ev.Kind)).Inc()
	state := d.states.Get(ev.UserID)
	metrics.Transitions.WithLabelValues(state.CurrentStep.String()).Inc()

	if !state.CurrentStep.Valid() {
		logrus.WithFields(logrus.Fields{
			"user_id": ev.UserID,
			"step":    string(state.CurrentStep),
		}).Warn("Unknown dialog step, resetting user")
		d.states.Clear(ev.UserID)
		return defaultMenu()
	}

	switch ev.Kind {
	case models.EventCommand:
		return d.handleCommand(ev)
	case models.EventChoice:
		return d.handleChoice(ctx, state, ev.Text)
	case models.EventText:
		return d.handleText(ctx, state, ev.Text)
	}
	return defaultMenu()
}

func (d *Dialog) handleCommand(ev models.Event) []models.Reply {
	switch ev.Text {
	case constant.COMMAND_START:
		return []models.Reply{{Text: constant.MSG_WELCOME, Choices: MainMenu()}}
	case constant.COMMAND_MENU, constant.COMMAND_CANCEL:
		d.states.Clear(ev.UserID)
	}
	return defaultMenu()
}

func (d *Dialog) handleChoice(ctx context.Context, state models.UserState, data string) []models.Reply {
	switch {
	case data == constant.BUTTON_CODE_KEYWORDS:
		d.states.Save(models.UserState{UserID: state.UserID, CurrentStep: models.StepAwaitingIndustry})
		return textReply(constant.MSG_ASK_INDUSTRY)

	case data == constant.BUTTON_CODE_BENCHMARKS:
		// текущий сценарий пользователя не сбрасывается
		return textReply(FormatBenchmarks(d.benchmarks.Benchmarks(ctx)))

	case data == constant.BUTTON_CODE_FAQ:
		d.states.Save(models.UserState{UserID: state.UserID, CurrentStep: models.StepAwaitingFAQ})
		return textReply(constant.MSG_ASK_FAQ)

	case strings.HasPrefix(data, constant.BUTTON_CODE_OBJECTIVE_PREFIX):
		objective := strings.TrimSpace(strings.TrimPrefix(data, constant.BUTTON_CODE_OBJECTIVE_PREFIX))
		if state.CurrentStep != models.StepAwaitingObjective || objective == "" {
			return defaultMenu()
		}
		state.Objective = objective
		state.CurrentStep = models.StepAwaitingWebsite
		d.states.Save(state)
		return textReply(constant.MSG_ASK_WEBSITE)
	}
	return defaultMenu()
}

func (d *Dialog) handleText(ctx context.Context, state models.UserState, text string) []models.Reply {
	text = strings.TrimSpace(text)

	switch state.CurrentStep {
	case models.StepIdle:
		return defaultMenu()

	case models.StepAwaitingIndustry:
		state.Industry = text
		state.CurrentStep = models.StepAwaitingObjective
		d.states.Save(state)
		return []models.Reply{{Text: constant.MSG_ASK_OBJECTIVE, Choices: ObjectiveMenu()}}

	case models.StepAwaitingObjective:
		// цель выбирается только кнопкой
		return defaultMenu()

	case models.StepAwaitingWebsite:
		state.Website = text
		state.CurrentStep = models.StepAwaitingSocialMedia
		d.states.Save(state)
		return textReply(constant.MSG_ASK_SOCIAL_MEDIA)

	case models.StepAwaitingSocialMedia:
		state.SocialMedia = text
		state.CurrentStep = models.StepAwaitingTargetAudience
		d.states.Save(state)
		return textReply(constant.MSG_ASK_AUDIENCE)

	case models.StepAwaitingTargetAudience:
		state.TargetAudience = text
		state.CurrentStep = models.StepAwaitingLocation
		d.states.Save(state)
		return textReply(constant.MSG_ASK_LOCATION)

	case models.StepAwaitingLocation:
		state.Location = text
		records := d.keywords.Generate(ctx, models.KeywordRequest{
			Industry:       state.Industry,
			Objective:      state.Objective,
			Website:        state.Website,
			SocialMedia:    state.SocialMedia,
			TargetAudience: state.TargetAudience,
			Location:       state.Location,
		})
		d.states.Clear(state.UserID)
		return textReply(FormatKeywords(records))

	case models.StepAwaitingFAQ:
		answer := d.faq.Answer(ctx, text)
		d.states.Save(state)
		return textReply(answer)
	}
	return defaultMenu()
}

func defaultMenu() []models.Reply {
	return []models.Reply{{Text: constant.MSG_DEFAULT_MENU, Choices: MainMenu()}}
}

func textReply(text string) []models.Reply {
	return []models.Reply{{Text: text}}
}

func kindLabel(kind models.EventKind) string {
	switch kind {
	case models.EventChoice:
		return "choice"
	case models.EventCommand:
		return "command"
	}
	return "text"
}
