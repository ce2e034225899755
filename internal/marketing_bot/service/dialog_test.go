package service

import (
	"context"
	"testing"
	"time"

	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/constant"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser int64 = 1001

type dialogFixture struct {
	dialog     *Dialog
	store      *spyStore
	keywords   *fakeKeywords
	faq        *fakeFAQ
	benchmarks *fakeBenchmarkSource
}

func newDialogFixture() *dialogFixture {
	f := &dialogFixture{
		store: newSpyStore(),
		keywords: &fakeKeywords{records: []models.KeywordRecord{
			{Keyword: "austin retail store", Relevance: 90, MatchType: models.MatchPhrase, Intent: models.IntentTransactional},
		}},
		faq: &fakeFAQ{},
		benchmarks: &fakeBenchmarkSource{data: models.Benchmarks{
			models.PlatformFacebook: {{Industry: "Retail", CTR: "1.59%", CPC: "$0.70"}},
		}},
	}
	f.dialog = NewDialog(f.store, f.keywords, f.faq, f.benchmarks)
	return f
}

func (f *dialogFixture) text(t *testing.T, s string) []models.Reply {
	t.Helper()
	return f.dialog.HandleInput(context.Background(), models.Event{UserID: testUser, ChatID: testUser, Kind: models.EventText, Text: s})
}

func (f *dialogFixture) choice(t *testing.T, data string) []models.Reply {
	t.Helper()
	return f.dialog.HandleInput(context.Background(), models.Event{UserID: testUser, ChatID: testUser, Kind: models.EventChoice, Text: data})
}

func (f *dialogFixture) command(t *testing.T, cmd string) []models.Reply {
	t.Helper()
	return f.dialog.HandleInput(context.Background(), models.Event{UserID: testUser, ChatID: testUser, Kind: models.EventCommand, Text: cmd})
}

func (f *dialogFixture) step() models.Step {
	return f.store.Get(testUser).CurrentStep
}

func requireDefaultMenu(t *testing.T, replies []models.Reply) {
	t.Helper()
	require.Len(t, replies, 1)
	assert.Equal(t, constant.MSG_DEFAULT_MENU, replies[0].Text)
	assert.Equal(t, MainMenu(), replies[0].Choices)
}

func TestDialog_KeywordHappyPath(t *testing.T) {
	f := newDialogFixture()

	replies := f.choice(t, constant.BUTTON_CODE_KEYWORDS)
	require.Len(t, replies, 1)
	assert.Equal(t, constant.MSG_ASK_INDUSTRY, replies[0].Text)
	assert.Equal(t, models.StepAwaitingIndustry, f.step())

	replies = f.text(t, "Retail")
	require.Len(t, replies, 1)
	assert.Equal(t, constant.MSG_ASK_OBJECTIVE, replies[0].Text)
	require.Len(t, replies[0].Choices, 4)
	assert.Equal(t, "obj_Lead Generation", replies[0].Choices[0].Data)
	assert.Equal(t, models.StepAwaitingObjective, f.step())

	replies = f.choice(t, "obj_Sales")
	assert.Equal(t, constant.MSG_ASK_WEBSITE, replies[0].Text)
	assert.Equal(t, models.StepAwaitingWebsite, f.step())

	replies = f.text(t, "https://shop.example")
	assert.Equal(t, constant.MSG_ASK_SOCIAL_MEDIA, replies[0].Text)
	assert.Equal(t, models.StepAwaitingSocialMedia, f.step())

	replies = f.text(t, "instagram.com/shop")
	assert.Equal(t, constant.MSG_ASK_AUDIENCE, replies[0].Text)
	assert.Equal(t, models.StepAwaitingTargetAudience, f.step())

	replies = f.text(t, "young adults")
	assert.Equal(t, constant.MSG_ASK_LOCATION, replies[0].Text)
	assert.Equal(t, models.StepAwaitingLocation, f.step())

	assert.Equal(t, 0, f.store.clearCount())
	replies = f.text(t, "Austin")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, constant.MSG_KEYWORDS_HEADER)
	assert.Contains(t, replies[0].Text, "Keyword: austin retail store\nRelevance: 90%\n")

	require.Len(t, f.keywords.requests, 1)
	assert.Equal(t, models.KeywordRequest{
		Industry:       "Retail",
		Objective:      "Sales",
		Website:        "https://shop.example",
		SocialMedia:    "instagram.com/shop",
		TargetAudience: "young adults",
		Location:       "Austin",
	}, f.keywords.requests[0])

	assert.Equal(t, 1, f.store.clearCount())
	assert.True(t, f.store.Get(testUser).IsIdle())
}

func TestDialog_UnmatchedAtIdleShowsDefaultMenu(t *testing.T) {
	tests := []struct {
		name string
		send func(f *dialogFixture, t *testing.T) []models.Reply
	}{
		{name: "free text", send: func(f *dialogFixture, t *testing.T) []models.Reply { return f.text(t, "hello") }},
		{name: "objective without intake", send: func(f *dialogFixture, t *testing.T) []models.Reply { return f.choice(t, "obj_Sales") }},
		{name: "unknown choice", send: func(f *dialogFixture, t *testing.T) []models.Reply { return f.choice(t, "cmd_unknown") }},
		{name: "unknown command", send: func(f *dialogFixture, t *testing.T) []models.Reply { return f.command(t, "/help") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDialogFixture()
			requireDefaultMenu(t, tt.send(f, t))
			assert.True(t, f.store.Get(testUser).IsIdle())
			assert.Equal(t, 0, f.store.Len())
		})
	}
}

func TestDialog_NoStepOutOfOrder(t *testing.T) {
	f := newDialogFixture()
	f.choice(t, constant.BUTTON_CODE_KEYWORDS)

	requireDefaultMenu(t, f.choice(t, "obj_Sales"))
	assert.Equal(t, models.StepAwaitingIndustry, f.step())
	assert.Empty(t, f.store.Get(testUser).Objective)

	f.text(t, "Retail")
	requireDefaultMenu(t, f.text(t, "Sales please"))
	state := f.store.Get(testUser)
	assert.Equal(t, models.StepAwaitingObjective, state.CurrentStep)
	assert.Empty(t, state.Objective)
	assert.Empty(t, state.Website)
}

func TestDialog_FAQStaysInFAQ(t *testing.T) {
	f := newDialogFixture()

	replies := f.choice(t, constant.BUTTON_CODE_FAQ)
	assert.Equal(t, constant.MSG_ASK_FAQ, replies[0].Text)

	replies = f.text(t, "How do I lower CPC?")
	assert.Equal(t, "answer: How do I lower CPC?", replies[0].Text)
	replies = f.text(t, "And CTR?")
	assert.Equal(t, "answer: And CTR?", replies[0].Text)

	assert.Equal(t, models.StepAwaitingFAQ, f.step())
	assert.Equal(t, []string{"How do I lower CPC?", "And CTR?"}, f.faq.questions)
}

func TestDialog_Benchmarks(t *testing.T) {
	f := newDialogFixture()
	f.choice(t, constant.BUTTON_CODE_FAQ)

	replies := f.choice(t, constant.BUTTON_CODE_BENCHMARKS)
	require.Len(t, replies, 1)
	assert.Equal(t, constant.MSG_BENCHMARKS_HEADER+"Facebook Benchmarks:\nRetail:\nCTR: 1.59%\nCPC: $0.70\n\n", replies[0].Text)
	assert.Equal(t, 1, f.benchmarks.calls)
	assert.Equal(t, models.StepAwaitingFAQ, f.step(), "benchmarks keep the FAQ flow")
	assert.Equal(t, 0, f.store.clearCount())

	f.benchmarks.data = models.Benchmarks{}
	replies = f.choice(t, constant.BUTTON_CODE_BENCHMARKS)
	assert.Equal(t, constant.MSG_BENCHMARKS_EMPTY, replies[0].Text)
}

func TestDialog_BenchmarksKeepIntake(t *testing.T) {
	f := newDialogFixture()
	f.choice(t, constant.BUTTON_CODE_KEYWORDS)
	f.text(t, "Retail")

	f.choice(t, constant.BUTTON_CODE_BENCHMARKS)
	state := f.store.Get(testUser)
	assert.Equal(t, models.StepAwaitingObjective, state.CurrentStep)
	assert.Equal(t, "Retail", state.Industry)

	replies := f.choice(t, constant.BUTTON_CODE_OBJECTIVE_PREFIX+"Sales")
	assert.Equal(t, constant.MSG_ASK_WEBSITE, replies[0].Text)
}

func TestDialog_SlowUserDoesNotBlockOthers(t *testing.T) {
	release := make(chan struct{})
	dialog := NewDialog(newSpyStore(), &fakeKeywords{}, &fakeFAQ{}, &blockingBenchmarks{release: release})

	slow := make(chan []models.Reply, 1)
	go func() {
		slow <- dialog.HandleInput(context.Background(), models.Event{UserID: 1, ChatID: 1, Kind: models.EventChoice, Text: constant.BUTTON_CODE_BENCHMARKS})
	}()

	answered := make(chan []models.Reply, 1)
	go func() {
		answered <- dialog.HandleInput(context.Background(), models.Event{UserID: 65, ChatID: 65, Kind: models.EventCommand, Text: constant.COMMAND_START})
	}()

	select {
	case replies := <-answered:
		require.Len(t, replies, 1)
		assert.Equal(t, constant.MSG_WELCOME, replies[0].Text)
	case <-time.After(time.Second):
		t.Fatal("user 65 waited for user 1's benchmark fetch")
	}

	close(release)
	replies := <-slow
	assert.Equal(t, constant.MSG_BENCHMARKS_EMPTY, replies[0].Text)
}

func TestDialog_MenuChoiceRestartsFlow(t *testing.T) {
	f := newDialogFixture()
	f.choice(t, constant.BUTTON_CODE_KEYWORDS)
	f.text(t, "Retail")

	f.choice(t, constant.BUTTON_CODE_KEYWORDS)
	state := f.store.Get(testUser)
	assert.Equal(t, models.StepAwaitingIndustry, state.CurrentStep)
	assert.Empty(t, state.Industry)
}

func TestDialog_Commands(t *testing.T) {
	f := newDialogFixture()
	f.choice(t, constant.BUTTON_CODE_FAQ)

	replies := f.command(t, constant.COMMAND_START)
	require.Len(t, replies, 1)
	assert.Equal(t, constant.MSG_WELCOME, replies[0].Text)
	assert.Equal(t, MainMenu(), replies[0].Choices)
	assert.Equal(t, models.StepAwaitingFAQ, f.step())

	requireDefaultMenu(t, f.command(t, constant.COMMAND_CANCEL))
	assert.True(t, f.store.Get(testUser).IsIdle())
}

func TestDialog_InvalidStepResets(t *testing.T) {
	f := newDialogFixture()
	f.store.Save(models.UserState{UserID: testUser, CurrentStep: models.Step("awaiting_budget"), Industry: "Retail"})

	requireDefaultMenu(t, f.text(t, "1000 USD"))
	assert.True(t, f.store.Get(testUser).IsIdle())
	assert.Empty(t, f.store.Get(testUser).Industry)
}

func TestDialog_EmptyKeywordsFallback(t *testing.T) {
	f := newDialogFixture()
	f.keywords.records = []models.KeywordRecord{}

	f.choice(t, constant.BUTTON_CODE_KEYWORDS)
	f.text(t, "Retail")
	f.choice(t, "obj_Sales")
	f.text(t, "")
	f.text(t, "")
	f.text(t, "")
	replies := f.text(t, "Austin")

	assert.Equal(t, constant.MSG_KEYWORDS_EMPTY, replies[0].Text)
	assert.True(t, f.store.Get(testUser).IsIdle())
}
