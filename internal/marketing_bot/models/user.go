package models

import "time"

// Step is a stage of the intake dialog. The zero value is StepIdle.
type Step string

const (
	StepIdle                   Step = ""                        // Нет активного сценария
	StepAwaitingIndustry       Step = "awaiting_industry"       // Ждём сферу бизнеса
	StepAwaitingObjective      Step = "awaiting_objective"      // Ждём выбор цели из меню
	StepAwaitingWebsite        Step = "awaiting_website"        // Ждём адрес сайта
	StepAwaitingSocialMedia    Step = "awaiting_social_media"   // Ждём ссылки на соцсети
	StepAwaitingTargetAudience Step = "awaiting_target_audience" // Ждём описание аудитории
	StepAwaitingLocation       Step = "awaiting_location"       // Ждём регион продвижения
	StepAwaitingFAQ            Step = "awaiting_faq"            // Режим вопросов по маркетингу
)

// Valid reports whether s is one of the declared steps.
func (s Step) Valid() bool {
	switch s {
	case StepIdle, StepAwaitingIndustry, StepAwaitingObjective, StepAwaitingWebsite,
		StepAwaitingSocialMedia, StepAwaitingTargetAudience, StepAwaitingLocation, StepAwaitingFAQ:
		return true
	}
	return false
}

// String returns a printable step name, "idle" for the zero value.
func (s Step) String() string {
	if s == StepIdle {
		return "idle"
	}
	return string(s)
}

// UserState holds the intake answers collected for one user.
type UserState struct {
	UserID         int64     `json:"userID"`         // Идентификатор пользователя Telegram
	CurrentStep    Step      `json:"currentStep"`    // Текущий этап диалога с пользователем
	Industry       string    `json:"industry"`       // Сфера бизнеса
	Objective      string    `json:"objective"`      // Цель бизнеса, выбранная из меню
	Website        string    `json:"website"`        // Сайт компании
	SocialMedia    string    `json:"socialMedia"`    // Ссылки на соцсети
	TargetAudience string    `json:"targetAudience"` // Целевая аудитория
	Location       string    `json:"location"`       // Регион продвижения
	UpdatedAt      time.Time `json:"updatedAt"`      // Время последнего изменения, для TTL
}

// IsIdle reports whether the user has no active flow.
func (u UserState) IsIdle() bool {
	return u.CurrentStep == StepIdle
}

// EventKind distinguishes the inbound event types coming from the chat platform.
type EventKind int

const (
	EventText    EventKind = iota // free-text message
	EventChoice                   // inline keyboard selection
	EventCommand                  // slash command such as /start
)

// Event is a single inbound user action.
type Event struct {
	UserID int64
	ChatID int64
	Kind   EventKind
	Text   string // message text, callback data or command name
}

// Choice is one selectable option attached to a reply.
type Choice struct {
	Label string
	Data  string
}

// Reply is one outgoing message, optionally carrying a menu of choices.
type Reply struct {
	Text    string
	Choices []Choice
}
