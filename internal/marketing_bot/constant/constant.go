package constant

const (
	EMOJI_ROCKET     = "\U0001F680" //🚀
	EMOJI_DIRECT_HIT = "\U0001F3AF" //🎯
	EMOJI_BAR_CHART  = "\U0001F4CA" //📊
	EMOJI_MAGNIFIER  = "\U0001F50D" //🔍
	EMOJI_SPEECH     = "\U0001F4AC" //💬

	BUTTON_TEXT_KEYWORDS   = EMOJI_MAGNIFIER + " Generate Keywords"
	BUTTON_TEXT_BENCHMARKS = EMOJI_BAR_CHART + " Industry Benchmarks"
	BUTTON_TEXT_FAQ        = EMOJI_SPEECH + " Marketing FAQ"

	BUTTON_CODE_KEYWORDS   = "cmd_keywords"
	BUTTON_CODE_BENCHMARKS = "cmd_benchmarks"
	BUTTON_CODE_FAQ        = "cmd_faq"

	// BUTTON_CODE_OBJECTIVE_PREFIX prefixes the callback data of objective buttons.
	BUTTON_CODE_OBJECTIVE_PREFIX = "obj_"

	COMMAND_START  = "/start"
	COMMAND_MENU   = "/menu"
	COMMAND_CANCEL = "/cancel"
)

// Objectives offered at the objective step, in display order.
var Objectives = []string{"Lead Generation", "Sales", "Brand Awareness", "Customer Retention"}

const (
	MSG_WELCOME          = "Welcome to the AI Marketing Assistant! " + EMOJI_ROCKET + "\nPlease select what you'd like to do:"
	MSG_DEFAULT_MENU     = "Please use the menu options below to get started:"
	MSG_ASK_INDUSTRY     = "What industry is your business in?"
	MSG_ASK_OBJECTIVE    = "What is your business objective?"
	MSG_ASK_WEBSITE      = "Do you have a website? If yes, please share the URL."
	MSG_ASK_SOCIAL_MEDIA = "Do you have any social media platforms? If yes, please share the URLs."
	MSG_ASK_AUDIENCE     = "Who is your target audience? (e.g., young adults, professionals, etc.)"
	MSG_ASK_LOCATION     = "What location would you like to target?"
	MSG_ASK_FAQ          = "Please ask your digital marketing question, and I'll provide detailed guidance."

	MSG_KEYWORDS_HEADER   = EMOJI_DIRECT_HIT + " Generated Keywords:\n\n"
	MSG_KEYWORDS_EMPTY    = "Sorry, I couldn't generate keywords right now. Please try again later."
	MSG_BENCHMARKS_HEADER = EMOJI_BAR_CHART + " Industry Benchmarks:\n\n"
	MSG_BENCHMARKS_EMPTY  = "Sorry, I couldn't fetch the benchmark data at the moment."
	MSG_FAQ_FALLBACK      = "I apologize, but I couldn't generate an answer at this time."

	// MSG_NOT_AVAILABLE is shown for a benchmark figure the page did not publish.
	MSG_NOT_AVAILABLE = "N/A"
)
