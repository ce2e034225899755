package models

// MatchType is the ad-platform keyword match type.
type MatchType string

const (
	MatchBroad  MatchType = "broad"
	MatchPhrase MatchType = "phrase"
	MatchExact  MatchType = "exact"
)

// Valid reports whether m is a known match type.
func (m MatchType) Valid() bool {
	return m == MatchBroad || m == MatchPhrase || m == MatchExact
}

// Intent is the search intent behind a keyword.
type Intent string

const (
	IntentInformational Intent = "informational"
	IntentNavigational  Intent = "navigational"
	IntentTransactional Intent = "transactional"
)

// Valid reports whether i is a known intent.
func (i Intent) Valid() bool {
	return i == IntentInformational || i == IntentNavigational || i == IntentTransactional
}

// KeywordRecord is one keyword suggestion parsed from the model reply.
type KeywordRecord struct {
	Keyword   string    `json:"keyword"`
	Relevance int       `json:"relevance"` // 0..100
	MatchType MatchType `json:"match_type,omitempty"`
	Intent    Intent    `json:"intent,omitempty"`
}

// KeywordRequest carries the business attributes collected by the intake dialog.
type KeywordRequest struct {
	Industry       string
	Objective      string
	Website        string
	SocialMedia    string
	TargetAudience string
	Location       string
}
