package models

type SuggestionType string

const (
	SuggestionNewItem  SuggestionType = "new-item"
	SuggestionFeedback SuggestionType = "feedback"
	SuggestionIssue    SuggestionType = "issue"
	SuggestionGeneral  SuggestionType = "general"
)

type Suggestion struct {
	ID        string         `json:"id,omitempty"`
	Type      SuggestionType `json:"type"`
	Text      string         `json:"text"`
	From      string         `json:"from"`
	Read      bool           `json:"read"`
	CreatedAt string         `json:"createdAt"`
	Timestamp int64          `json:"timestamp"`
}
