package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yeremiapane/waffle-wala/database"
	"github.com/yeremiapane/waffle-wala/models"
	"github.com/yeremiapane/waffle-wala/utils"
)

const (
	FilterAll    = "all"
	FilterUnread = "unread"
)

type SuggestionInput struct {
	Type string `json:"type"`
	Text string `json:"text"`
	From string `json:"from"`
}

type SuggestionService struct {
	store database.Store
	now   func() time.Time
}

func NewSuggestionService(store database.Store) *SuggestionService {
	return &SuggestionService{store: store, now: time.Now}
}

func normalizeSuggestionType(raw string) models.SuggestionType {
	switch t := models.SuggestionType(strings.TrimSpace(raw)); t {
	case models.SuggestionNewItem, models.SuggestionFeedback, models.SuggestionIssue:
		return t
	default:
		return models.SuggestionGeneral
	}
}

// Submit stores a customer suggestion.
func (s *SuggestionService) Submit(ctx context.Context, in SuggestionInput) (*models.Suggestion, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, &ValidationError{Field: "text", Message: "Please write something first"}
	}
	from := strings.TrimSpace(in.From)
	if from == "" {
		from = "Anonymous"
	}

	now := s.now()
	sug := &models.Suggestion{
		Type:      normalizeSuggestionType(in.Type),
		Text:      text,
		From:      from,
		CreatedAt: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Timestamp: now.UnixMilli(),
	}
	data, err := json.Marshal(sug)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	if _, err := s.store.Create(ctx, models.CollectionSuggestions, id, data, sug.Timestamp); err != nil {
		return nil, persistErr("save suggestion", err)
	}
	sug.ID = id
	utils.InfoLogger.Printf("New %s suggestion from %s", sug.Type, sug.From)
	return sug, nil
}

// List returns suggestions newest first. filter is "all", "unread" or a type.
func (s *SuggestionService) List(ctx context.Context, filter string) ([]models.Suggestion, error) {
	docs, err := s.store.List(ctx, models.CollectionSuggestions)
	if err != nil {
		return nil, err
	}

	out := make([]models.Suggestion, 0, len(docs))
	for _, doc := range docs {
		var sug models.Suggestion
		if err := doc.Decode(&sug); err != nil {
			utils.ErrorLogger.Errorf("Skipping unreadable suggestion %s: %v", doc.DocID, err)
			continue
		}
		sug.ID = doc.DocID
		switch filter {
		case "", FilterAll:
		case FilterUnread:
			if sug.Read {
				continue
			}
		default:
			if string(sug.Type) != filter {
				continue
			}
		}
		out = append(out, sug)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out, nil
}

// UnreadCount is shown next to the inbox tab.
func (s *SuggestionService) UnreadCount(ctx context.Context) (int, error) {
	unread, err := s.List(ctx, FilterUnread)
	return len(unread), err
}

func (s *SuggestionService) SetRead(ctx context.Context, id string, read bool) (*models.Suggestion, error) {
	var sug models.Suggestion
	_, err := updateDocument(ctx, s.store, models.CollectionSuggestions, id, func(doc *models.Document) ([]byte, error) {
		if err := doc.Decode(&sug); err != nil {
			return nil, err
		}
		sug.Read = read
		return json.Marshal(sug)
	})
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrSuggestionNotFound
	}
	if err != nil {
		return nil, persistErr("update suggestion", err)
	}
	sug.ID = id
	return &sug, nil
}

func (s *SuggestionService) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	err := s.store.Delete(ctx, models.CollectionSuggestions, id)
	if errors.Is(err, database.ErrNotFound) {
		return ErrSuggestionNotFound
	}
	return persistErr("delete suggestion", err)
}
