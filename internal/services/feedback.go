package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"timension-backend/internal/models"
)

type suggestionRepository interface {
	List(ctx context.Context) ([]models.Suggestion, error)
	Create(ctx context.Context, content string) (*models.Suggestion, error)
}

// FeedbackService fronts the suggestion store. When the store is missing
// or unreachable it serves a fixed demonstration list so the suggestion
// wall is never empty because of an outage.
type FeedbackService struct {
	repo suggestionRepository
	log  zerolog.Logger
}

// NewFeedbackService accepts a nil repo when no database is configured.
func NewFeedbackService(repo suggestionRepository, logger zerolog.Logger) *FeedbackService {
	return &FeedbackService{repo: repo, log: logger}
}

// demoSuggestions is returned, in this order, whenever the real store
// cannot be read. Callers cannot tell "empty" from "unreachable" here.
func demoSuggestions() []models.Suggestion {
	base := time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)
	return []models.Suggestion{
		{ID: uuid.MustParse("a1f2c3d4-0001-4000-8000-000000000001"), Content: "Let me interview two mentors at once and watch them argue!", CreatedAt: base.Add(2 * time.Hour)},
		{ID: uuid.MustParse("a1f2c3d4-0002-4000-8000-000000000002"), Content: "Add a mode where the Gazette reports on MY alternate timeline.", CreatedAt: base.Add(time.Hour)},
		{ID: uuid.MustParse("a1f2c3d4-0003-4000-8000-000000000003"), Content: "More locations from the southern hemisphere, please.", CreatedAt: base},
	}
}

// ListSuggestions never fails: any storage error degrades to the demo list.
func (s *FeedbackService) ListSuggestions(ctx context.Context) []models.Suggestion {
	if s.repo == nil {
		return demoSuggestions()
	}

	suggestions, err := s.repo.List(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("suggestion store unreachable, serving demo data")
		return demoSuggestions()
	}
	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}
	return suggestions
}

// SubmitSuggestion reports success as a bare bool; it never surfaces an
// error. Duplicate submits produce duplicate records.
func (s *FeedbackService) SubmitSuggestion(ctx context.Context, content string) bool {
	if s.repo == nil {
		return false
	}

	if _, err := s.repo.Create(ctx, content); err != nil {
		s.log.Warn().Err(err).Msg("failed to store suggestion")
		return false
	}
	return true
}
