package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timension-backend/internal/models"
)

type fakeSuggestionRepo struct {
	listErr   error
	createErr error
	stored    []models.Suggestion
}

func (f *fakeSuggestionRepo) List(ctx context.Context) ([]models.Suggestion, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.stored, nil
}

func (f *fakeSuggestionRepo) Create(ctx context.Context, content string) (*models.Suggestion, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	s := models.Suggestion{Content: content}
	f.stored = append(f.stored, s)
	return &s, nil
}

func TestListSuggestions(t *testing.T) {
	t.Run("store error serves the demo list in fixed order", func(t *testing.T) {
		svc := NewFeedbackService(&fakeSuggestionRepo{listErr: errors.New("unreachable")}, zerolog.Nop())

		got := svc.ListSuggestions(context.Background())
		want := demoSuggestions()
		require.Len(t, got, 3)
		assert.Equal(t, want, got)
	})

	t.Run("no database configured serves the demo list", func(t *testing.T) {
		svc := NewFeedbackService(nil, zerolog.Nop())

		got := svc.ListSuggestions(context.Background())
		assert.Equal(t, demoSuggestions(), got)
	})

	t.Run("real empty store is an empty list, not demo data", func(t *testing.T) {
		svc := NewFeedbackService(&fakeSuggestionRepo{}, zerolog.Nop())

		got := svc.ListSuggestions(context.Background())
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestSubmitSuggestion(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &fakeSuggestionRepo{}
		svc := NewFeedbackService(repo, zerolog.Nop())

		assert.True(t, svc.SubmitSuggestion(context.Background(), "More mentors!"))
		assert.Len(t, repo.stored, 1)
	})

	t.Run("store error reports false, never an error", func(t *testing.T) {
		svc := NewFeedbackService(&fakeSuggestionRepo{createErr: errors.New("down")}, zerolog.Nop())
		assert.False(t, svc.SubmitSuggestion(context.Background(), "More mentors!"))
	})

	t.Run("no database reports false", func(t *testing.T) {
		svc := NewFeedbackService(nil, zerolog.Nop())
		assert.False(t, svc.SubmitSuggestion(context.Background(), "More mentors!"))
	})
}
