package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timension-backend/internal/models"
)

// ─── Fakes ───

type fakeContent struct {
	headline *models.DailyHeadline
	reply    models.MentorReply
	mapImage *models.MapImage
	trivia   models.TriviaResult
	photos   models.PhotoSet
	simRes   models.SimulationResult
	lastReq  models.SimulationRequest
}

func (f *fakeContent) DailyHeadline(ctx context.Context) (*models.DailyHeadline, bool) {
	return f.headline, f.headline != nil
}

func (f *fakeContent) MentorReply(ctx context.Context, persona, era string, history []models.ChatMessage, message string) models.MentorReply {
	return f.reply
}

func (f *fakeContent) VintageMap(ctx context.Context, location string) (*models.MapImage, bool) {
	return f.mapImage, f.mapImage != nil
}

func (f *fakeContent) LocationTrivia(ctx context.Context, location string) models.TriviaResult {
	return f.trivia
}

func (f *fakeContent) HistoricalPhotos(ctx context.Context, location string) models.PhotoSet {
	return f.photos
}

func (f *fakeContent) Simulate(ctx context.Context, req models.SimulationRequest) models.SimulationResult {
	f.lastReq = req
	return f.simRes
}

type fakeFeedback struct {
	suggestions []models.Suggestion
	submitOK    bool
	submitted   []string
}

func (f *fakeFeedback) ListSuggestions(ctx context.Context) []models.Suggestion {
	return f.suggestions
}

func (f *fakeFeedback) SubmitSuggestion(ctx context.Context, content string) bool {
	f.submitted = append(f.submitted, content)
	return f.submitOK
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// ─── Headline ───

func TestHeadlineHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := NewHeadlineHandler(&fakeContent{headline: &models.DailyHeadline{Headline: "EXTRA!", ImageURL: "/img.jpg"}})

		rr := httptest.NewRecorder()
		h.Get(rr, httptest.NewRequest(http.MethodGet, "/api/v1/headline", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var got models.DailyHeadline
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, "EXTRA!", got.Headline)
	})

	t.Run("generation failure is 503", func(t *testing.T) {
		h := NewHeadlineHandler(&fakeContent{})

		rr := httptest.NewRecorder()
		h.Get(rr, httptest.NewRequest(http.MethodGet, "/api/v1/headline", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

// ─── Mentor ───

func TestMentorChatHandler(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		h := NewMentorHandler(&fakeContent{reply: models.MentorReply{Reply: "Indeed."}})

		rr := postJSON(t, h.Chat, "/api/v1/mentor/chat", models.ChatRequest{
			Persona: "Ada Lovelace",
			Era:     "Victorian London",
			Message: "Tell me of engines.",
		})

		require.Equal(t, http.StatusOK, rr.Code)
		var got models.MentorReply
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, "Indeed.", got.Reply)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			req  models.ChatRequest
		}{
			{"missing persona", models.ChatRequest{Message: "Hello"}},
			{"missing message", models.ChatRequest{Persona: "Ada Lovelace"}},
			{"blank message", models.ChatRequest{Persona: "Ada Lovelace", Message: "   "}},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				h := NewMentorHandler(&fakeContent{})
				rr := postJSON(t, h.Chat, "/api/v1/mentor/chat", tc.req)
				assert.Equal(t, http.StatusBadRequest, rr.Code)
			})
		}
	})
}

// ─── Explore ───

func exploreRouter(h *ExploreHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/explore/{location}", func(r chi.Router) {
		r.Get("/map", h.Map)
		r.Get("/trivia", h.Trivia)
		r.Get("/photos", h.Photos)
	})
	return r
}

func TestExploreHandler(t *testing.T) {
	t.Run("trivia passes through", func(t *testing.T) {
		h := NewExploreHandler(&fakeContent{trivia: models.TriviaResult{Location: "Kyoto", Facts: []string{"A fact about the old capital."}}})

		rr := httptest.NewRecorder()
		exploreRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/explore/Kyoto/trivia", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var got models.TriviaResult
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, "Kyoto", got.Location)
	})

	t.Run("map failure is 503", func(t *testing.T) {
		h := NewExploreHandler(&fakeContent{})

		rr := httptest.NewRecorder()
		exploreRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/explore/Kyoto/map", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("empty photo set is still 200", func(t *testing.T) {
		h := NewExploreHandler(&fakeContent{photos: models.PhotoSet{Location: "Kyoto", Images: []string{}}})

		rr := httptest.NewRecorder()
		exploreRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/explore/Kyoto/photos", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var got models.PhotoSet
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Empty(t, got.Images)
	})

	t.Run("url-escaped location is unescaped", func(t *testing.T) {
		fake := &fakeContent{trivia: models.TriviaResult{Location: "New York"}}
		h := NewExploreHandler(fake)

		rr := httptest.NewRecorder()
		exploreRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/explore/New%20York/trivia", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

// ─── Simulation ───

func TestSimulationHandler(t *testing.T) {
	t.Run("valid request reaches the generator", func(t *testing.T) {
		fake := &fakeContent{simRes: models.SimulationResult{Headline: "ALTERNATE PRESENT", Steps: make([]models.SimulationStep, 3)}}
		h := NewSimulationHandler(fake)

		rr := postJSON(t, h.Simulate, "/api/v1/simulation", models.SimulationRequest{
			Event:   "Moon landing",
			Outcome: "Humans walked on the Moon.",
			Change:  "The mission is aborted.",
		})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Moon landing", fake.lastReq.Event)
	})

	t.Run("fallback result is still 200", func(t *testing.T) {
		h := NewSimulationHandler(&fakeContent{simRes: models.SimulationResult{Fallback: true, Headline: "LINK SEVERED", Steps: make([]models.SimulationStep, 3)}})

		rr := postJSON(t, h.Simulate, "/api/v1/simulation", models.SimulationRequest{Event: "X", Change: "Y"})

		require.Equal(t, http.StatusOK, rr.Code)
		var got models.SimulationResult
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.True(t, got.Fallback)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		h := NewSimulationHandler(&fakeContent{})
		rr := postJSON(t, h.Simulate, "/api/v1/simulation", models.SimulationRequest{Event: "X"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("events catalog", func(t *testing.T) {
		h := NewSimulationHandler(&fakeContent{})

		rr := httptest.NewRecorder()
		h.Events(rr, httptest.NewRequest(http.MethodGet, "/api/v1/simulation/events", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var got struct {
			Events []models.PivotEvent `json:"events"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.NotEmpty(t, got.Events)
	})
}

// ─── Suggestions ───

func TestSuggestionHandler(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		h := NewSuggestionHandler(&fakeFeedback{suggestions: []models.Suggestion{{Content: "More eras!"}}})

		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/suggestions", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var got struct {
			Suggestions []models.Suggestion `json:"suggestions"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Len(t, got.Suggestions, 1)
	})

	t.Run("create success", func(t *testing.T) {
		fake := &fakeFeedback{submitOK: true}
		h := NewSuggestionHandler(fake)

		rr := postJSON(t, h.Create, "/api/v1/suggestions", models.CreateSuggestionRequest{Content: "Add pirates."})

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, []string{"Add pirates."}, fake.submitted)
	})

	t.Run("create blank content", func(t *testing.T) {
		h := NewSuggestionHandler(&fakeFeedback{submitOK: true})
		rr := postJSON(t, h.Create, "/api/v1/suggestions", models.CreateSuggestionRequest{Content: "   "})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("store unavailable is 503", func(t *testing.T) {
		h := NewSuggestionHandler(&fakeFeedback{submitOK: false})
		rr := postJSON(t, h.Create, "/api/v1/suggestions", models.CreateSuggestionRequest{Content: "Add pirates."})
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}
