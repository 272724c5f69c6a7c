package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"timension-backend/internal/models"
)

// UpdatesChannel is the redis pub/sub channel the status hub listens on.
const UpdatesChannel = "timension:updates"

// textRequest describes a single text-generation call. Schema and Grounded
// are mutually exclusive: the upstream service rejects requests that ask
// for both a structured response and search grounding.
type textRequest struct {
	Prompt    string
	Schema    *genai.Schema
	Grounded  bool
	MaxTokens int32
}

type imageBlob struct {
	MIMEType string
	Data     []byte
}

// generativeBackend is the seam between the adapter and the Gemini SDK.
// Tests substitute a fake via the service's dial function.
type generativeBackend interface {
	GenerateText(ctx context.Context, req textRequest) (string, error)
	GenerateImage(ctx context.Context, prompt string) (imageBlob, error)
	Close() error
}

type dialFunc func(ctx context.Context, apiKey string) (generativeBackend, error)

// GeminiService is the single choke point for calls to the generative-AI
// service. Every operation resolves the credential first and returns an
// absent result, never an error, when no usable credential or connection
// exists. The only observable failure signal is the log.
type GeminiService struct {
	creds    *CredentialStore
	redis    *redis.Client // nil when caching/updates are disabled
	log      zerolog.Logger
	dial     dialFunc
	rateChan chan struct{} // token bucket

	mu         sync.Mutex
	backend    generativeBackend
	backendKey string
}

func NewGeminiService(
	creds *CredentialStore,
	redisClient *redis.Client,
	logger zerolog.Logger,
	textModel string,
	imageModel string,
	concurrentReqs int,
) *GeminiService {
	if concurrentReqs < 1 {
		concurrentReqs = 1
	}
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		creds:    creds,
		redis:    redisClient,
		log:      logger,
		rateChan: rateChan,
		dial: func(ctx context.Context, apiKey string) (generativeBackend, error) {
			client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
			if err != nil {
				return nil, fmt.Errorf("failed to create Gemini client: %w", err)
			}
			return &genaiBackend{client: client, textModel: textModel, imageModel: imageModel}, nil
		},
	}
}

func (s *GeminiService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend != nil {
		s.backend.Close()
		s.backend = nil
		s.backendKey = ""
	}
}

// Credentials exposes the store so handlers can set a visitor key and
// report its source.
func (s *GeminiService) Credentials() *CredentialStore {
	return s.creds
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// conn returns a backend for the currently resolved credential, dialing a
// fresh one when the credential changed since the last call. Returns false
// without any I/O when no credential is resolved.
func (s *GeminiService) conn(ctx context.Context) (generativeBackend, bool) {
	key, ok := s.creds.Resolve()
	if !ok {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend != nil && s.backendKey == key {
		return s.backend, true
	}

	backend, err := s.dial(ctx, key)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to dial Gemini")
		return nil, false
	}

	if s.backend != nil {
		s.backend.Close()
	}
	s.backend = backend
	s.backendKey = key
	return backend, true
}

// TestConnectivity issues a minimal request with the resolved credential.
// Invalid auth and exhausted quota both collapse into false; callers only
// learn whether the service is usable right now.
func (s *GeminiService) TestConnectivity(ctx context.Context) bool {
	backend, ok := s.conn(ctx)
	if !ok {
		return false
	}
	if err := s.acquireRate(ctx); err != nil {
		return false
	}
	defer s.releaseRate()

	_, err := backend.GenerateText(ctx, textRequest{
		Prompt:    "Reply with the single word: pong.",
		MaxTokens: 8,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("connectivity test failed")
		return false
	}
	return true
}

// GenerateStructured issues a request constrained to the given schema and
// returns the raw JSON payload. Absent when no credential is resolved, the
// call fails, or the payload is not valid JSON after stripping any code
// fences the upstream service wrapped it in.
func (s *GeminiService) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) ([]byte, bool) {
	backend, ok := s.conn(ctx)
	if !ok {
		return nil, false
	}
	if err := s.acquireRate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("structured generation rate wait failed")
		return nil, false
	}
	defer s.releaseRate()

	text, err := backend.GenerateText(ctx, textRequest{Prompt: prompt, Schema: schema})
	if err != nil {
		s.log.Warn().Err(err).Msg("structured generation failed")
		return nil, false
	}

	payload := stripCodeFence(text)
	if !json.Valid([]byte(payload)) {
		s.log.Warn().Str("payload", truncate(payload, 200)).Msg("structured generation returned invalid JSON")
		return nil, false
	}
	return []byte(payload), true
}

// generateGrounded issues a search-grounded plain-text request. Grounded
// calls cannot carry a response schema, so callers post-process the text.
func (s *GeminiService) generateGrounded(ctx context.Context, prompt string) (string, bool) {
	backend, ok := s.conn(ctx)
	if !ok {
		return "", false
	}
	if err := s.acquireRate(ctx); err != nil {
		return "", false
	}
	defer s.releaseRate()

	text, err := backend.GenerateText(ctx, textRequest{Prompt: prompt, Grounded: true})
	if err != nil {
		s.log.Warn().Err(err).Msg("grounded generation failed")
		return "", false
	}
	return text, true
}

// generateText issues an unconstrained plain-text request.
func (s *GeminiService) generateText(ctx context.Context, prompt string) (string, bool) {
	backend, ok := s.conn(ctx)
	if !ok {
		return "", false
	}
	if err := s.acquireRate(ctx); err != nil {
		return "", false
	}
	defer s.releaseRate()

	text, err := backend.GenerateText(ctx, textRequest{Prompt: prompt})
	if err != nil {
		s.log.Warn().Err(err).Msg("text generation failed")
		return "", false
	}
	return text, true
}

// GenerateImage requests one image and returns the first inline payload as
// a base64 data URI. Absent on any failure or when no image part is present.
func (s *GeminiService) GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, bool) {
	backend, ok := s.conn(ctx)
	if !ok {
		return "", false
	}
	if err := s.acquireRate(ctx); err != nil {
		return "", false
	}
	defer s.releaseRate()

	if aspectRatio != "" {
		prompt = fmt.Sprintf("%s The image must have a %s aspect ratio.", prompt, aspectRatio)
	}

	blob, err := backend.GenerateImage(ctx, prompt)
	if err != nil {
		s.log.Warn().Err(err).Msg("image generation failed")
		return "", false
	}
	if len(blob.Data) == 0 {
		return "", false
	}

	mime := blob.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(blob.Data)), true
}

// PublishUpdate pushes a status event for the websocket hub. A missing
// redis connection silently disables the stream.
func (s *GeminiService) PublishUpdate(ctx context.Context, msg models.WSMessage) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.redis.Publish(ctx, UpdatesChannel, string(data))
}

// Helper functions

// stripCodeFence removes the ```json / ``` decoration the service wraps
// JSON payloads in.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// genaiBackend is the production backend over the Gemini SDK.
type genaiBackend struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

func (b *genaiBackend) GenerateText(ctx context.Context, req textRequest) (string, error) {
	model := b.client.GenerativeModel(b.textModel)
	model.SetTemperature(0.8)
	model.SetTopP(0.95)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(req.MaxTokens)
	}
	if req.Schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = req.Schema
	}
	if req.Grounded {
		model.Tools = []*genai.Tool{{GoogleSearchRetrieval: &genai.GoogleSearchRetrieval{}}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("Gemini returned no text parts")
	}
	return text, nil
}

func (b *genaiBackend) GenerateImage(ctx context.Context, prompt string) (imageBlob, error) {
	model := b.client.GenerativeModel(b.imageModel)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return imageBlob{}, fmt.Errorf("Gemini API error: %w", err)
	}

	blob, ok := extractBlob(resp)
	if !ok {
		return imageBlob{}, fmt.Errorf("Gemini response contained no image part")
	}
	return blob, nil
}

func (b *genaiBackend) Close() error {
	return b.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// extractBlob returns the first inline image payload in the response.
func extractBlob(resp *genai.GenerateContentResponse) (imageBlob, bool) {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if b, ok := part.(genai.Blob); ok {
				return imageBlob{MIMEType: b.MIMEType, Data: b.Data}, true
			}
		}
	}
	return imageBlob{}, false
}
