package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend scripts the generative service for tests.
type fakeBackend struct {
	mu         sync.Mutex
	textCalls  int
	imageCalls int
	textFn     func(req textRequest) (string, error)
	imageFn    func(prompt string) (imageBlob, error)
}

func (f *fakeBackend) GenerateText(ctx context.Context, req textRequest) (string, error) {
	f.mu.Lock()
	f.textCalls++
	f.mu.Unlock()
	if f.textFn == nil {
		return "", errors.New("unscripted text call")
	}
	return f.textFn(req)
}

func (f *fakeBackend) GenerateImage(ctx context.Context, prompt string) (imageBlob, error) {
	f.mu.Lock()
	f.imageCalls++
	f.mu.Unlock()
	if f.imageFn == nil {
		return imageBlob{}, errors.New("unscripted image call")
	}
	return f.imageFn(prompt)
}

func (f *fakeBackend) Close() error { return nil }

func (f *fakeBackend) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.textCalls, f.imageCalls
}

// newTestService wires a GeminiService to a scripted backend and counts
// how often the service dialed out.
func newTestService(envKey string, backend *fakeBackend) (*GeminiService, *int) {
	svc := NewGeminiService(NewCredentialStore(envKey), nil, zerolog.Nop(), "text-model", "image-model", 2)
	dials := new(int)
	svc.dial = func(ctx context.Context, apiKey string) (generativeBackend, error) {
		*dials++
		return backend, nil
	}
	return svc, dials
}

func TestAdapterWithoutCredentialNeverDials(t *testing.T) {
	backend := &fakeBackend{}
	svc, dials := newTestService("", backend)
	ctx := context.Background()

	assert.False(t, svc.TestConnectivity(ctx))

	_, ok := svc.GenerateStructured(ctx, "prompt", nil)
	assert.False(t, ok)

	_, ok = svc.GenerateImage(ctx, "prompt", "16:9")
	assert.False(t, ok)

	_, ok = svc.generateGrounded(ctx, "prompt")
	assert.False(t, ok)

	assert.Equal(t, 0, *dials, "no credential must mean no dial")
	texts, images := backend.calls()
	assert.Zero(t, texts)
	assert.Zero(t, images)
}

func TestTestConnectivity(t *testing.T) {
	t.Run("service reachable", func(t *testing.T) {
		backend := &fakeBackend{textFn: func(req textRequest) (string, error) { return "pong", nil }}
		svc, _ := newTestService("env-key", backend)
		assert.True(t, svc.TestConnectivity(context.Background()))
	})

	t.Run("auth or quota failure collapses to false", func(t *testing.T) {
		backend := &fakeBackend{textFn: func(req textRequest) (string, error) { return "", errors.New("403") }}
		svc, _ := newTestService("env-key", backend)
		assert.False(t, svc.TestConnectivity(context.Background()))
	})
}

func TestGenerateStructured(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantOK   bool
		want     string
	}{
		{"clean JSON", `{"a":1}`, true, `{"a":1}`},
		{"fenced JSON", "```json\n{\"a\":1}\n```", true, `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", true, `{"a":1}`},
		{"prose instead of JSON", "Here is your object!", false, ""},
		{"truncated JSON", `{"a":`, false, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			backend := &fakeBackend{textFn: func(req textRequest) (string, error) { return tc.response, nil }}
			svc, _ := newTestService("env-key", backend)

			payload, ok := svc.GenerateStructured(context.Background(), "prompt", nil)
			require.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.JSONEq(t, tc.want, string(payload))
			}
		})
	}

	t.Run("transport failure is absent", func(t *testing.T) {
		backend := &fakeBackend{textFn: func(req textRequest) (string, error) { return "", errors.New("boom") }}
		svc, _ := newTestService("env-key", backend)
		_, ok := svc.GenerateStructured(context.Background(), "prompt", nil)
		assert.False(t, ok)
	})
}

func TestGenerateImage(t *testing.T) {
	t.Run("returns data URI with media type", func(t *testing.T) {
		backend := &fakeBackend{imageFn: func(prompt string) (imageBlob, error) {
			return imageBlob{MIMEType: "image/jpeg", Data: []byte{0xFF, 0xD8}}, nil
		}}
		svc, _ := newTestService("env-key", backend)

		uri, ok := svc.GenerateImage(context.Background(), "a map", "4:3")
		require.True(t, ok)
		assert.True(t, len(uri) > len("data:image/jpeg;base64,"))
		assert.Contains(t, uri, "data:image/jpeg;base64,")
	})

	t.Run("aspect ratio reaches the prompt", func(t *testing.T) {
		var seen string
		backend := &fakeBackend{imageFn: func(prompt string) (imageBlob, error) {
			seen = prompt
			return imageBlob{MIMEType: "image/png", Data: []byte{1}}, nil
		}}
		svc, _ := newTestService("env-key", backend)

		_, ok := svc.GenerateImage(context.Background(), "a map", "16:9")
		require.True(t, ok)
		assert.Contains(t, seen, "16:9")
	})

	t.Run("no image part is absent", func(t *testing.T) {
		backend := &fakeBackend{imageFn: func(prompt string) (imageBlob, error) {
			return imageBlob{}, errors.New("response contained no image part")
		}}
		svc, _ := newTestService("env-key", backend)

		_, ok := svc.GenerateImage(context.Background(), "a map", "")
		assert.False(t, ok)
	})
}

func TestConnReusesBackendUntilCredentialChanges(t *testing.T) {
	backend := &fakeBackend{textFn: func(req textRequest) (string, error) { return "ok", nil }}
	svc, dials := newTestService("", backend)
	ctx := context.Background()

	svc.Credentials().Set("first-key")
	svc.generateText(ctx, "one")
	svc.generateText(ctx, "two")
	assert.Equal(t, 1, *dials)

	svc.Credentials().Set("second-key")
	svc.generateText(ctx, "three")
	assert.Equal(t, 2, *dials, "credential change must rebuild the connection")
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"x":true}`, stripCodeFence("```json\n{\"x\":true}\n```"))
	assert.Equal(t, `{"x":true}`, stripCodeFence(`{"x":true}`))
	assert.Equal(t, "plain", stripCodeFence("  plain  "))
}
