package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"timension-backend/internal/models"
)

// TriviaFallback is the single substitute sentence returned when the
// grounded trivia request yields nothing usable.
const TriviaFallback = "The archives for this destination are temporarily sealed; its secrets will have to wait for your next visit."

const (
	maxTriviaFacts = 3
	minTriviaLen   = 10
)

// VintageMap generates a hand-drawn period map of the location. Absent on
// any failure; the frontend owns the empty state.
func (s *GeminiService) VintageMap(ctx context.Context, location string) (*models.MapImage, bool) {
	prompt := fmt.Sprintf(
		"A hand-drawn vintage cartographic map of %s as it appeared centuries ago. Aged parchment, ink flourishes, sea monsters in the margins, ornate compass rose.",
		location,
	)

	img, ok := s.GenerateImage(ctx, prompt, "4:3")
	if !ok {
		return nil, false
	}
	return &models.MapImage{Location: location, ImageURL: img}, true
}

// LocationTrivia fetches surprising historical facts about the location.
// Grounded requests cannot carry a response schema, so the free-text reply
// is cleaned up by parseTriviaFacts.
func (s *GeminiService) LocationTrivia(ctx context.Context, location string) models.TriviaResult {
	prompt := fmt.Sprintf(
		"List 3 surprising, lesser-known historical facts about %s. One fact per line, full sentences, no preamble.",
		location,
	)

	raw, ok := s.generateGrounded(ctx, prompt)
	if ok {
		if facts := parseTriviaFacts(raw); len(facts) > 0 {
			return models.TriviaResult{Location: location, Facts: facts}
		}
	}

	return models.TriviaResult{
		Location: location,
		Facts:    []string{TriviaFallback},
		Fallback: true,
	}
}

// parseTriviaFacts turns a free-text model reply into at most three clean
// fact lines: enumeration markers stripped, short noise lines dropped.
func parseTriviaFacts(raw string) []string {
	facts := make([]string, 0, maxTriviaFacts)

	for _, line := range strings.Split(raw, "\n") {
		line = stripEnumerationMarker(strings.TrimSpace(line))
		if len(line) <= minTriviaLen {
			continue
		}
		facts = append(facts, line)
		if len(facts) == maxTriviaFacts {
			break
		}
	}

	return facts
}

// stripEnumerationMarker removes leading "1. ", "2) ", "- " or bullet
// decoration the model tends to add despite instructions.
func stripEnumerationMarker(line string) string {
	trimmed := strings.TrimLeft(line, "-*• \t")

	i := 0
	for i < len(trimmed) && unicode.IsDigit(rune(trimmed[i])) {
		i++
	}
	if i > 0 && i < len(trimmed) && (trimmed[i] == '.' || trimmed[i] == ')') {
		trimmed = trimmed[i+1:]
	}

	return strings.TrimSpace(trimmed)
}

// HistoricalPhotos issues two independent image requests concurrently and
// returns whichever succeeded. Both failing yields an empty set, never an
// absent result; the caller tells "loading" from "empty" by its own flag.
func (s *GeminiService) HistoricalPhotos(ctx context.Context, location string) models.PhotoSet {
	prompts := []string{
		fmt.Sprintf("A black-and-white street photograph of %s in the early 1900s, bustling with period life. Grainy, authentic, archival quality.", location),
		fmt.Sprintf("A faded color photograph of a famous landmark in %s taken in the 1960s. Kodachrome tones, slightly worn edges.", location),
	}

	results := make([]string, len(prompts))

	g, gctx := errgroup.WithContext(ctx)
	for i, prompt := range prompts {
		g.Go(func() error {
			if img, ok := s.GenerateImage(gctx, prompt, "3:4"); ok {
				results[i] = img
			}
			// Individual failures are independent; never cancel the sibling.
			return nil
		})
	}
	g.Wait()

	images := make([]string, 0, len(results))
	for _, img := range results {
		if img != "" {
			images = append(images, img)
		}
	}

	return models.PhotoSet{Location: location, Images: images}
}
