package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"

	"timension-backend/internal/models"
)

// DefaultHeadlineImage is substituted when the companion image for the
// daily headline cannot be generated.
const DefaultHeadlineImage = "/images/gazette-front-page.jpg"

const headlineCacheTTL = 24 * time.Hour

var headlineSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"headline": {Type: genai.TypeString, Description: "Sensational front-page headline"},
		"date":     {Type: genai.TypeString, Description: "A date from a random historical era, written in period style"},
		"content":  {Type: genai.TypeString, Description: "Two-paragraph article body"},
		"weather":  {Type: genai.TypeString, Description: "One-line period weather report"},
	},
	Required: []string{"headline", "date", "content", "weather"},
}

const headlinePrompt = `You are the editor of the Timension Gazette, a newspaper published across all of history at once.
Write today's front page: pick one dramatic moment from any era and report it as breaking news, in the voice of a newspaper of that era.
Return a JSON object with fields: headline, date, content, weather.`

// DailyHeadline returns the Gazette front page for the current day,
// serving the cached edition when one exists. Absent only when the text
// generation itself fails; a failed companion image falls back to the
// fixed default reference.
func (s *GeminiService) DailyHeadline(ctx context.Context) (*models.DailyHeadline, bool) {
	key := headlineCacheKey(time.Now().UTC())

	if cached, ok := s.cachedHeadline(ctx, key); ok {
		return cached, true
	}

	payload, ok := s.GenerateStructured(ctx, headlinePrompt, headlineSchema)
	if !ok {
		return nil, false
	}

	var headline models.DailyHeadline
	if err := json.Unmarshal(payload, &headline); err != nil || headline.Headline == "" {
		s.log.Warn().Err(err).Msg("daily headline payload did not match schema")
		return nil, false
	}

	imagePrompt := fmt.Sprintf(
		"A dramatic vintage newspaper photograph illustrating the headline %q. Sepia tones, period-appropriate, no text.",
		headline.Headline,
	)
	if img, ok := s.GenerateImage(ctx, imagePrompt, "16:9"); ok {
		headline.ImageURL = img
	} else {
		headline.ImageURL = DefaultHeadlineImage
		headline.Fallback = true
	}

	s.storeHeadline(ctx, key, &headline)
	return &headline, true
}

func headlineCacheKey(day time.Time) string {
	return "daily_headline:" + day.Format("2006-01-02")
}

func (s *GeminiService) cachedHeadline(ctx context.Context, key string) (*models.DailyHeadline, bool) {
	if s.redis == nil {
		return nil, false
	}
	data, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var headline models.DailyHeadline
	if err := json.Unmarshal([]byte(data), &headline); err != nil {
		return nil, false
	}
	return &headline, true
}

func (s *GeminiService) storeHeadline(ctx context.Context, key string, headline *models.DailyHeadline) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(headline)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, headlineCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("failed to cache daily headline")
	}
}
