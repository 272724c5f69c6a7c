package services

import (
	"context"
	"fmt"
	"strings"

	"timension-backend/internal/models"
)

// The two fixed mentor replies are part of the observable contract: the
// frontend matches on them, so their wording must not drift.
const (
	// MentorNoKeyReply is returned when no credential is resolved.
	MentorNoKeyReply = "Alas, the connection to my era has not been established. Provide the Timension key and we may speak across the centuries."

	// MentorUnreachableReply is returned when the request itself fails.
	MentorUnreachableReply = "Forgive me, traveler - the temporal winds scattered your words before they reached me. Speak once more."
)

// MentorReply produces the next dialogue turn for an AI-impersonated
// historical figure. It never fails: every failure mode maps to one of the
// fixed reply strings with Fallback set.
func (s *GeminiService) MentorReply(ctx context.Context, persona, era string, history []models.ChatMessage, message string) models.MentorReply {
	if _, ok := s.creds.Resolve(); !ok {
		return models.MentorReply{Reply: MentorNoKeyReply, Fallback: true}
	}

	prompt := buildMentorPrompt(persona, era, history, message)

	reply, ok := s.generateText(ctx, prompt)
	if !ok {
		return models.MentorReply{Reply: MentorUnreachableReply, Fallback: true}
	}

	return models.MentorReply{Reply: strings.TrimSpace(reply)}
}

func buildMentorPrompt(persona, era string, history []models.ChatMessage, message string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("You are %s, speaking from %s. A visitor has reached you through the Timension, a device that lets the present converse with the past.\n\n", persona, era))

	if len(history) > 0 {
		b.WriteString("---CONVERSATION SO FAR---\n")
		for _, turn := range history {
			speaker := persona
			if turn.Role == "user" {
				speaker = "Visitor"
			}
			b.WriteString(fmt.Sprintf("%s: %s\n", speaker, turn.Content))
		}
		b.WriteString("---END---\n\n")
	}

	b.WriteString(fmt.Sprintf("Visitor: %s\n\n", message))

	b.WriteString("Rules:\n")
	b.WriteString(fmt.Sprintf("- Stay entirely in character as %s; never break the illusion or mention being an AI.\n", persona))
	b.WriteString("- Speak with the vocabulary and worldview of your era.\n")
	b.WriteString("- Keep the reply under 120 words.\n")
	b.WriteString("- Reply with the message text only, no speaker tag.\n")

	return b.String()
}
