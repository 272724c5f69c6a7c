package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"

	"timension-backend/internal/models"
)

// The three fixed time bands every simulation narrative must cover, in order.
var SimulationPeriods = [3]string{"Immediate Aftermath", "50 Years Later", "Modern Day"}

// FallbackSimulationHeadline closes the fixed narrative returned when the
// generative service cannot be reached.
const FallbackSimulationHeadline = "TEMPORAL LINK SEVERED: TIMENSION LOSES CONTACT WITH ALTERNATE TIMELINE"

var simulationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"steps": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"period":      {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
				},
				Required: []string{"period", "description"},
			},
		},
		"headline": {Type: genai.TypeString, Description: "Newspaper headline from the alternate present day"},
	},
	Required: []string{"steps", "headline"},
}

// Simulate generates an alternate-history narrative from the visitor's
// pivot point. Total failure returns the fixed connection-failure timeline;
// a failed concept-art image is silently omitted.
func (s *GeminiService) Simulate(ctx context.Context, req models.SimulationRequest) models.SimulationResult {
	s.PublishUpdate(ctx, models.WSMessage{
		Type:    "status_update",
		Payload: models.StatusUpdate{Operation: "simulation", Step: 1, StepName: "Recalculating Timeline"},
	})

	prompt := buildSimulationPrompt(req)

	payload, ok := s.GenerateStructured(ctx, prompt, simulationSchema)
	if !ok {
		return fallbackSimulation()
	}

	var result models.SimulationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		s.log.Warn().Err(err).Msg("simulation payload did not match schema")
		return fallbackSimulation()
	}
	if len(result.Steps) != len(SimulationPeriods) || result.Headline == "" {
		s.log.Warn().Int("steps", len(result.Steps)).Msg("simulation payload incomplete")
		return fallbackSimulation()
	}

	// The model occasionally invents its own band labels; pin them.
	for i := range result.Steps {
		result.Steps[i].Period = SimulationPeriods[i]
	}

	s.PublishUpdate(ctx, models.WSMessage{
		Type:    "status_update",
		Payload: models.StatusUpdate{Operation: "simulation", Step: 2, StepName: "Rendering Concept Art"},
	})

	imagePrompt := fmt.Sprintf(
		"Dramatic concept art for an alternate-history newspaper front page. Headline: %q. Scene: %s. Painterly, cinematic lighting.",
		result.Headline, result.Steps[2].Description,
	)
	if img, ok := s.GenerateImage(ctx, imagePrompt, "16:9"); ok {
		result.ImageURL = img
	}

	s.PublishUpdate(ctx, models.WSMessage{
		Type:    "status_update",
		Payload: models.StatusUpdate{Operation: "simulation", Step: 3, StepName: "Complete"},
	})

	return result
}

func buildSimulationPrompt(req models.SimulationRequest) string {
	return fmt.Sprintf(`You are the Timension's alternate-history engine.

Historical event: %s
What really happened: %s
The visitor's change: %s

Simulate the timeline that follows from the change. Return a JSON object with:
- "steps": exactly 3 entries, in order, with "period" values %q, %q and %q, each "description" a vivid paragraph of that era in the altered world
- "headline": a newspaper headline from the alternate modern day

Stay plausible: follow consequences through politics, technology and culture rather than inventing magic.`,
		req.Event, req.Outcome, req.Change,
		SimulationPeriods[0], SimulationPeriods[1], SimulationPeriods[2])
}

// fallbackSimulation is the fixed narrative whose content doubles as the
// diagnostic: every step tells the visitor the connection failed.
func fallbackSimulation() models.SimulationResult {
	return models.SimulationResult{
		Steps: []models.SimulationStep{
			{Period: SimulationPeriods[0], Description: "The Timension's connection to the alternate timeline failed moments after the divergence. Chroniclers on the other side could not transmit their reports."},
			{Period: SimulationPeriods[1], Description: "Fifty years of the altered world remain unrecorded. The temporal link must be restored before this era can be observed."},
			{Period: SimulationPeriods[2], Description: "The modern day of this timeline is unreachable. Check the connection to the generative service and run the simulation again."},
		},
		Headline: FallbackSimulationHeadline,
		Fallback: true,
	}
}

// PivotEvents is the fixed catalog of seed events offered to the visitor.
func PivotEvents() []models.PivotEvent {
	return []models.PivotEvent{
		{ID: "library-alexandria", Title: "Burning of the Library of Alexandria", Year: "48 BC", Outcome: "Centuries of accumulated knowledge were lost to fire."},
		{ID: "spanish-armada", Title: "Defeat of the Spanish Armada", Year: "1588", Outcome: "England repelled the invasion and rose as a naval power."},
		{ID: "moon-landing", Title: "Apollo 11 Moon Landing", Year: "1969", Outcome: "Humans walked on the Moon and returned safely."},
		{ID: "printing-press", Title: "Gutenberg's Printing Press", Year: "1440", Outcome: "Movable type spread literacy and ideas across Europe."},
		{ID: "archduke-assassination", Title: "Assassination of Archduke Franz Ferdinand", Year: "1914", Outcome: "The murder in Sarajevo ignited the First World War."},
		{ID: "fall-constantinople", Title: "Fall of Constantinople", Year: "1453", Outcome: "The Byzantine Empire ended and trade routes shifted west."},
	}
}
