package models

// PivotEvent is a historical event offered as a seed for the
// alternate-history simulation.
type PivotEvent struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Year    string `json:"year"`
	Outcome string `json:"outcome"`
}

// SimulationRequest describes the divergence the visitor wants to explore.
type SimulationRequest struct {
	Event   string `json:"event"`
	Outcome string `json:"outcome"`
	Change  string `json:"change"`
}

// SimulationStep is one narrative beat of the alternate timeline.
type SimulationStep struct {
	Period      string `json:"period"`
	Description string `json:"description"`
}

// SimulationResult always contains exactly three steps covering the
// fixed time bands, plus a closing headline. ImageURL is empty when
// concept art could not be generated. Fallback is true when the whole
// narrative is the fixed connection-failure timeline.
type SimulationResult struct {
	Steps    []SimulationStep `json:"steps"`
	Headline string           `json:"headline"`
	ImageURL string           `json:"image_url,omitempty"`
	Fallback bool             `json:"fallback"`
}
