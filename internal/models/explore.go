package models

// MapImage wraps a generated vintage map for a location.
type MapImage struct {
	Location string `json:"location"`
	ImageURL string `json:"image_url"`
}

// TriviaResult holds up to three historical facts for a location.
// Fallback is true when the fixed substitute sentence is returned.
type TriviaResult struct {
	Location string   `json:"location"`
	Facts    []string `json:"facts"`
	Fallback bool     `json:"fallback"`
}

// PhotoSet holds whichever of the concurrently requested period photos
// succeeded. There is no substitute image: when nothing could be
// generated the set is empty and the frontend's own loading flag tells
// "still loading" from "no results".
type PhotoSet struct {
	Location string   `json:"location"`
	Images   []string `json:"images"`
}
