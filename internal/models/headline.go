package models

// DailyHeadline is the front page of the Timension Gazette.
// Fallback is true when the companion image could not be generated and
// the fixed default reference was substituted.
type DailyHeadline struct {
	Headline string `json:"headline"`
	Date     string `json:"date"`
	Content  string `json:"content"`
	Weather  string `json:"weather"`
	ImageURL string `json:"image_url"`
	Fallback bool   `json:"fallback"`
}
