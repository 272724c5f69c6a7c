package models

// ChatMessage is a single turn in a mentor conversation.
// History is ordered, append-only, and discarded when the visitor
// switches mentors.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "mentor"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the mentor chat endpoint.
type ChatRequest struct {
	Persona string        `json:"persona"`
	Era     string        `json:"era"`
	History []ChatMessage `json:"history"`
	Message string        `json:"message"`
}

// MentorReply carries the mentor's answer. Fallback is true when the
// text is one of the fixed substitute replies rather than a generation.
type MentorReply struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback"`
}
