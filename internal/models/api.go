package models

// APIError is the error payload inside every non-2xx response.
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// WSMessage is the envelope pushed to connected clients over the status stream.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// StatusUpdate reports progress of a long-running generation.
type StatusUpdate struct {
	Operation string `json:"operation"`
	Step      int    `json:"step"`
	StepName  string `json:"step_name"`
}
