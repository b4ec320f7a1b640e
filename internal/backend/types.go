package backend

import "github.com/Sheyworld98/pln-frontend/internal/contributor"

// Wire shapes for the labeling backend. The task payload nests the prompt
// under "task"; an {error} body on the same endpoint signals exhaustion.

type taskResponse struct {
	ID      string    `json:"id"`
	TrackID string    `json:"track_id"`
	Task    *taskBody `json:"task"`
	Error   string    `json:"error"`
}

type taskBody struct {
	Text    string               `json:"text"`
	Choices []contributor.Choice `json:"choices"`
	Image   string               `json:"image,omitempty"`
}

type preferencesRequest struct {
	Lang       string `json:"lang,omitempty"`
	Topic      string `json:"topic,omitempty"`
	Complexity *int   `json:"complexity,omitempty"`
}

type submitRequest struct {
	UserID   string `json:"user_id"`
	Solution string `json:"solution"`
	TrackID  string `json:"track_id"`
	Question string `json:"question"`
}

type errorResponse struct {
	Error string `json:"error"`
}
