package httpapi

import "github.com/Sheyworld98/pln-frontend/internal/contributor"

type taskResponse struct {
	ID      string   `json:"id"`
	TrackID string   `json:"track_id"`
	Task    taskBody `json:"task"`
}

type taskBody struct {
	Text    string               `json:"text"`
	Choices []contributor.Choice `json:"choices"`
	Image   string               `json:"image,omitempty"`
}

type preferencesRequest struct {
	Lang       string `json:"lang"`
	Topic      string `json:"topic"`
	Expertise  string `json:"expertise"`
	Complexity *int   `json:"complexity"`
}

type preferencesResponse struct {
	Status  string              `json:"status"`
	Profile contributor.Profile `json:"profile"`
}

type submitRequest struct {
	UserID   string `json:"user_id"`
	Solution string `json:"solution"`
	TrackID  string `json:"track_id"`
	Question string `json:"question"`
}

type submitResponse struct {
	Confidence float64 `json:"confidence"`
}

type errorResponse struct {
	Error string `json:"error"`
}
