package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Sheyworld98/pln-frontend/internal/labeling"
)

func (a *API) HandleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, a.store.Users())
}

func (a *API) HandleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.store.Profile(userID))
}

func (a *API) HandleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.store.Scores(userID))
}

func (a *API) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, a.store.Leaderboard())
}

func (a *API) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.store.History(userID))
}

func (a *API) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	defer r.Body.Close()
	var request preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	// Some dashboard builds send the domain as "expertise" instead of
	// "topic"; accept either.
	topic := strings.TrimSpace(request.Topic)
	if topic == "" {
		topic = strings.TrimSpace(request.Expertise)
	}

	profile := a.store.UpdateProfile(userID, strings.TrimSpace(request.Lang), topic, request.Complexity)
	writeJSON(w, http.StatusOK, preferencesResponse{Status: "ok", Profile: profile})
}

func (a *API) HandleFetchTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	lang := strings.TrimSpace(r.URL.Query().Get("lang"))
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	complexity, err := parseComplexityParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	task, found := a.store.NextTask(userID, lang, topic, complexity)
	if !found {
		// Exhaustion is part of the contract, not an HTTP failure: clients
		// treat an {error} payload on 200 as "no task available".
		writeJSON(w, http.StatusOK, errorResponse{Error: "no tasks available for the requested filters"})
		return
	}

	writeJSON(w, http.StatusOK, taskResponse{
		ID:      task.ID,
		TrackID: task.TrackID,
		Task: taskBody{
			Text:    task.Text,
			Choices: task.Choices,
			Image:   task.Image,
		},
	})
}

func (a *API) HandleSubmitTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	taskID := strings.TrimSpace(r.PathValue("task_id"))
	if taskID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "task_id is required"})
		return
	}

	defer r.Body.Close()
	var request submitRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	userID := strings.TrimSpace(request.UserID)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return
	}
	if strings.TrimSpace(request.Solution) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "solution is required"})
		return
	}

	// X-Timestamp is required by the contract but its value is not
	// load-bearing here.
	confidence, err := a.store.Submit(taskID, userID, request.Solution, request.Question)
	if err != nil {
		if errors.Is(err, labeling.ErrUnknownTask) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "task not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{Confidence: confidence})
}
