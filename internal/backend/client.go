package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sheyworld98/pln-frontend/internal/contributor"
)

var ErrBackendUnavailable = errors.New("labeling backend unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Client is the typed HTTP client for the labeling backend. It implements
// contributor.Backend; payloads are validated at this boundary so malformed
// responses surface as errors instead of propagating partial data.
type Client struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		now:        time.Now,
	}
}

func (c *Client) ListUsers(ctx context.Context) ([]string, error) {
	var users []string
	if err := c.doJSON(ctx, http.MethodGet, "/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) Profile(ctx context.Context, userID string) (contributor.Profile, error) {
	var profile contributor.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/profile/"+url.PathEscape(userID), nil, nil, &profile); err != nil {
		return contributor.Profile{}, err
	}
	return profile, nil
}

func (c *Client) Scores(ctx context.Context, userID string) (map[string]int, error) {
	var scores map[string]int
	if err := c.doJSON(ctx, http.MethodGet, "/score/"+url.PathEscape(userID), nil, nil, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func (c *Client) Leaderboard(ctx context.Context) ([]contributor.LeaderboardEntry, error) {
	var entries []contributor.LeaderboardEntry
	if err := c.doJSON(ctx, http.MethodGet, "/leaderboard", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) History(ctx context.Context, userID string) ([]contributor.HistoryEntry, error) {
	var entries []contributor.HistoryEntry
	if err := c.doJSON(ctx, http.MethodGet, "/history/"+url.PathEscape(userID), nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) UpdatePreferences(ctx context.Context, userID string, prefs contributor.Preferences) error {
	request := preferencesRequest{
		Lang:  prefs.Language,
		Topic: prefs.Topic,
	}
	if prefs.Complexity != 0 {
		request.Complexity = &prefs.Complexity
	}
	path := "/profile/update/" + url.PathEscape(userID)
	return c.doJSON(ctx, http.MethodPost, path, request, nil, nil)
}

// FetchTask requests a new task. All preference parameters are optional
// query params; the backend signals pool exhaustion with an {error} payload,
// reported as contributor.ErrNoTaskAvailable.
func (c *Client) FetchTask(ctx context.Context, userID string, prefs contributor.Preferences) (contributor.Task, error) {
	query := url.Values{}
	if prefs.Language != "" {
		query.Set("lang", prefs.Language)
	}
	if prefs.Topic != "" {
		query.Set("topic", prefs.Topic)
	}
	if prefs.Complexity != 0 {
		query.Set("complexity", strconv.Itoa(prefs.Complexity))
	}

	path := "/task/fetch/" + url.PathEscape(userID)
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var payload taskResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &payload); err != nil {
		return contributor.Task{}, err
	}

	if payload.Error != "" || payload.Task == nil {
		if payload.Error != "" {
			return contributor.Task{}, fmt.Errorf("%w: %s", contributor.ErrNoTaskAvailable, payload.Error)
		}
		return contributor.Task{}, contributor.ErrNoTaskAvailable
	}

	task := contributor.Task{
		ID:      payload.ID,
		TrackID: payload.TrackID,
		Prompt:  payload.Task.Text,
		Choices: payload.Task.Choices,
		Image:   payload.Task.Image,
	}
	if err := validateTask(task); err != nil {
		return contributor.Task{}, err
	}
	return task, nil
}

// SubmitAnswer posts the submission, echoing the fetch-time question text
// and stamping the request with an ISO-8601 X-Timestamp header.
func (c *Client) SubmitAnswer(ctx context.Context, submission contributor.AnswerSubmission) (contributor.SubmitResult, error) {
	if strings.TrimSpace(submission.TaskID) == "" {
		return contributor.SubmitResult{}, errors.New("task id is required")
	}

	request := submitRequest{
		UserID:   submission.UserID,
		Solution: submission.Solution,
		TrackID:  submission.TrackID,
		Question: submission.Question,
	}
	headers := http.Header{}
	headers.Set("X-Timestamp", c.now().UTC().Format(time.RFC3339))

	var result contributor.SubmitResult
	path := "/task/submit/" + url.PathEscape(submission.TaskID)
	if err := c.doJSON(ctx, http.MethodPost, path, request, headers, &result); err != nil {
		return contributor.SubmitResult{}, err
	}
	return result, nil
}

func validateTask(task contributor.Task) error {
	if strings.TrimSpace(task.ID) == "" {
		return errors.New("malformed task payload: missing id")
	}
	if strings.TrimSpace(task.Prompt) == "" {
		return errors.New("malformed task payload: missing prompt text")
	}
	seen := make(map[string]bool, len(task.Choices))
	for _, choice := range task.Choices {
		if choice.Key == "" {
			return errors.New("malformed task payload: choice with empty key")
		}
		if seen[choice.Key] {
			return fmt.Errorf("malformed task payload: duplicate choice key %q", choice.Key)
		}
		seen[choice.Key] = true
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, requestBody any, headers http.Header, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	for key, values := range headers {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("X-Request-ID", uuid.NewString())

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
