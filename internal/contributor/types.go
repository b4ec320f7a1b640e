package contributor

import (
	"context"
	"errors"
)

var (
	ErrInvalidIdentity   = errors.New("invalid user id")
	ErrNoTaskAvailable   = errors.New("no task available")
	ErrNoOpenTask        = errors.New("no open task")
	ErrNoAnswerSelected  = errors.New("no answer selected")
	ErrUnknownChoice     = errors.New("unknown choice key")
	ErrUnknownTopic      = errors.New("unknown topic")
	ErrInvalidComplexity = errors.New("complexity must be between 1 and 4")
	ErrSuperseded        = errors.New("session superseded by a user switch")
)

// Profile is a read-only snapshot of what the backend knows about a
// contributor. It is replaced wholesale on each successful fetch, never
// merged field by field.
type Profile struct {
	Languages        []string `json:"languages"`
	ExpertiseDomains []string `json:"expertise_domains"`
	ComplexityLevel  *int     `json:"complexity_level,omitempty"`
}

type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	Score  int    `json:"score"`
}

type HistoryEntry struct {
	Timestamp  string  `json:"timestamp"`
	Question   string  `json:"question"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type Choice struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Task is immutable once fetched: it is consumed by exactly one submission
// or discarded by fetching a new task / switching users.
type Task struct {
	ID      string
	TrackID string
	Prompt  string
	Choices []Choice
	Image   string
}

// Preferences are the labeling parameters sent with every task fetch.
// Zero values mean "unset" and are omitted from backend calls.
type Preferences struct {
	Language   string
	Topic      string
	Complexity int
}

const (
	MinComplexity = 1
	MaxComplexity = 4
)

// Topics is the fixed set of expertise domains a contributor may opt into.
var Topics = []string{
	"arts",
	"geography",
	"history",
	"literature",
	"science",
	"sports",
	"technology",
}

func IsKnownTopic(topic string) bool {
	for _, known := range Topics {
		if topic == known {
			return true
		}
	}
	return false
}

// AnswerSubmission is the payload for submitting a labeled answer. Question
// carries the literal prompt text captured at fetch time; the backend expects
// it echoed back.
type AnswerSubmission struct {
	TaskID   string
	TrackID  string
	UserID   string
	Solution string
	Question string
}

type SubmitResult struct {
	Confidence float64 `json:"confidence"`
}

// Backend is the labeling service as seen by the session core. The score
// endpoint returns the raw per-user mapping; normalization to a plain integer
// happens in the Synchronizer.
type Backend interface {
	ListUsers(ctx context.Context) ([]string, error)
	Profile(ctx context.Context, userID string) (Profile, error)
	Scores(ctx context.Context, userID string) (map[string]int, error)
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
	History(ctx context.Context, userID string) ([]HistoryEntry, error)
	UpdatePreferences(ctx context.Context, userID string, prefs Preferences) error
	FetchTask(ctx context.Context, userID string, prefs Preferences) (Task, error)
	SubmitAnswer(ctx context.Context, submission AnswerSubmission) (SubmitResult, error)
}

// SnapshotStore persists the last successfully fetched payload of each view
// per user so a failed fetch can still serve a stale value across restarts.
type SnapshotStore interface {
	SaveView(userID, view string, payload []byte) error
	LoadView(userID, view string) ([]byte, bool, error)
}
