package contributor

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

// Session holds the active user identity and labeling preferences, and is
// the single mutation entry point for the dashboard: SetUser, SetPreferences,
// FetchTask, SelectAnswer, SubmitAnswer. Identity and preferences are owned
// here; views and the open task are owned by the synchronizer and the task
// controller respectively.
type Session struct {
	gen   *atomic.Uint64
	views *Synchronizer
	tasks *TaskController

	mu     sync.Mutex
	userID string
	prefs  Preferences
}

func NewSession(backend Backend, store SnapshotStore, logger *slog.Logger) *Session {
	gen := &atomic.Uint64{}
	views := NewSynchronizer(backend, store, gen, logger)
	return &Session{
		gen:   gen,
		views: views,
		tasks: NewTaskController(backend, views, gen, logger),
	}
}

// SetUser activates the given identity. Blank input fails with
// ErrInvalidIdentity and leaves the session untouched. Otherwise the
// generation is bumped so responses still in flight for the previous
// identity are discarded, the open task is invalidated, and the four views
// are refreshed for the new user.
func (s *Session) SetUser(ctx context.Context, candidate string) (Views, error) {
	userID := strings.TrimSpace(candidate)
	if userID == "" {
		return Views{}, ErrInvalidIdentity
	}

	// Identity swap, generation bump and task invalidation happen under one
	// lock so concurrent switches cannot interleave their mutation phases.
	s.mu.Lock()
	s.userID = userID
	s.gen.Add(1)
	s.tasks.Invalidate()
	s.views.SetUser(userID)
	s.mu.Unlock()

	return s.views.Refresh(ctx), nil
}

// PreferenceUpdate is a partial preference change; nil fields are left as
// they are. Setting Topic to "" or Complexity to 0 clears that preference.
type PreferenceUpdate struct {
	Language   *string
	Topic      *string
	Complexity *int
}

// SetPreferences merges the update into the session preferences. It does not
// fetch a task; it only changes the parameters the next fetch will use.
func (s *Session) SetPreferences(update PreferenceUpdate) (Preferences, error) {
	if update.Topic != nil {
		topic := strings.TrimSpace(*update.Topic)
		if topic != "" && !IsKnownTopic(topic) {
			return s.Preferences(), ErrUnknownTopic
		}
	}
	if update.Complexity != nil {
		complexity := *update.Complexity
		if complexity != 0 && (complexity < MinComplexity || complexity > MaxComplexity) {
			return s.Preferences(), ErrInvalidComplexity
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if update.Language != nil {
		s.prefs.Language = strings.TrimSpace(*update.Language)
	}
	if update.Topic != nil {
		s.prefs.Topic = strings.TrimSpace(*update.Topic)
	}
	if update.Complexity != nil {
		s.prefs.Complexity = *update.Complexity
	}
	return s.prefs, nil
}

// Refresh re-issues all four view fetches for the active user.
func (s *Session) Refresh(ctx context.Context) (Views, error) {
	if s.UserID() == "" {
		return Views{}, ErrInvalidIdentity
	}
	return s.views.Refresh(ctx), nil
}

// Views returns the current view snapshot without fetching.
func (s *Session) Views() Views {
	return s.views.Current()
}

// FetchTask acquires a new task using the current identity and preferences.
func (s *Session) FetchTask(ctx context.Context) (FetchOutcome, error) {
	s.mu.Lock()
	userID := s.userID
	prefs := s.prefs
	s.mu.Unlock()

	if userID == "" {
		return FetchOutcome{}, ErrInvalidIdentity
	}
	return s.tasks.Fetch(ctx, userID, prefs)
}

func (s *Session) SelectAnswer(key string) error {
	return s.tasks.SelectAnswer(key)
}

func (s *Session) SubmitAnswer(ctx context.Context) (SubmitResult, error) {
	return s.tasks.Submit(ctx)
}

func (s *Session) Task() TaskSnapshot {
	return s.tasks.Snapshot()
}

func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Session) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}
