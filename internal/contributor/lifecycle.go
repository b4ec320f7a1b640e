package contributor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

type TaskState int

const (
	StateIdle TaskState = iota
	StateFetching
	StateReady
	StateNoTask
	StateFetchError
	StateSubmitting
	StateSubmitError
)

func (s TaskState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateReady:
		return "ready"
	case StateNoTask:
		return "no_task_available"
	case StateFetchError:
		return "fetch_error"
	case StateSubmitting:
		return "submitting"
	case StateSubmitError:
		return "submit_error"
	default:
		return "unknown"
	}
}

// FetchOutcome reports what a fetch attempt did. PreferenceSyncWarning is
// non-fatal: the preference push is best effort and its failure never masks
// the task fetch result.
type FetchOutcome struct {
	State                 TaskState
	Task                  Task
	PreferenceSyncWarning error
}

// TaskSnapshot is a read-only copy of the controller state for rendering.
type TaskSnapshot struct {
	State  TaskState
	Task   Task
	Answer string
	Err    error
}

// TaskController drives a task through fetch, answer, submit and the
// post-submit resync. The current task is owned exclusively by the
// controller; a user switch discards it and any in-flight completion for
// the previous identity via the shared generation counter.
type TaskController struct {
	backend Backend
	views   *Synchronizer
	gen     *atomic.Uint64
	logger  *slog.Logger

	mu      sync.Mutex
	state   TaskState
	userID  string
	task    Task
	answer  string
	lastErr error
}

func NewTaskController(backend Backend, views *Synchronizer, gen *atomic.Uint64, logger *slog.Logger) *TaskController {
	if gen == nil {
		gen = &atomic.Uint64{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskController{
		backend: backend,
		views:   views,
		gen:     gen,
		logger:  logger,
	}
}

// Fetch acquires a new task for userID using the given preferences. The
// preference push and the task fetch are issued as two independent calls:
// a failed push surfaces as a warning while the fetch result still decides
// the resulting state. Any previously open task is discarded.
func (c *TaskController) Fetch(ctx context.Context, userID string, prefs Preferences) (FetchOutcome, error) {
	if userID == "" {
		return FetchOutcome{State: c.State()}, ErrInvalidIdentity
	}

	gen := c.gen.Load()

	c.mu.Lock()
	if c.state == StateSubmitting {
		state := c.state
		c.mu.Unlock()
		return FetchOutcome{State: state}, errors.New("submission in progress")
	}
	c.state = StateFetching
	c.userID = userID
	c.task = Task{}
	c.answer = ""
	c.lastErr = nil
	c.mu.Unlock()

	warnings := make(chan error, 1)
	go func() {
		warnings <- c.backend.UpdatePreferences(ctx, userID, prefs)
	}()

	task, fetchErr := c.backend.FetchTask(ctx, userID, prefs)

	var outcome FetchOutcome
	if warnErr := <-warnings; warnErr != nil {
		c.logger.Warn("preference sync failed", "user", userID, "err", warnErr)
		outcome.PreferenceSyncWarning = warnErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen.Load() {
		c.logger.Debug("discarding task fetched for superseded session", "user", userID)
		outcome.State = c.state
		return outcome, ErrSuperseded
	}

	switch {
	case errors.Is(fetchErr, ErrNoTaskAvailable):
		c.state = StateNoTask
	case fetchErr != nil:
		c.state = StateFetchError
		c.lastErr = fetchErr
		outcome.State = c.state
		return outcome, fetchErr
	default:
		c.state = StateReady
		c.task = task
	}

	outcome.State = c.state
	outcome.Task = c.task
	return outcome, nil
}

// SelectAnswer records the chosen choice key. Legal only with an open task;
// it does not transition state.
func (c *TaskController) SelectAnswer(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return ErrNoOpenTask
	}
	for _, choice := range c.task.Choices {
		if choice.Key == key {
			c.answer = key
			return nil
		}
	}
	return ErrUnknownChoice
}

// Submit sends the selected answer for the open task. On success the task is
// cleared, the state returns to Idle and the views are refreshed so score and
// history reflect the submission. On failure the task and answer are retained
// so the caller can retry without re-fetching.
func (c *TaskController) Submit(ctx context.Context) (SubmitResult, error) {
	gen := c.gen.Load()

	c.mu.Lock()
	if c.state != StateReady && c.state != StateSubmitError {
		c.mu.Unlock()
		return SubmitResult{}, ErrNoOpenTask
	}
	if c.answer == "" {
		c.mu.Unlock()
		return SubmitResult{}, ErrNoAnswerSelected
	}
	submission := AnswerSubmission{
		TaskID:   c.task.ID,
		TrackID:  c.task.TrackID,
		UserID:   c.userID,
		Solution: c.answer,
		Question: c.task.Prompt,
	}
	c.state = StateSubmitting
	c.mu.Unlock()

	result, err := c.backend.SubmitAnswer(ctx, submission)

	c.mu.Lock()
	if gen != c.gen.Load() {
		// Invalidate already reset the controller for the new identity.
		c.mu.Unlock()
		return SubmitResult{}, ErrSuperseded
	}
	if err != nil {
		c.state = StateSubmitError
		c.lastErr = err
		c.mu.Unlock()
		return SubmitResult{}, err
	}
	c.state = StateIdle
	c.task = Task{}
	c.answer = ""
	c.lastErr = nil
	c.mu.Unlock()

	if c.views != nil {
		c.views.Refresh(ctx)
	}
	return result, nil
}

// Invalidate discards the open task and returns to Idle. Called on a user
// switch, after the session generation has been bumped.
func (c *TaskController) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateIdle
	c.userID = ""
	c.task = Task{}
	c.answer = ""
	c.lastErr = nil
}

func (c *TaskController) State() TaskState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *TaskController) Snapshot() TaskSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TaskSnapshot{
		State:  c.state,
		Task:   c.task,
		Answer: c.answer,
		Err:    c.lastErr,
	}
}
