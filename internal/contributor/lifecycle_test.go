package contributor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func testTask() Task {
	return Task{
		ID:      "task-1",
		TrackID: "track-9",
		Prompt:  "Which field does the term belong to?",
		Choices: []Choice{{Key: "a", Value: "Biology"}, {Key: "b", Value: "Geology"}},
	}
}

func TestFetchSucceedsWhenPreferenceSyncFails(t *testing.T) {
	prefsErr := errors.New("prefs endpoint down")
	backend := &fakeBackend{
		updatePrefs: func(context.Context, string, Preferences) error {
			return prefsErr
		},
		fetchTask: func(context.Context, string, Preferences) (Task, error) {
			return testTask(), nil
		},
	}

	c := NewTaskController(backend, nil, &atomic.Uint64{}, discardLogger())
	outcome, err := c.Fetch(context.Background(), "alice", Preferences{Language: "en"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if outcome.State != StateReady {
		t.Fatalf("state = %s, want ready", outcome.State)
	}
	if outcome.Task.ID != "task-1" {
		t.Fatalf("task = %+v, want task-1", outcome.Task)
	}
	if !errors.Is(outcome.PreferenceSyncWarning, prefsErr) {
		t.Fatalf("warning = %v, want %v", outcome.PreferenceSyncWarning, prefsErr)
	}
}

func TestFetchMapsExhaustionToNoTaskState(t *testing.T) {
	backend := &fakeBackend{
		fetchTask: func(context.Context, string, Preferences) (Task, error) {
			return Task{}, ErrNoTaskAvailable
		},
	}

	c := NewTaskController(backend, nil, &atomic.Uint64{}, discardLogger())
	outcome, err := c.Fetch(context.Background(), "alice", Preferences{})
	if err != nil {
		t.Fatalf("Fetch returned error for exhaustion: %v", err)
	}
	if outcome.State != StateNoTask {
		t.Fatalf("state = %s, want no_task_available", outcome.State)
	}
}

func TestFetchTransportErrorSurfaces(t *testing.T) {
	boom := errors.New("connection refused")
	backend := &fakeBackend{
		fetchTask: func(context.Context, string, Preferences) (Task, error) {
			return Task{}, boom
		},
	}

	c := NewTaskController(backend, nil, &atomic.Uint64{}, discardLogger())
	outcome, err := c.Fetch(context.Background(), "alice", Preferences{})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if outcome.State != StateFetchError {
		t.Fatalf("state = %s, want fetch_error", outcome.State)
	}
	if c.Snapshot().Task.ID != "" {
		t.Fatalf("no task must be stored after a failed fetch")
	}
}

func TestSelectAnswerValidatesChoice(t *testing.T) {
	backend := &fakeBackend{
		fetchTask: func(context.Context, string, Preferences) (Task, error) {
			return testTask(), nil
		},
	}

	c := NewTaskController(backend, nil, &atomic.Uint64{}, discardLogger())
	if err := c.SelectAnswer("a"); !errors.Is(err, ErrNoOpenTask) {
		t.Fatalf("select without task = %v, want ErrNoOpenTask", err)
	}

	if _, err := c.Fetch(context.Background(), "alice", Preferences{}); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if err := c.SelectAnswer("z"); !errors.Is(err, ErrUnknownChoice) {
		t.Fatalf("select unknown choice = %v, want ErrUnknownChoice", err)
	}
	if err := c.SelectAnswer("b"); err != nil {
		t.Fatalf("select valid choice failed: %v", err)
	}
	if c.State() != StateReady {
		t.Fatalf("selecting an answer must not transition state, got %s", c.State())
	}
}

func TestSubmitFailureRetainsTaskAndAnswer(t *testing.T) {
	failSubmit := true
	var submitted []AnswerSubmission
	backend := &fakeBackend{
		fetchTask: func(context.Context, string, Preferences) (Task, error) {
			return testTask(), nil
		},
		submitAnswer: func(_ context.Context, submission AnswerSubmission) (SubmitResult, error) {
			submitted = append(submitted, submission)
			if failSubmit {
				return SubmitResult{}, errors.New("gateway timeout")
			}
			return SubmitResult{Confidence: 0.88}, nil
		},
	}

	c := NewTaskController(backend, nil, &atomic.Uint64{}, discardLogger())
	if _, err := c.Fetch(context.Background(), "alice", Preferences{}); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if err := c.SelectAnswer("a"); err != nil {
		t.Fatalf("SelectAnswer failed: %v", err)
	}

	if _, err := c.Submit(context.Background()); err == nil {
		t.Fatalf("expected submit failure")
	}

	snapshot := c.Snapshot()
	if snapshot.State != StateSubmitError {
		t.Fatalf("state = %s, want submit_error", snapshot.State)
	}
	if snapshot.Task.ID != "task-1" || snapshot.Answer != "a" {
		t.Fatalf("task/answer not retained: %+v", snapshot)
	}

	// Retry without re-fetching.
	failSubmit = false
	result, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if result.Confidence != 0.88 {
		t.Fatalf("confidence = %v, want 0.88", result.Confidence)
	}
	if c.State() != StateIdle {
		t.Fatalf("state after successful submit = %s, want idle", c.State())
	}
	if len(submitted) != 2 {
		t.Fatalf("submit attempts = %d, want 2", len(submitted))
	}
}

func TestSubmitEchoesFetchTimeQuestionText(t *testing.T) {
	var got AnswerSubmission
	backend := &fakeBackend{
		fetchTask: func(context.Context, string, Preferences) (Task, error) {
			return testTask(), nil
		},
		submitAnswer: func(_ context.Context, submission AnswerSubmission) (SubmitResult, error) {
			got = submission
			return SubmitResult{Confidence: 0.5}, nil
		},
	}

	c := NewTaskController(backend, nil, &atomic.Uint64{}, discardLogger())
	if _, err := c.Fetch(context.Background(), "alice", Preferences{}); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if err := c.SelectAnswer("b"); err != nil {
		t.Fatalf("SelectAnswer failed: %v", err)
	}
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	want := AnswerSubmission{
		TaskID:   "task-1",
		TrackID:  "track-9",
		UserID:   "alice",
		Solution: "b",
		Question: "Which field does the term belong to?",
	}
	if got != want {
		t.Fatalf("submission = %+v, want %+v", got, want)
	}
}

func TestSubmitRequiresSelectedAnswer(t *testing.T) {
	backend := &fakeBackend{
		fetchTask: func(context.Context, string, Preferences) (Task, error) {
			return testTask(), nil
		},
	}

	c := NewTaskController(backend, nil, &atomic.Uint64{}, discardLogger())
	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrNoOpenTask) {
		t.Fatalf("submit in idle = %v, want ErrNoOpenTask", err)
	}

	if _, err := c.Fetch(context.Background(), "alice", Preferences{}); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrNoAnswerSelected) {
		t.Fatalf("submit without answer = %v, want ErrNoAnswerSelected", err)
	}
}

func TestUserSwitchDiscardsInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &fakeBackend{
		fetchTask: func(_ context.Context, userID string, _ Preferences) (Task, error) {
			if userID == "alice" {
				close(started)
				<-release
			}
			return testTask(), nil
		},
	}

	session := NewSession(backend, nil, discardLogger())
	if _, err := session.SetUser(context.Background(), "alice"); err != nil {
		t.Fatalf("SetUser(alice) failed: %v", err)
	}

	fetchDone := make(chan error, 1)
	go func() {
		_, err := session.FetchTask(context.Background())
		fetchDone <- err
	}()
	<-started

	if _, err := session.SetUser(context.Background(), "bob"); err != nil {
		t.Fatalf("SetUser(bob) failed: %v", err)
	}
	close(release)

	if err := <-fetchDone; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("stale fetch err = %v, want ErrSuperseded", err)
	}
	snapshot := session.Task()
	if snapshot.State != StateIdle || snapshot.Task.ID != "" {
		t.Fatalf("task state after switch = %+v, want idle with no task", snapshot)
	}
}

func TestSuccessfulSubmitTriggersResync(t *testing.T) {
	var historyFetches atomic.Int64
	backend := &fakeBackend{
		history: func(context.Context, string) ([]HistoryEntry, error) {
			historyFetches.Add(1)
			return nil, nil
		},
		fetchTask: func(context.Context, string, Preferences) (Task, error) {
			return testTask(), nil
		},
		submitAnswer: func(context.Context, AnswerSubmission) (SubmitResult, error) {
			return SubmitResult{Confidence: 0.9}, nil
		},
	}

	session := NewSession(backend, nil, discardLogger())
	if _, err := session.SetUser(context.Background(), "alice"); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}
	before := historyFetches.Load()

	if _, err := session.FetchTask(context.Background()); err != nil {
		t.Fatalf("FetchTask failed: %v", err)
	}
	if err := session.SelectAnswer("a"); err != nil {
		t.Fatalf("SelectAnswer failed: %v", err)
	}
	if _, err := session.SubmitAnswer(context.Background()); err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	if historyFetches.Load() != before+1 {
		t.Fatalf("history fetches = %d, want %d (one resync after submit)", historyFetches.Load(), before+1)
	}
}
