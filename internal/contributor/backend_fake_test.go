package contributor

import (
	"context"
	"io"
	"log/slog"
)

// fakeBackend implements Backend with per-call hooks; nil hooks return zero
// values.
type fakeBackend struct {
	listUsers    func(ctx context.Context) ([]string, error)
	profile      func(ctx context.Context, userID string) (Profile, error)
	scores       func(ctx context.Context, userID string) (map[string]int, error)
	leaderboard  func(ctx context.Context) ([]LeaderboardEntry, error)
	history      func(ctx context.Context, userID string) ([]HistoryEntry, error)
	updatePrefs  func(ctx context.Context, userID string, prefs Preferences) error
	fetchTask    func(ctx context.Context, userID string, prefs Preferences) (Task, error)
	submitAnswer func(ctx context.Context, submission AnswerSubmission) (SubmitResult, error)
}

func (f *fakeBackend) ListUsers(ctx context.Context) ([]string, error) {
	if f.listUsers == nil {
		return nil, nil
	}
	return f.listUsers(ctx)
}

func (f *fakeBackend) Profile(ctx context.Context, userID string) (Profile, error) {
	if f.profile == nil {
		return Profile{}, nil
	}
	return f.profile(ctx, userID)
}

func (f *fakeBackend) Scores(ctx context.Context, userID string) (map[string]int, error) {
	if f.scores == nil {
		return map[string]int{}, nil
	}
	return f.scores(ctx, userID)
}

func (f *fakeBackend) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if f.leaderboard == nil {
		return nil, nil
	}
	return f.leaderboard(ctx)
}

func (f *fakeBackend) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	if f.history == nil {
		return nil, nil
	}
	return f.history(ctx, userID)
}

func (f *fakeBackend) UpdatePreferences(ctx context.Context, userID string, prefs Preferences) error {
	if f.updatePrefs == nil {
		return nil
	}
	return f.updatePrefs(ctx, userID, prefs)
}

func (f *fakeBackend) FetchTask(ctx context.Context, userID string, prefs Preferences) (Task, error) {
	if f.fetchTask == nil {
		return Task{}, ErrNoTaskAvailable
	}
	return f.fetchTask(ctx, userID, prefs)
}

func (f *fakeBackend) SubmitAnswer(ctx context.Context, submission AnswerSubmission) (SubmitResult, error) {
	if f.submitAnswer == nil {
		return SubmitResult{}, nil
	}
	return f.submitAnswer(ctx, submission)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
