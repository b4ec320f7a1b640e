package contributor

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
)

const (
	viewProfile     = "profile"
	viewScore       = "score"
	viewLeaderboard = "leaderboard"
	viewHistory     = "history"
)

// Each view reports independently. The three observable shapes are:
//   - fresh value:            Loaded && Fresh && Err == nil
//   - stale value, no error:  Loaded && !Fresh && Err == nil
//   - error, value unchanged: Err != nil (Value keeps whatever was last applied)

type ProfileView struct {
	Value  Profile
	Loaded bool
	Fresh  bool
	Err    error
}

type ScoreView struct {
	Value  int
	Loaded bool
	Fresh  bool
	Err    error
}

type LeaderboardView struct {
	Value  []LeaderboardEntry
	Loaded bool
	Fresh  bool
	Err    error
}

type HistoryView struct {
	Value  []HistoryEntry
	Loaded bool
	Fresh  bool
	Err    error
}

// Views is a snapshot of the four read-only views for the active user.
// Slices are shared with the synchronizer's cache; callers must treat them
// as read-only.
type Views struct {
	Profile     ProfileView
	Score       ScoreView
	Leaderboard LeaderboardView
	History     HistoryView
}

// Synchronizer owns the four read views for the active user identity. Every
// fetch it dispatches carries the generation current at dispatch time;
// completions whose generation has been superseded are discarded unapplied,
// so a user switch can never bleed one contributor's data into another's
// session.
type Synchronizer struct {
	backend Backend
	store   SnapshotStore
	logger  *slog.Logger
	gen     *atomic.Uint64

	mu     sync.Mutex
	userID string
	views  Views
}

func NewSynchronizer(backend Backend, store SnapshotStore, gen *atomic.Uint64, logger *slog.Logger) *Synchronizer {
	if gen == nil {
		gen = &atomic.Uint64{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		backend: backend,
		store:   store,
		logger:  logger,
		gen:     gen,
	}
}

// SetUser replaces the active identity. The caller must have already bumped
// the generation so in-flight fetches for the previous identity are
// discarded. Stored snapshots for the new user, if any, are preloaded as
// stale values.
func (s *Synchronizer) SetUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userID = userID
	s.views = Views{}
	s.preloadLocked(userID)
}

// Refresh issues the four view fetches concurrently and joins them
// independently; one view failing never blocks or invalidates the others.
// It is idempotent and re-entrant: a repeat call simply re-issues all four
// fetches. The returned snapshot reflects whatever was applied.
func (s *Synchronizer) Refresh(ctx context.Context) Views {
	gen := s.gen.Load()
	s.mu.Lock()
	userID := s.userID
	s.mu.Unlock()

	if userID == "" {
		return s.Current()
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		profile, err := s.backend.Profile(ctx, userID)
		s.applyProfile(gen, userID, profile, err)
	}()
	go func() {
		defer wg.Done()
		scores, err := s.backend.Scores(ctx, userID)
		s.applyScore(gen, userID, scores, err)
	}()
	go func() {
		defer wg.Done()
		entries, err := s.backend.Leaderboard(ctx)
		s.applyLeaderboard(gen, userID, entries, err)
	}()
	go func() {
		defer wg.Done()
		entries, err := s.backend.History(ctx, userID)
		s.applyHistory(gen, userID, entries, err)
	}()

	wg.Wait()
	return s.Current()
}

// Current returns a snapshot of the four views without fetching.
func (s *Synchronizer) Current() Views {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views
}

func (s *Synchronizer) applyProfile(gen uint64, userID string, profile Profile, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discardLocked(gen, userID, viewProfile) {
		return
	}
	if err != nil {
		s.views.Profile.Err = err
		s.views.Profile.Fresh = false
		return
	}
	s.views.Profile = ProfileView{Value: profile, Loaded: true, Fresh: true}
	s.saveLocked(userID, viewProfile, profile)
}

func (s *Synchronizer) applyScore(gen uint64, userID string, scores map[string]int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discardLocked(gen, userID, viewScore) {
		return
	}
	if err != nil {
		s.views.Score.Err = err
		s.views.Score.Fresh = false
		return
	}
	// The raw per-user mapping is an internal fetch shape; a missing entry
	// means zero points.
	points := scores[userID]
	s.views.Score = ScoreView{Value: points, Loaded: true, Fresh: true}
	s.saveLocked(userID, viewScore, points)
}

func (s *Synchronizer) applyLeaderboard(gen uint64, userID string, entries []LeaderboardEntry, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discardLocked(gen, userID, viewLeaderboard) {
		return
	}
	if err != nil {
		s.views.Leaderboard.Err = err
		s.views.Leaderboard.Fresh = false
		return
	}
	// Ordering is whatever the backend returned; never re-sorted here.
	s.views.Leaderboard = LeaderboardView{Value: entries, Loaded: true, Fresh: true}
	s.saveLocked(userID, viewLeaderboard, entries)
}

func (s *Synchronizer) applyHistory(gen uint64, userID string, entries []HistoryEntry, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discardLocked(gen, userID, viewHistory) {
		return
	}
	if err != nil {
		s.views.History.Err = err
		s.views.History.Fresh = false
		return
	}
	s.views.History = HistoryView{Value: entries, Loaded: true, Fresh: true}
	s.saveLocked(userID, viewHistory, entries)
}

func (s *Synchronizer) discardLocked(gen uint64, userID, view string) bool {
	if gen == s.gen.Load() {
		return false
	}
	s.logger.Debug("discarding superseded response", "view", view, "user", userID)
	return true
}

func (s *Synchronizer) saveLocked(userID, view string, value any) {
	if s.store == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.store.SaveView(userID, view, payload); err != nil {
		s.logger.Warn("snapshot save failed", "view", view, "user", userID, "err", err)
	}
}

func (s *Synchronizer) preloadLocked(userID string) {
	if s.store == nil || userID == "" {
		return
	}

	var profile Profile
	if s.loadLocked(userID, viewProfile, &profile) {
		s.views.Profile = ProfileView{Value: profile, Loaded: true}
	}
	var points int
	if s.loadLocked(userID, viewScore, &points) {
		s.views.Score = ScoreView{Value: points, Loaded: true}
	}
	var leaderboard []LeaderboardEntry
	if s.loadLocked(userID, viewLeaderboard, &leaderboard) {
		s.views.Leaderboard = LeaderboardView{Value: leaderboard, Loaded: true}
	}
	var history []HistoryEntry
	if s.loadLocked(userID, viewHistory, &history) {
		s.views.History = HistoryView{Value: history, Loaded: true}
	}
}

func (s *Synchronizer) loadLocked(userID, view string, target any) bool {
	payload, ok, err := s.store.LoadView(userID, view)
	if err != nil {
		s.logger.Warn("snapshot load failed", "view", view, "user", userID, "err", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, target); err != nil {
		s.logger.Warn("snapshot payload corrupt", "view", view, "user", userID, "err", err)
		return false
	}
	return true
}
