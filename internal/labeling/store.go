// Package labeling is the in-memory program store behind the dev labeling
// service: contributors, scores, labeling history and the task pool. It
// stands in for the deployed backend so the dashboard runs end to end
// locally.
package labeling

import (
	"errors"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/Sheyworld98/pln-frontend/internal/contributor"
)

var ErrUnknownTask = errors.New("unknown task")

const submissionPoints = 10

// Task is the server-side task shape: the public payload plus the filter
// attributes used to match contributor preferences.
type Task struct {
	ID         string
	TrackID    string
	Text       string
	Choices    []contributor.Choice
	Image      string
	Lang       string
	Topic      string
	Complexity int
}

type Store struct {
	mu       sync.Mutex
	users    []string
	profiles map[string]contributor.Profile
	scores   map[string]int
	history  map[string][]contributor.HistoryEntry
	tasks    []Task
	answered map[string]map[string]bool
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		profiles: make(map[string]contributor.Profile),
		scores:   make(map[string]int),
		history:  make(map[string][]contributor.HistoryEntry),
		answered: make(map[string]map[string]bool),
		now:      time.Now,
	}
}

// EnsureUser registers userID if it is new. Unknown contributors start with
// an empty profile and zero points, which lets the dashboard's free-form
// user entry work without a signup flow.
func (s *Store) EnsureUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureUserLocked(userID)
}

func (s *Store) ensureUserLocked(userID string) {
	if _, ok := s.profiles[userID]; ok {
		return
	}
	s.users = append(s.users, userID)
	s.profiles[userID] = contributor.Profile{}
	s.scores[userID] = 0
}

func (s *Store) Users() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]string, len(s.users))
	copy(users, s.users)
	return users
}

func (s *Store) Profile(userID string) contributor.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureUserLocked(userID)
	return s.profiles[userID]
}

// Scores returns the per-user score mapping the contract exposes. Only the
// requested user's entry is included.
func (s *Store) Scores(userID string) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureUserLocked(userID)
	return map[string]int{userID: s.scores[userID]}
}

// Leaderboard returns all contributors ordered by score descending, id
// ascending on ties. The ordering is decided here; clients render it as is.
func (s *Store) Leaderboard() []contributor.LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]contributor.LeaderboardEntry, 0, len(s.users))
	for _, userID := range s.users {
		entries = append(entries, contributor.LeaderboardEntry{
			UserID: userID,
			Score:  s.scores[userID],
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})
	return entries
}

func (s *Store) History(userID string) []contributor.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureUserLocked(userID)
	entries := make([]contributor.HistoryEntry, len(s.history[userID]))
	copy(entries, s.history[userID])
	return entries
}

// UpdateProfile merges a preference push into the stored profile: the
// language and topic are added to the respective sets, complexity replaces
// the stored level when given.
func (s *Store) UpdateProfile(userID, lang, topic string, complexity *int) contributor.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureUserLocked(userID)

	profile := s.profiles[userID]
	if lang != "" && !containsString(profile.Languages, lang) {
		profile.Languages = append(profile.Languages, lang)
	}
	if topic != "" && !containsString(profile.ExpertiseDomains, topic) {
		profile.ExpertiseDomains = append(profile.ExpertiseDomains, topic)
	}
	if complexity != nil {
		level := *complexity
		profile.ComplexityLevel = &level
	}
	s.profiles[userID] = profile
	return profile
}

func (s *Store) AddTask(task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task)
}

// NextTask returns the first pool task matching the filters that userID has
// not answered yet. Empty or zero filters match everything.
func (s *Store) NextTask(userID, lang, topic string, complexity int) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureUserLocked(userID)

	for _, task := range s.tasks {
		if lang != "" && task.Lang != "" && task.Lang != lang {
			continue
		}
		if topic != "" && task.Topic != topic {
			continue
		}
		if complexity != 0 && task.Complexity != complexity {
			continue
		}
		if s.answered[userID][task.ID] {
			continue
		}
		return task, true
	}
	return Task{}, false
}

// Submit records a labeled answer: marks the task answered for the user,
// accrues points, appends a history entry and returns the scoring
// confidence. The echoed question text is stored verbatim when present.
func (s *Store) Submit(taskID, userID, solution, question string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureUserLocked(userID)

	var task Task
	found := false
	for _, candidate := range s.tasks {
		if candidate.ID == taskID {
			task = candidate
			found = true
			break
		}
	}
	if !found {
		return 0, ErrUnknownTask
	}

	if s.answered[userID] == nil {
		s.answered[userID] = make(map[string]bool)
	}
	s.answered[userID][taskID] = true
	s.scores[userID] += submissionPoints

	if question == "" {
		question = task.Text
	}
	label := solution
	for _, choice := range task.Choices {
		if choice.Key == solution {
			label = choice.Value
			break
		}
	}

	confidence := scoreConfidence(taskID, solution)
	s.history[userID] = append(s.history[userID], contributor.HistoryEntry{
		Timestamp:  s.now().UTC().Format(time.RFC3339),
		Question:   question,
		Label:      label,
		Confidence: confidence,
	})
	return confidence, nil
}

// scoreConfidence derives a stable pseudo-confidence in [0.50, 0.99] from the
// task/solution pair, so repeated demo submissions are reproducible.
func scoreConfidence(taskID, solution string) float64 {
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(taskID))
	_, _ = hasher.Write([]byte("|"))
	_, _ = hasher.Write([]byte(solution))
	return 0.50 + float64(hasher.Sum32()%50)/100.0
}

func containsString(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
