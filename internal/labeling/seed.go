package labeling

import (
	"github.com/google/uuid"

	"github.com/Sheyworld98/pln-frontend/internal/contributor"
)

// NewSeededStore builds a store with demo contributors and a small task pool
// spanning several topics and complexity levels.
func NewSeededStore() *Store {
	store := NewStore()

	intPtr := func(v int) *int { return &v }

	store.EnsureUser("alice")
	store.EnsureUser("bob")
	store.EnsureUser("carol")

	store.mu.Lock()
	store.profiles["alice"] = contributor.Profile{
		Languages:        []string{"en", "fr"},
		ExpertiseDomains: []string{"science", "technology"},
		ComplexityLevel:  intPtr(3),
	}
	store.profiles["bob"] = contributor.Profile{
		Languages:        []string{"en"},
		ExpertiseDomains: []string{"sports"},
		ComplexityLevel:  intPtr(1),
	}
	store.profiles["carol"] = contributor.Profile{
		Languages:        []string{"en", "es"},
		ExpertiseDomains: []string{"history"},
	}
	store.scores["alice"] = 120
	store.scores["bob"] = 45
	store.scores["carol"] = 12
	store.history["alice"] = []contributor.HistoryEntry{
		{
			Timestamp:  "2026-08-28T09:14:02.551Z",
			Question:   "Is this headline about science, politics, or sports?",
			Label:      "science",
			Confidence: 0.92,
		},
		{
			Timestamp:  "2026-08-29T16:40:11.003Z",
			Question:   "Does the phrase \"break a leg\" carry a literal meaning here?",
			Label:      "no",
			Confidence: 0.74,
		},
	}
	store.history["bob"] = []contributor.HistoryEntry{
		{
			Timestamp:  "2026-08-30T12:05:44Z",
			Question:   "Which sport is being described: football, rugby, or cricket?",
			Label:      "rugby",
			Confidence: 0.81,
		},
	}
	store.mu.Unlock()

	for _, task := range seedTasks() {
		store.AddTask(task)
	}
	return store
}

func seedTasks() []Task {
	tasks := []Task{
		{
			Text: "Which field does the term \"photosynthesis\" belong to?",
			Choices: []contributor.Choice{
				{Key: "a", Value: "Biology"},
				{Key: "b", Value: "Geology"},
				{Key: "c", Value: "Astronomy"},
			},
			Lang:       "en",
			Topic:      "science",
			Complexity: 1,
		},
		{
			Text: "Classify the sentiment of: \"The update broke everything, again.\"",
			Choices: []contributor.Choice{
				{Key: "a", Value: "Positive"},
				{Key: "b", Value: "Negative"},
				{Key: "c", Value: "Neutral"},
			},
			Lang:       "en",
			Topic:      "technology",
			Complexity: 2,
		},
		{
			Text: "Which century does the depicted manuscript most likely date from?",
			Choices: []contributor.Choice{
				{Key: "a", Value: "12th"},
				{Key: "b", Value: "15th"},
				{Key: "c", Value: "18th"},
			},
			Image:      "https://static.pln.example/tasks/manuscript-04.jpg",
			Lang:       "en",
			Topic:      "history",
			Complexity: 3,
		},
		{
			Text: "Is the referee's signal shown in the image a penalty call?",
			Choices: []contributor.Choice{
				{Key: "a", Value: "Yes"},
				{Key: "b", Value: "No"},
			},
			Image:      "https://static.pln.example/tasks/referee-11.jpg",
			Lang:       "en",
			Topic:      "sports",
			Complexity: 1,
		},
		{
			Text: "Which continent is outlined on the map fragment?",
			Choices: []contributor.Choice{
				{Key: "a", Value: "Africa"},
				{Key: "b", Value: "South America"},
				{Key: "c", Value: "Australia"},
			},
			Lang:       "en",
			Topic:      "geography",
			Complexity: 2,
		},
		{
			Text: "Does this verse use iambic pentameter?",
			Choices: []contributor.Choice{
				{Key: "a", Value: "Yes"},
				{Key: "b", Value: "No"},
			},
			Lang:       "en",
			Topic:      "literature",
			Complexity: 4,
		},
		{
			Text: "Quel est le registre de ce passage: soutenu, courant ou familier?",
			Choices: []contributor.Choice{
				{Key: "a", Value: "Soutenu"},
				{Key: "b", Value: "Courant"},
				{Key: "c", Value: "Familier"},
			},
			Lang:       "fr",
			Topic:      "literature",
			Complexity: 3,
		},
		{
			Text: "Which movement does the painting style resemble most?",
			Choices: []contributor.Choice{
				{Key: "a", Value: "Impressionism"},
				{Key: "b", Value: "Cubism"},
				{Key: "c", Value: "Baroque"},
			},
			Image:      "https://static.pln.example/tasks/painting-23.jpg",
			Lang:       "en",
			Topic:      "arts",
			Complexity: 2,
		},
	}

	for idx := range tasks {
		tasks[idx].ID = uuid.NewString()
		tasks[idx].TrackID = uuid.NewString()
	}
	return tasks
}
