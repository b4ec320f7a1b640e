package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Sheyworld98/pln-frontend/internal/contributor"
)

func renderViews(out io.Writer, userID string, views contributor.Views) {
	fmt.Fprintf(out, "\n== %s ==\n", userID)
	renderProfile(out, views.Profile)
	renderScore(out, views.Score)
	renderLeaderboard(out, views.Leaderboard)
	renderHistory(out, views.History)
}

func renderProfile(out io.Writer, view contributor.ProfileView) {
	fmt.Fprintln(out, "Profile:")
	if note := viewNote(view.Loaded, view.Fresh, view.Err); note != "" {
		fmt.Fprintf(out, "  %s\n", note)
	}
	if !view.Loaded {
		return
	}
	fmt.Fprintf(out, "  Languages:  %s\n", joinOrNA(view.Value.Languages))
	fmt.Fprintf(out, "  Expertise:  %s\n", joinOrNA(view.Value.ExpertiseDomains))
	if view.Value.ComplexityLevel != nil {
		fmt.Fprintf(out, "  Complexity: %d\n", *view.Value.ComplexityLevel)
	} else {
		fmt.Fprintln(out, "  Complexity: N/A")
	}
}

func renderScore(out io.Writer, view contributor.ScoreView) {
	fmt.Fprintln(out, "Score:")
	if note := viewNote(view.Loaded, view.Fresh, view.Err); note != "" {
		fmt.Fprintf(out, "  %s\n", note)
	}
	if !view.Loaded {
		return
	}
	fmt.Fprintf(out, "  %d points (%s)\n", view.Value, contributor.ClassifyBadge(view.Value))
}

func renderLeaderboard(out io.Writer, view contributor.LeaderboardView) {
	fmt.Fprintln(out, "Leaderboard:")
	if note := viewNote(view.Loaded, view.Fresh, view.Err); note != "" {
		fmt.Fprintf(out, "  %s\n", note)
	}
	if !view.Loaded {
		return
	}
	if len(view.Value) == 0 {
		fmt.Fprintln(out, "  (empty)")
		return
	}
	for idx, entry := range view.Value {
		fmt.Fprintf(out, "  %d. %s - %d pts\n", idx+1, entry.UserID, entry.Score)
	}
}

func renderHistory(out io.Writer, view contributor.HistoryView) {
	fmt.Fprintln(out, "History:")
	if note := viewNote(view.Loaded, view.Fresh, view.Err); note != "" {
		fmt.Fprintf(out, "  %s\n", note)
	}
	if !view.Loaded {
		return
	}
	if len(view.Value) == 0 {
		fmt.Fprintln(out, "  (no labeled tasks yet)")
		return
	}
	fmt.Fprintf(out, "  %-20s %-11s %-10s %s\n", "Time", "Confidence", "Label", "Question")
	for _, entry := range view.Value {
		timestamp := entry.Timestamp
		if len(timestamp) > 19 {
			timestamp = timestamp[:19]
		}
		if timestamp == "" {
			timestamp = "N/A"
		}
		fmt.Fprintf(out, "  %-20s %-11.2f %-10s %s\n", timestamp, entry.Confidence, entry.Label, entry.Question)
	}
}

func renderTask(out io.Writer, task contributor.Task) {
	fmt.Fprintf(out, "\nTask %s\n\n%s\n", task.ID, task.Prompt)
	if task.Image != "" {
		fmt.Fprintf(out, "image: %s\n", task.Image)
	}
	fmt.Fprintln(out)
	for _, choice := range task.Choices {
		fmt.Fprintf(out, "%s. %s\n", choice.Key, choice.Value)
	}
	fmt.Fprintln(out, "\nUse 'answer <choice_key>' then 'submit'.")
}

func renderPreferences(out io.Writer, prefs contributor.Preferences) {
	lang := prefs.Language
	if lang == "" {
		lang = "unset"
	}
	topic := prefs.Topic
	if topic == "" {
		topic = "unset"
	}
	complexity := "unset"
	if prefs.Complexity != 0 {
		complexity = fmt.Sprintf("%d", prefs.Complexity)
	}
	fmt.Fprintf(out, "Preferences: lang=%s topic=%s complexity=%s\n", lang, topic, complexity)
}

// viewNote summarizes the view's freshness for rendering. An empty string
// means the value is fresh and needs no annotation.
func viewNote(loaded, fresh bool, err error) string {
	switch {
	case err != nil && loaded:
		return fmt.Sprintf("(fetch failed: %v; showing last known value)", err)
	case err != nil:
		return fmt.Sprintf("(fetch failed: %v)", err)
	case loaded && !fresh:
		return "(cached)"
	case !loaded:
		return "(not loaded)"
	default:
		return ""
	}
}

func joinOrNA(values []string) string {
	if len(values) == 0 {
		return "N/A"
	}
	return strings.Join(values, ", ")
}
