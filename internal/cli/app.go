// Package cli is the interactive contributor dashboard: a command loop over
// the session core that renders profile, score, leaderboard and history,
// drives the task cycle and exports labeling history as CSV.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Sheyworld98/pln-frontend/internal/contributor"
)

type Config struct {
	Backend     contributor.Backend
	Session     *contributor.Session
	ExportDir   string
	InitialUser string
}

func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	if cfg.Session == nil {
		return errors.New("session is required")
	}
	exportDir := cfg.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "labelboard: contributor dashboard")
	printHelp(out)

	if strings.TrimSpace(cfg.InitialUser) != "" {
		runSetUser(ctx, out, cfg.Session, cfg.InitialUser)
	}

	for {
		fmt.Fprint(out, "\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])

		switch command {
		case "help":
			printHelp(out)
		case "exit":
			return nil
		case "users":
			runListUsers(ctx, out, cfg.Backend)
		case "user":
			if len(args) != 2 {
				fmt.Fprintln(out, "usage: user <id>")
				continue
			}
			runSetUser(ctx, out, cfg.Session, args[1])
		case "refresh":
			views, err := cfg.Session.Refresh(ctx)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			renderViews(out, cfg.Session.UserID(), views)
		case "profile":
			renderProfile(out, cfg.Session.Views().Profile)
		case "score":
			renderScore(out, cfg.Session.Views().Score)
		case "leaderboard":
			renderLeaderboard(out, cfg.Session.Views().Leaderboard)
		case "history":
			renderHistory(out, cfg.Session.Views().History)
		case "prefs":
			runPrefs(out, cfg.Session, args[1:])
		case "task":
			runFetchTask(ctx, out, cfg.Session)
		case "answer":
			if len(args) != 2 {
				fmt.Fprintln(out, "usage: answer <choice_key>")
				continue
			}
			if err := cfg.Session.SelectAnswer(args[1]); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "answer %s selected\n", args[1])
		case "submit":
			runSubmit(ctx, out, cfg.Session)
		case "export":
			dir := exportDir
			if len(args) == 2 {
				dir = args[1]
			}
			runExport(out, cfg.Session, dir)
		default:
			fmt.Fprintln(out, "unknown command. type 'help' for usage.")
		}
	}
}

func runListUsers(ctx context.Context, out io.Writer, backend contributor.Backend) {
	if backend == nil {
		fmt.Fprintln(out, "error: backend is not configured")
		return
	}
	users, err := backend.ListUsers(ctx)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	if len(users) == 0 {
		fmt.Fprintln(out, "No known contributors yet.")
		return
	}
	fmt.Fprintln(out, "Contributors:")
	for idx, userID := range users {
		fmt.Fprintf(out, "%d. %s\n", idx+1, userID)
	}
}

func runSetUser(ctx context.Context, out io.Writer, session *contributor.Session, candidate string) {
	views, err := session.SetUser(ctx, candidate)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	renderViews(out, session.UserID(), views)
}

func runPrefs(out io.Writer, session *contributor.Session, args []string) {
	if len(args) == 0 {
		renderPreferences(out, session.Preferences())
		return
	}

	var update contributor.PreferenceUpdate
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			fmt.Fprintln(out, "usage: prefs [lang=<code>] [topic=<domain>] [complexity=<1-4|0>]")
			return
		}
		switch strings.ToLower(key) {
		case "lang":
			lang := value
			update.Language = &lang
		case "topic":
			topic := value
			update.Topic = &topic
		case "complexity":
			parsed, err := strconv.Atoi(value)
			if err != nil {
				fmt.Fprintln(out, "complexity must be an integer")
				return
			}
			update.Complexity = &parsed
		default:
			fmt.Fprintf(out, "unknown preference %q\n", key)
			return
		}
	}

	prefs, err := session.SetPreferences(update)
	if err != nil {
		if errors.Is(err, contributor.ErrUnknownTopic) {
			fmt.Fprintf(out, "error: %v (known topics: %s)\n", err, strings.Join(contributor.Topics, ", "))
			return
		}
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	renderPreferences(out, prefs)
}

func runFetchTask(ctx context.Context, out io.Writer, session *contributor.Session) {
	outcome, err := session.FetchTask(ctx)
	if outcome.PreferenceSyncWarning != nil {
		fmt.Fprintf(out, "warning: preference sync failed: %v\n", outcome.PreferenceSyncWarning)
	}
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}

	switch outcome.State {
	case contributor.StateNoTask:
		fmt.Fprintln(out, "No tasks available for the current preferences.")
	case contributor.StateReady:
		renderTask(out, outcome.Task)
	default:
		fmt.Fprintf(out, "task state: %s\n", outcome.State)
	}
}

func runSubmit(ctx context.Context, out io.Writer, session *contributor.Session) {
	result, err := session.SubmitAnswer(ctx)
	if err != nil {
		if errors.Is(err, contributor.ErrNoOpenTask) || errors.Is(err, contributor.ErrNoAnswerSelected) {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		fmt.Fprintf(out, "submit failed: %v (task retained, try 'submit' again)\n", err)
		return
	}

	fmt.Fprintf(out, "Submitted with confidence: %.2f\n", result.Confidence)
	renderScore(out, session.Views().Score)
}

func runExport(out io.Writer, session *contributor.Session, dir string) {
	userID := session.UserID()
	if userID == "" {
		fmt.Fprintln(out, "error: select a user first")
		return
	}

	history := session.Views().History
	if !history.Loaded {
		fmt.Fprintln(out, "error: no history loaded for export")
		return
	}

	path := filepath.Join(dir, contributor.ExportFileName(userID))
	file, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	defer file.Close()

	if err := contributor.WriteHistoryCSV(file, history.Value); err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "exported %d entries to %s\n", len(history.Value), path)
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  users")
	fmt.Fprintln(out, "  user <id>")
	fmt.Fprintln(out, "  refresh")
	fmt.Fprintln(out, "  profile | score | leaderboard | history")
	fmt.Fprintln(out, "  prefs [lang=<code>] [topic=<domain>] [complexity=<1-4|0>]")
	fmt.Fprintln(out, "  task")
	fmt.Fprintln(out, "  answer <choice_key>")
	fmt.Fprintln(out, "  submit")
	fmt.Fprintln(out, "  export [dir]")
	fmt.Fprintln(out, "  exit")
}
