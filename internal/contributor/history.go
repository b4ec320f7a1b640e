package contributor

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

var historyHeader = []string{"Time", "Question", "Label", "Confidence"}

// WriteHistoryCSV renders history entries as CSV in the order given, one row
// per entry. Question text is quoted per RFC 4180 so the output round-trips
// through any standard CSV parser.
func WriteHistoryCSV(w io.Writer, entries []HistoryEntry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(historyHeader); err != nil {
		return err
	}

	for _, entry := range entries {
		record := []string{
			formatHistoryTime(entry.Timestamp),
			entry.Question,
			entry.Label,
			strconv.FormatFloat(entry.Confidence, 'f', 2, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatHistoryTime keeps the first 19 characters of an ISO-8601 timestamp
// (YYYY-MM-DDTHH:MM:SS), dropping sub-second and timezone suffixes.
func formatHistoryTime(timestamp string) string {
	timestamp = strings.TrimSpace(timestamp)
	if timestamp == "" {
		return "N/A"
	}
	if len(timestamp) > 19 {
		return timestamp[:19]
	}
	return timestamp
}

func ExportFileName(userID string) string {
	return userID + "_history.csv"
}
