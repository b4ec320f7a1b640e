package contributor

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
)

func TestWriteHistoryCSVRoundTrip(t *testing.T) {
	entries := []HistoryEntry{
		{
			Timestamp:  "2026-08-28T09:14:02.551Z",
			Question:   "Is this headline about science, politics, or sports?",
			Label:      "science",
			Confidence: 0.926,
		},
		{
			Timestamp:  "2026-08-29T16:40:11Z",
			Question:   `Does "break a leg" carry a literal meaning here?`,
			Label:      "no",
			Confidence: 0.7,
		},
		{
			Timestamp:  "",
			Question:   "Plain question",
			Label:      "yes",
			Confidence: 1,
		},
	}

	var buf bytes.Buffer
	if err := WriteHistoryCSV(&buf, entries); err != nil {
		t.Fatalf("WriteHistoryCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output does not parse as CSV: %v", err)
	}

	if len(records) != len(entries)+1 {
		t.Fatalf("record count = %d, want %d", len(records), len(entries)+1)
	}
	if got := strings.Join(records[0], ","); got != "Time,Question,Label,Confidence" {
		t.Fatalf("header = %q", got)
	}

	want := [][]string{
		{"2026-08-28T09:14:02", "Is this headline about science, politics, or sports?", "science", "0.93"},
		{"2026-08-29T16:40:11", `Does "break a leg" carry a literal meaning here?`, "no", "0.70"},
		{"N/A", "Plain question", "yes", "1.00"},
	}
	for idx, row := range want {
		for col := range row {
			if records[idx+1][col] != row[col] {
				t.Fatalf("row %d col %d = %q, want %q", idx+1, col, records[idx+1][col], row[col])
			}
		}
	}
}

func TestFormatHistoryTimeKeepsShortTimestamps(t *testing.T) {
	if got := formatHistoryTime("2026-08-28T09:14"); got != "2026-08-28T09:14" {
		t.Fatalf("formatHistoryTime short = %q", got)
	}
	if got := formatHistoryTime("   "); got != "N/A" {
		t.Fatalf("formatHistoryTime blank = %q, want N/A", got)
	}
}

func TestExportFileName(t *testing.T) {
	if got := ExportFileName("alice"); got != "alice_history.csv" {
		t.Fatalf("ExportFileName = %q, want alice_history.csv", got)
	}
}
