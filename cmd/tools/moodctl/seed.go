package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/soulscroll/luma/internal/journal"
	"github.com/spf13/cobra"
)

// seedColumns is the CSV header moodctl seed expects
var seedColumns = []string{"user_id", "created_at", "emotion_score", "word_count", "content"}

var seedCmd = &cobra.Command{
	Use:   "seed <file.csv|->",
	Short: "Insert journal entries from a CSV file",
	Long: `Insert journal entries from CSV (use - for stdin). The first row must be:

  user_id,created_at,emotion_score,word_count,content

created_at is RFC3339. An empty emotion_score stores an unscored entry.
An empty word_count is derived from content.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			r = f
		}

		entries, err := parseEntries(r)
		if err != nil {
			return err
		}

		store, err := openStore(rootCtx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		users := make(map[string]int)
		for _, e := range entries {
			if _, err := store.InsertEntry(rootCtx, e); err != nil {
				return fmt.Errorf("insert entry for %s at %s: %w", e.UserID, e.CreatedAt.Format(time.RFC3339), err)
			}
			users[e.UserID]++
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %d entries for %d users\n",
			color.GreenString("Inserted"), len(entries), len(users))
		return err
	},
}

// parseEntries reads seed rows in seedColumns order
func parseEntries(r io.Reader) ([]journal.Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(seedColumns)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty CSV input")
	}
	if err != nil {
		return nil, err
	}
	for i, col := range seedColumns {
		if strings.TrimSpace(strings.ToLower(header[i])) != col {
			return nil, fmt.Errorf("column %d must be %q, got %q", i+1, col, header[i])
		}
	}

	var entries []journal.Entry
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		e, err := parseEntry(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func parseEntry(record []string) (journal.Entry, error) {
	e := journal.Entry{
		UserID:  strings.TrimSpace(record[0]),
		Content: record[4],
	}
	if e.UserID == "" {
		return e, errors.New("user_id is empty")
	}

	created, err := time.Parse(time.RFC3339, strings.TrimSpace(record[1]))
	if err != nil {
		return e, fmt.Errorf("created_at: %w", err)
	}
	e.CreatedAt = created

	if raw := strings.TrimSpace(record[2]); raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return e, fmt.Errorf("emotion_score: %w", err)
		}
		e.EmotionScore = &score
	}

	if raw := strings.TrimSpace(record[3]); raw != "" {
		words, err := strconv.Atoi(raw)
		if err != nil || words < 0 {
			return e, fmt.Errorf("word_count must be a non-negative integer, got %q", raw)
		}
		e.WordCount = words
	} else {
		e.WordCount = countWords(e.Content)
	}

	return e, nil
}

func countWords(s string) int {
	if !utf8.ValidString(s) {
		return 0
	}
	return len(strings.Fields(s))
}
