package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/firmatazero/firmatazero-go/pkg/log"
)

// Stats summarizes the contents of a log file.
type Stats struct {
	Total       int
	ByLayer     map[string]int
	ByCategory  map[string]int
	ByPin       map[string]int
	Connections map[string]bool
	Errors      int
	First       time.Time
	Last        time.Time
}

// CollectStats reads the whole log file and aggregates event counts.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	stats := &Stats{
		ByLayer:     make(map[string]int),
		ByCategory:  make(map[string]int),
		ByPin:       make(map[string]int),
		Connections: make(map[string]bool),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.Total++
		stats.ByLayer[event.Layer.String()]++
		stats.ByCategory[event.Category.String()]++
		if event.Pin != "" {
			stats.ByPin[event.Pin]++
		}
		if event.ConnectionID != "" {
			stats.Connections[event.ConnectionID] = true
		}
		if event.Category == log.CategoryError {
			stats.Errors++
		}

		if stats.First.IsZero() || event.Timestamp.Before(stats.First) {
			stats.First = event.Timestamp
		}
		if event.Timestamp.After(stats.Last) {
			stats.Last = event.Timestamp
		}
	}

	return stats, nil
}

// RunStats prints aggregate statistics about the log file.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Events:      %d\n", stats.Total)
	fmt.Fprintf(w, "Connections: %d\n", len(stats.Connections))
	fmt.Fprintf(w, "Errors:      %d\n", stats.Errors)
	if !stats.First.IsZero() {
		fmt.Fprintf(w, "Time span:   %s to %s (%s)\n",
			stats.First.UTC().Format(time.RFC3339),
			stats.Last.UTC().Format(time.RFC3339),
			stats.Last.Sub(stats.First).Round(time.Millisecond))
	}

	printCounts(w, "By layer:", stats.ByLayer)
	printCounts(w, "By category:", stats.ByCategory)
	printCounts(w, "By pin:", stats.ByPin)
	return nil
}

// printCounts writes a sorted count table under a heading.
func printCounts(w io.Writer, heading string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "\n%s\n", heading)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-12s %d\n", k, counts[k])
	}
}
