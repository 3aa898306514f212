package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/firmatazero/firmatazero-go/pkg/log"
)

// FilterOptions specifies criteria for the filter command.
type FilterOptions struct {
	// Output is the destination log file path.
	Output string

	ConnID    string
	Pin       string
	Port      string
	TimeStart string
	TimeEnd   string
	Layer     string
	Category  string
}

// RunFilter reads the log file and writes matching events to a new log
// file.
func RunFilter(path string, opts FilterOptions) error {
	filter := log.Filter{
		ConnectionID: opts.ConnID,
		Pin:          opts.Pin,
		Port:         opts.Port,
	}

	if opts.Layer != "" {
		l, err := ParseLayerFlag(opts.Layer)
		if err != nil {
			return err
		}
		filter.Layer = &l
	}
	if opts.Category != "" {
		c, err := ParseCategoryFlag(opts.Category)
		if err != nil {
			return err
		}
		filter.Category = &c
	}
	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return fmt.Errorf("invalid -time-start: %w", err)
		}
		filter.TimeStart = &t
	}
	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return fmt.Errorf("invalid -time-end: %w", err)
		}
		filter.TimeEnd = &t
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return err
	}
	defer reader.Close()

	writer, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return err
	}

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			writer.Close()
			return fmt.Errorf("failed to read event: %w", err)
		}
		writer.Log(event)
		count++
	}

	if err := writer.Close(); err != nil {
		return err
	}

	fmt.Printf("Wrote %d event(s) to %s\n", count, opts.Output)
	return nil
}
