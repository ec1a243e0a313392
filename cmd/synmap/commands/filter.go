package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/synmap/synmap-go/pkg/log"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output     string
	SessionID  string
	Device     string
	PathPrefix string
	TimeStart  string
	TimeEnd    string
	Layer      string
	Direction  string
	Category   string
}

// Accepted -time-start and -time-end layouts. Layouts without a zone are
// read as local time.
var filterTimeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

func parseFilterTime(flag, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	for _, layout := range filterTimeLayouts {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid %s %q (use RFC3339 or 2006-01-02 15:04:05)", flag, v)
}

// optional parses a non-empty flag value with parse.
func optional[T any](v string, parse func(string) (T, error)) (*T, error) {
	if v == "" {
		return nil, nil
	}
	t, err := parse(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// BuildFilter converts flag strings into a log.Filter.
func BuildFilter(opts FilterOptions) (log.Filter, error) {
	filter := log.Filter{
		SessionID:  opts.SessionID,
		Device:     opts.Device,
		PathPrefix: strings.TrimPrefix(opts.PathPrefix, "/"),
	}

	var err error
	if filter.TimeStart, err = parseFilterTime("time-start", opts.TimeStart); err != nil {
		return filter, err
	}
	if filter.TimeEnd, err = parseFilterTime("time-end", opts.TimeEnd); err != nil {
		return filter, err
	}
	if filter.TimeStart != nil && filter.TimeEnd != nil && filter.TimeEnd.Before(*filter.TimeStart) {
		return filter, fmt.Errorf("time-end %s is before time-start %s", opts.TimeEnd, opts.TimeStart)
	}

	if filter.Layer, err = optional(opts.Layer, ParseLayerFlag); err != nil {
		return filter, err
	}
	if filter.Direction, err = optional(opts.Direction, ParseDirectionFlag); err != nil {
		return filter, err
	}
	if filter.Category, err = optional(opts.Category, ParseCategoryFlag); err != nil {
		return filter, err
	}
	return filter, nil
}

// RunFilter filters the log file and writes matching events to a new file.
func RunFilter(path string, opts FilterOptions, w io.Writer) error {
	if same, _ := samePath(path, opts.Output); same {
		return fmt.Errorf("output %s would overwrite the input log", opts.Output)
	}
	filter, err := BuildFilter(opts)
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		logger.Log(event)
		count++
	}

	if err := logger.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.Output, err)
	}
	fmt.Fprintf(w, "Filtered %d events to %s\n", count, opts.Output)
	return nil
}

func samePath(a, b string) (bool, error) {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true, nil
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(ai, bi), nil
}
