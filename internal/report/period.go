package report

import (
	"errors"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidRange = errors.New("invalid date range")

type Preset string

const (
	PresetToday  Preset = "today"
	PresetLast7  Preset = "7d"
	PresetLast30 Preset = "30d"
	PresetMonth  Preset = "month"
)

// Presets lists the quick-select ranges in display order.
var Presets = []Preset{PresetToday, PresetLast7, PresetLast30, PresetMonth}

func (p Preset) Label() string {
	switch p {
	case PresetToday:
		return "Today"
	case PresetLast7:
		return "Last 7 days"
	case PresetLast30:
		return "Last 30 days"
	case PresetMonth:
		return "This month"
	}
	return string(p)
}

// Range is an inclusive span of whole UTC days.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) StartParam() string {
	return r.Start.Format(DateLayout)
}

func (r Range) EndParam() string {
	return r.End.Format(DateLayout)
}

// Days counts the days in the range, both ends included.
func (r Range) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PresetRange resolves p against now. Unknown presets resolve to today.
func PresetRange(p Preset, now time.Time) Range {
	today := day(now)
	switch p {
	case PresetLast7:
		return Range{Start: today.AddDate(0, 0, -6), End: today}
	case PresetLast30:
		return Range{Start: today.AddDate(0, 0, -29), End: today}
	case PresetMonth:
		return Range{Start: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), End: today}
	}
	return Range{Start: today, End: today}
}

func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidRange
	}
	return t, nil
}

// ParseRange reads a start/end pair of YYYY-MM-DD dates. A missing end means
// the same day as start.
func ParseRange(start string, end string) (Range, error) {
	from, err := ParseDate(start)
	if err != nil {
		return Range{}, ErrInvalidRange
	}
	to := from
	if strings.TrimSpace(end) != "" {
		if to, err = ParseDate(end); err != nil {
			return Range{}, ErrInvalidRange
		}
	}
	if from.After(to) {
		return Range{}, ErrInvalidRange
	}
	return Range{Start: from, End: to}, nil
}

// ResolveRange picks the range for a report page: an explicit preset wins,
// then explicit dates, then fallback.
func ResolveRange(preset string, start string, end string, fallback Preset, now time.Time) (Range, error) {
	if p := Preset(strings.TrimSpace(preset)); p != "" {
		for _, known := range Presets {
			if p == known {
				return PresetRange(p, now), nil
			}
		}
		return Range{}, ErrInvalidRange
	}
	if strings.TrimSpace(start) == "" && strings.TrimSpace(end) == "" {
		return PresetRange(fallback, now), nil
	}
	return ParseRange(start, end)
}
