package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/livescores-dashboard/models"
)

const (
	MinHour = 0
	MaxHour = 23
)

// FilterParams are the sidebar values of one interaction.
type FilterParams struct {
	// Sport is compared case-insensitively. Empty selects the first sport
	// present in the loaded table.
	Sport string
	// Dates holds the date-range picker output: none disables the date
	// filter, two give the inclusive range, anything else is invalid.
	Dates    []time.Time
	HourFrom int
	HourTo   int
	Search   string
}

// DefaultFilterParams returns the initial widget values.
func DefaultFilterParams(start, end time.Time) FilterParams {
	return FilterParams{
		Dates:    []time.Time{start, end},
		HourFrom: MinHour,
		HourTo:   MaxHour,
	}
}

func (p FilterParams) Validate() error {
	if n := len(p.Dates); n != 0 && n != 2 {
		return fmt.Errorf("%w: got %d date(s)", ErrDateRangeIncomplete, n)
	}
	if p.HourFrom < MinHour || p.HourTo > MaxHour || p.HourFrom > p.HourTo {
		return fmt.Errorf("%w: got %d-%d", ErrInvalidHourRange, p.HourFrom, p.HourTo)
	}
	return nil
}

// ApplyFilters narrows records by sport, date range, hour range and free-text
// search, in that order. Rows keep their input order. Rows without an event
// time never pass the hour filter, which always runs.
func ApplyFilters(records []models.ScoreRecord, p FilterParams) ([]models.ScoreRecord, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	sport := strings.ToLower(p.Sport)
	search := strings.ToLower(p.Search)

	var start, end time.Time
	if len(p.Dates) == 2 {
		start, end = dateOnly(p.Dates[0]), dateOnly(p.Dates[1])
	}

	result := make([]models.ScoreRecord, 0, len(records))
	for _, r := range records {
		if strings.ToLower(r.Sport) != sport {
			continue
		}
		if len(p.Dates) == 2 {
			d := dateOnly(r.EventDate)
			if d.Before(start) || d.After(end) {
				continue
			}
		}
		if r.EventTime == nil || r.EventTime.Hour < p.HourFrom || r.EventTime.Hour > p.HourTo {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.SearchText()), search) {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

// DistinctSports returns sport names in order of first appearance.
func DistinctSports(records []models.ScoreRecord) []string {
	seen := make(map[string]struct{})
	sports := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Sport]; ok {
			continue
		}
		seen[r.Sport] = struct{}{}
		sports = append(sports, r.Sport)
	}
	return sports
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
