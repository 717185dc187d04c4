package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/livescores-dashboard/models"
)

// FilterInput is the raw widget state sent by a browser, either as query
// parameters or as a websocket message.
type FilterInput struct {
	Sport string `json:"sport"`
	// Start and End are YYYY-MM-DD. Both nil means the widget was never
	// touched and the default range applies; empty strings clear the range.
	Start    *string `json:"start"`
	End      *string `json:"end"`
	HourFrom *int    `json:"hour_from"`
	HourTo   *int    `json:"hour_to"`
	Search   string  `json:"search"`
}

// Params converts the raw input into filter parameters. A single supplied
// date is kept as is and rejected later by Validate.
func (in FilterInput) Params(defaultStart, defaultEnd time.Time) (FilterParams, error) {
	params := FilterParams{
		Sport:    strings.TrimSpace(in.Sport),
		HourFrom: MinHour,
		HourTo:   MaxHour,
		Search:   in.Search,
	}
	if in.HourFrom != nil {
		params.HourFrom = *in.HourFrom
	}
	if in.HourTo != nil {
		params.HourTo = *in.HourTo
	}

	if in.Start == nil && in.End == nil {
		params.Dates = []time.Time{defaultStart, defaultEnd}
		return params, nil
	}

	for _, raw := range []*string{in.Start, in.End} {
		if raw == nil || strings.TrimSpace(*raw) == "" {
			continue
		}
		d, err := time.Parse(models.DateLayout, strings.TrimSpace(*raw))
		if err != nil {
			return FilterParams{}, fmt.Errorf("%w: %q", ErrInvalidDate, *raw)
		}
		params.Dates = append(params.Dates, d)
	}
	return params, nil
}
