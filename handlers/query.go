package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/livescores-dashboard/services"
)

// Query parameters understood by the page and the JSON API.
const (
	paramSport    = "sport"
	paramStart    = "start"
	paramEnd      = "end"
	paramHourFrom = "hour_from"
	paramHourTo   = "hour_to"
	paramSearch   = "q"
)

// parseFilterInput reads the sidebar state from the query string. A date key
// that is present but empty clears that end of the range.
func parseFilterInput(r *http.Request) (services.FilterInput, error) {
	q := r.URL.Query()

	input := services.FilterInput{
		Sport:  q.Get(paramSport),
		Search: q.Get(paramSearch),
	}
	if q.Has(paramStart) {
		v := q.Get(paramStart)
		input.Start = &v
	}
	if q.Has(paramEnd) {
		v := q.Get(paramEnd)
		input.End = &v
	}

	var err error
	if input.HourFrom, err = parseHour(q.Get(paramHourFrom), paramHourFrom); err != nil {
		return services.FilterInput{}, err
	}
	if input.HourTo, err = parseHour(q.Get(paramHourTo), paramHourTo); err != nil {
		return services.FilterInput{}, err
	}
	return input, nil
}

func parseHour(raw, name string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	hour, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer hour, got %q", services.ErrValidationFailed, name, raw)
	}
	return &hour, nil
}
