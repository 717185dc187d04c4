package repositories

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/livescores-dashboard/models"
)

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006/01/02",
}

var clockLayouts = []string{
	time.TimeOnly,
	"15:04",
	"15:04:05Z07:00",
	"15:04:05-07",
	"15:04Z07:00",
}

// coerceDate converts a dateevent value. Any failure is fatal for the load.
func coerceDate(v any) (time.Time, error) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("value is NULL")
	case time.Time:
		return truncateToDate(val), nil
	case []byte:
		return parseDateString(string(val))
	case string:
		return parseDateString(val)
	default:
		return time.Time{}, fmt.Errorf("unsupported type %T", v)
	}
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateToDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date", s)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// coerceTimeOfDay converts a streventtime value; anything unparseable becomes nil.
func coerceTimeOfDay(v any) *models.TimeOfDay {
	var s string
	switch val := v.(type) {
	case time.Time:
		return clockOf(val)
	case []byte:
		s = string(val)
	case string:
		s = val
	default:
		return nil
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return clockOf(t)
		}
	}
	for _, layout := range dateLayouts[1:] {
		if t, err := time.Parse(layout, s); err == nil {
			return clockOf(t)
		}
	}
	return nil
}

func clockOf(t time.Time) *models.TimeOfDay {
	return &models.TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// coerceTimestamp converts the updated column; unparseable values become nil.
func coerceTimestamp(v any) *time.Time {
	var s string
	switch val := v.(type) {
	case time.Time:
		return &val
	case []byte:
		s = string(val)
	case string:
		s = val
	default:
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts[1:] {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func coerceInt(v any) *int {
	var n int
	switch val := v.(type) {
	case int64:
		n = int(val)
	case int32:
		n = int(val)
	case int:
		n = val
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		n = int(val)
	case []byte:
		return parseIntString(string(val))
	case string:
		return parseIntString(val)
	default:
		return nil
	}
	return &n
}

func parseIntString(s string) *int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		n := int(f)
		return &n
	}
	return nil
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}
