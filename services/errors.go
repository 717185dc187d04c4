package services

import "errors"

// Ошибки сервисного слоя, используемые в маппинге HTTP.
var (
	// Ошибки валидации параметров фильтра
	ErrValidationFailed    = errors.New("validation failed")
	ErrDateRangeIncomplete = errors.New("date range requires both a start and an end date")
	ErrInvalidHourRange    = errors.New("hour range must satisfy 0 <= from <= to <= 23")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")

	// Ошибки прогона
	ErrLoadFailed   = errors.New("failed to load live scores")
	ErrRenderFailed = errors.New("failed to render dashboard")
)
