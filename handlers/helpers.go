package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/livescores-dashboard/services" // Импортируем для маппинга ошибок сервисов
)

type jsonResponse map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	if err != nil {
		return err
	}

	return nil
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	err := writeJSON(w, status, env, nil)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorLog(r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal server error",
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	serverErrorLog(r, err)
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func serviceUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "live scores unavailable",
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	errorResponse(w, r, http.StatusServiceUnavailable, "live scores are temporarily unavailable")
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// serviceErrorStatus выбирает HTTP-статус для ошибки сервисного слоя.
func serviceErrorStatus(err error) int {
	switch {
	// Невалидные значения фильтров
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrDateRangeIncomplete),
		errors.Is(err, services.ErrInvalidHourRange),
		errors.Is(err, services.ErrInvalidDate):
		return http.StatusBadRequest

	// База недоступна или таблица не читается
	case errors.Is(err, services.ErrLoadFailed):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch serviceErrorStatus(err) {
	case http.StatusBadRequest:
		badRequestResponse(w, r, err)
	case http.StatusServiceUnavailable:
		serviceUnavailableResponse(w, r, err)
	default:
		serverErrorResponse(w, r, err)
	}
}
