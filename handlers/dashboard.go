package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Dosada05/livescores-dashboard/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
	defaultStart     time.Time
	defaultEnd       time.Time
}

func NewDashboardHandler(s services.DashboardService, defaultStart, defaultEnd time.Time) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: s,
		defaultStart:     defaultStart,
		defaultEnd:       defaultEnd,
	}
}

func (h *DashboardHandler) filterParams(r *http.Request) (services.FilterParams, error) {
	input, err := parseFilterInput(r)
	if err != nil {
		return services.FilterParams{}, err
	}
	return input.Params(h.defaultStart, h.defaultEnd)
}

// Page renders the full dashboard. Every request is a fresh load.
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	params, err := h.filterParams(r)
	if err != nil {
		errorPage(w, r, serviceErrorStatus(err), err.Error())
		return
	}

	dash, err := h.dashboardService.Render(r.Context(), params)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		status := serviceErrorStatus(err)
		message := err.Error()
		if status != http.StatusBadRequest {
			serverErrorLog(r, err)
			message = "live scores could not be loaded, try again shortly"
		}
		errorPage(w, r, status, message)
		return
	}

	if err := renderHTML(w, http.StatusOK, "dashboard", newPageView(dash)); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Scores returns the same dashboard as JSON.
func (h *DashboardHandler) Scores(w http.ResponseWriter, r *http.Request) {
	params, err := h.filterParams(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dash, err := h.dashboardService.Render(r.Context(), params)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"dashboard": dash}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DashboardHandler) Sports(w http.ResponseWriter, r *http.Request) {
	sports, err := h.dashboardService.Sports(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"sports": sports}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
