package handlers

import (
	"net/http"
	"strconv"

	"biostack/internal/engine"
	applog "biostack/internal/log"
)

// Timeline returns the sampled concentration timeline for the session user.
func Timeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if stateService == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	interval := parseIntParam(r.URL.Query().Get("interval_minutes"), engine.DefaultIntervalMinutes)
	window := parseIntParam(r.URL.Query().Get("window_hours"), engine.DefaultWindowHours)
	if interval < 1 || interval > 120 {
		writeJSONError(w, http.StatusBadRequest, "interval_minutes must be between 1 and 120")
		return
	}
	if window < 1 || window > 72 {
		writeJSONError(w, http.StatusBadRequest, "window_hours must be between 1 and 72")
		return
	}

	points, err := stateService.TimelineData(r.Context(), userID, interval, window)
	if err != nil {
		applog.Error(r.Context(), "failed to build timeline", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to build timeline")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

func parseIntParam(value string, def int) int {
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
