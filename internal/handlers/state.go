package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"biostack/internal/engine"
	applog "biostack/internal/log"
)

// State reports the current biological state: active compounds, exclusion
// zones, optimization opportunities, and the bio-score.
func State(w http.ResponseWriter, r *http.Request) {
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

	opts := engine.StateOptions{
		Timezone:           r.URL.Query().Get("tz"),
		UserGoals:          splitCSV(r.URL.Query().Get("goals")),
		DismissedKeys:      splitCSV(r.URL.Query().Get("dismissed")),
		ShowAddSuggestions: parseBoolParam(r.URL.Query().Get("show_add"), true),
	}

	// Account defaults fill in whatever the query string leaves blank.
	if opts.Timezone == "" || opts.UserGoals == nil {
		user, err := dataStore.UserByID(r.Context(), userID)
		if err == nil {
			if opts.Timezone == "" {
				opts.Timezone = user.Timezone
			}
			if opts.UserGoals == nil {
				opts.UserGoals = user.GoalTags()
			}
		}
	}

	state, err := stateService.BiologicalState(r.Context(), userID, opts)
	if err != nil {
		applog.Error(r.Context(), "failed to compute biological state", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to compute biological state")
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseBoolParam(value string, def bool) bool {
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}
