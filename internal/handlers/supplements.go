package handlers

import (
	"net/http"

	applog "biostack/internal/log"
)

// Supplements lists the supplement catalog.
func Supplements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if dataStore == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	if _, ok := currentUserID(r); !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	profiles, err := dataStore.AllProfiles(r.Context())
	if err != nil {
		applog.Error(r.Context(), "failed to list supplements", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load supplement catalog")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"supplements": profiles})
}
