package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	applog "biostack/internal/log"
	"biostack/models"
)

type intakeLogRequest struct {
	SupplementID uuid.UUID  `json:"supplement_id"`
	Dosage       float64    `json:"dosage"`
	Unit         string     `json:"unit"`
	LoggedAt     *time.Time `json:"logged_at,omitempty"`
}

// IntakeLogs appends a dose on POST and lists the recent history on GET.
func IntakeLogs(w http.ResponseWriter, r *http.Request) {
	if stateService == nil || dataStore == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	switch r.Method {
	case http.MethodPost:
		appendIntakeLog(w, r, userID)
	case http.MethodGet:
		listIntakeLogs(w, r, userID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func appendIntakeLog(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req intakeLogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.SupplementID == uuid.Nil {
		writeJSONError(w, http.StatusBadRequest, "supplement_id is required")
		return
	}
	if req.Dosage <= 0 || math.IsNaN(req.Dosage) || math.IsInf(req.Dosage, 0) {
		writeJSONError(w, http.StatusBadRequest, "dosage must be a positive finite number")
		return
	}
	if !models.ValidUnit(req.Unit) {
		writeJSONError(w, http.StatusBadRequest, "unknown unit")
		return
	}

	if _, err := dataStore.ProfileByID(r.Context(), req.SupplementID); err != nil {
		writeJSONError(w, http.StatusNotFound, "supplement not found")
		return
	}

	loggedAt := time.Now().UTC()
	if req.LoggedAt != nil {
		loggedAt = req.LoggedAt.UTC()
	}

	entry := &models.IntakeLog{
		UserID:       userID,
		SupplementID: req.SupplementID,
		Dosage:       req.Dosage,
		Unit:         req.Unit,
		LoggedAt:     loggedAt,
	}
	if err := dataStore.AppendLog(r.Context(), entry); err != nil {
		applog.Error(r.Context(), "failed to append intake log", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to record dose")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func listIntakeLogs(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	end := time.Now().UTC()
	start := end.Add(-7 * 24 * time.Hour)

	logs, err := dataStore.Logs(r.Context(), userID, start, end)
	if err != nil {
		applog.Error(r.Context(), "failed to list intake logs", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load intake history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}
