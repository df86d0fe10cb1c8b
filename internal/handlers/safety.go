package handlers

import (
	"math"
	"net/http"

	"github.com/google/uuid"

	"biostack/internal/engine"
	applog "biostack/internal/log"
	"biostack/internal/safety"
	"biostack/models"
)

type safetyCheckRequest struct {
	SupplementID uuid.UUID `json:"supplement_id"`
	Dosage       float64   `json:"dosage"`
	Unit         string    `json:"unit"`
	Timezone     string    `json:"timezone,omitempty"`
	MealContext  string    `json:"meal_context,omitempty"`
}

type safetyCheckResponse struct {
	Result     *safety.CheckResult `json:"result"`
	MealAdvice *safety.MealAdvice  `json:"meal_advice,omitempty"`
}

type stackCheckRequest struct {
	Items    []engine.StackRequestItem `json:"items"`
	Timezone string                    `json:"timezone,omitempty"`
}

// SafetyCheck evaluates a single pending dose against the safety limits.
func SafetyCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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

	var req safetyCheckRequest
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

	result, err := stateService.CheckSafety(r.Context(), userID, req.SupplementID, req.Dosage, req.Unit, req.Timezone)
	if err != nil {
		applog.Error(r.Context(), "safety check failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to run safety check")
		return
	}

	resp := safetyCheckResponse{Result: result}
	if req.MealContext != "" {
		advice, err := stateService.MealAdvice(r.Context(), req.SupplementID, req.MealContext)
		if err == nil {
			resp.MealAdvice = advice
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// StackSafety evaluates a set of pending doses together, reporting the worst
// violation across the stack.
func StackSafety(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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

	var req stackCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if len(req.Items) == 0 {
		writeJSONError(w, http.StatusBadRequest, "items must not be empty")
		return
	}
	for _, item := range req.Items {
		if item.SupplementID == uuid.Nil {
			writeJSONError(w, http.StatusBadRequest, "every item needs a supplement_id")
			return
		}
		if item.Dosage <= 0 || math.IsNaN(item.Dosage) || math.IsInf(item.Dosage, 0) {
			writeJSONError(w, http.StatusBadRequest, "every dosage must be a positive finite number")
			return
		}
		if !models.ValidUnit(item.Unit) {
			writeJSONError(w, http.StatusBadRequest, "unknown unit in stack")
			return
		}
	}

	result, err := stateService.CheckStackSafety(r.Context(), userID, req.Items, req.Timezone)
	if err != nil {
		applog.Error(r.Context(), "stack safety check failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to run stack check")
		return
	}

	writeJSON(w, http.StatusOK, safetyCheckResponse{Result: result})
}

// SafetyHeadroom reports remaining capacity per limited category.
func SafetyHeadroom(w http.ResponseWriter, r *http.Request) {
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

	summaries, err := stateService.SafetyHeadroom(r.Context(), userID, r.URL.Query().Get("tz"))
	if err != nil {
		applog.Error(r.Context(), "headroom computation failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to compute headroom")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": summaries})
}
