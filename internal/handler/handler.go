package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/lifebeyond/planner-api/internal/models"
	"github.com/lifebeyond/planner-api/internal/service"
)

// KeyRateSource provides the current central-bank key rate.
type KeyRateSource interface {
	GetKeyRate() (float64, error)
}

type Handler struct {
	svc   *service.Service
	rates KeyRateSource
	log   *logrus.Logger
}

func NewHandler(svc *service.Service, rates KeyRateSource, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, rates: rates, log: log}
}

// Root reports service liveness.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Financial Planning Simulator API is running",
	})
}

// ForecastCashFlow handles POST /forecast-cash-flow/.
func (h *Handler) ForecastCashFlow(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, models.NewValidationError("invalid request body", map[string]any{
			"error": err.Error(),
		}))
		return
	}

	resp, err := h.svc.ForecastCashFlow(&req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Simulate handles POST /simulate. Absent fields keep their documented
// defaults.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	// Decoding into a prefilled map would merge a partial allocation with
	// the default weights, so the default is only applied when the field is
	// absent from the request.
	userData := models.DefaultUserData()
	userData.AssetAllocation = nil
	if err := json.NewDecoder(r.Body).Decode(&userData); err != nil {
		h.writeError(w, models.NewValidationError("invalid request body", map[string]any{
			"error": err.Error(),
		}))
		return
	}
	if userData.AssetAllocation == nil {
		userData.AssetAllocation = models.EqualWeightAllocation()
	}

	result, err := h.svc.Simulate(&userData)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// KeyRate handles GET /key-rate.
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.rates.GetKeyRate()
	if err != nil {
		h.log.Errorf("key rate lookup failed: %v", err)
		h.writeError(w, models.NewUpstreamError("failed to retrieve key rate", map[string]any{
			"error": err.Error(),
		}))
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"key_rate": rate})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		h.log.Errorf("unhandled error: %v", err)
		apiErr = &models.APIError{
			Status:  http.StatusInternalServerError,
			Code:    "INTERNAL_SERVER_ERROR",
			Message: "An unexpected error occurred",
		}
	}
	writeJSON(w, apiErr.Status, apiErr.Response())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
