package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mfarghaly/egx_dashboard_api/internal/allocation"
	"github.com/mfarghaly/egx_dashboard_api/internal/service"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed encoding response", slog.String("err", err.Error()))
	}
}

// respondError maps typed service and validation errors onto status codes:
// validation failures are 400, missing resources 404, a held rebalance
// lock 409, everything else 500 with a generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	rqID := utils.GetRequestIDFromCtx(r.Context())

	switch {
	case isValidationError(err):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, service.ErrRebalanceInProgress):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrRebalanceNotExecuted), errors.Is(err, service.ErrRebalanceAlreadyUndone):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", slog.String("rqID", rqID), slog.String("path", r.URL.Path), slog.String("err", err.Error()))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func isValidationError(err error) bool {
	var portfolioMismatch *allocation.PortfolioMismatchError
	var stockMismatch *allocation.StockMismatchError
	return errors.Is(err, allocation.ErrEmptyAllocation) ||
		errors.Is(err, allocation.ErrInvalidFunds) ||
		errors.As(err, &portfolioMismatch) ||
		errors.As(err, &stockMismatch)
}

func badRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// parseIDList parses a comma separated ids query param into int64s.
func parseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
