// Package http provides the inbound HTTP adapter for the collateral service.
//
// Endpoints:
//   - GET /collateral-types: full collection for the configured network;
//     ?includeDelegationDisabled=true disables the default delegation filter
//   - GET /collateral-types/{symbol}: single record by case-insensitive symbol
//   - GET /health: health check for liveness/readiness probes
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Synthetixio/v3-data/internal/ports/inbound"
	"github.com/Synthetixio/v3-data/internal/services/collateral"
)

// Handler implements HTTP handlers for the API.
type Handler struct {
	service inbound.CollateralReader
	logger  *slog.Logger
}

// NewHandler creates a new HTTP handler with the given service.
func NewHandler(service inbound.CollateralReader, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger.With("component", "http-handler"),
	}
}

// RegisterRoutes registers the HTTP routes with the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /collateral-types", h.CollateralTypes)
	mux.HandleFunc("GET /collateral-types/{symbol}", h.CollateralType)
	mux.HandleFunc("GET /health", h.Health)
}

// CollateralTypes handles the collection endpoint.
func (h *Handler) CollateralTypes(w http.ResponseWriter, r *http.Request) {
	includeDelegationDisabled := r.URL.Query().Get("includeDelegationDisabled") == "true"

	collateralTypes, err := h.service.CollateralTypes(r.Context(), includeDelegationDisabled)
	if err != nil {
		h.logger.Error("failed to load collateral types", "error", err)
		h.respondError(w, http.StatusBadGateway, "failed to load collateral types")
		return
	}

	h.respondJSON(w, http.StatusOK, collateralTypes)
}

// CollateralType handles the single-record endpoint.
func (h *Handler) CollateralType(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")

	collateralType, err := h.service.CollateralType(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, collateral.ErrCollateralNotFound) {
			h.respondError(w, http.StatusNotFound, "collateral type not found")
			return
		}
		h.logger.Error("failed to load collateral type", "symbol", symbol, "error", err)
		h.respondError(w, http.StatusBadGateway, "failed to load collateral type")
		return
	}

	h.respondJSON(w, http.StatusOK, collateralType)
}

// Health handles the health check endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.respondError(w, http.StatusServiceUnavailable, "service unhealthy")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
