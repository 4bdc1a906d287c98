package handler

import (
	"log/slog"
	"net/http"

	"github.com/vaultbond/vaultbond/internal/readmodel"
)

// MarketHandler serves the aggregate market snapshot.
type MarketHandler struct {
	adapter *readmodel.MarketStatsAdapter
	logger  *slog.Logger
}

// NewMarketHandler creates a MarketHandler.
func NewMarketHandler(adapter *readmodel.MarketStatsAdapter, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{
		adapter: adapter,
		logger:  logHandler(logger, "market"),
	}
}

// GetStats returns the market snapshot. A failed contract read still answers
// 200 with the fallback data and a degraded status.
// GET /api/market/stats
func (h *MarketHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	snap := h.adapter.Load(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"status": string(snap.Status),
		"data":   snap.Data,
	})
}
