package handler

import (
	"log/slog"
	"net/http"

	"github.com/vaultbond/vaultbond/internal/domain"
	"github.com/vaultbond/vaultbond/internal/readmodel"
)

// PortfolioHandler serves the per-wallet holdings snapshot.
type PortfolioHandler struct {
	adapter *readmodel.PortfolioAdapter
	logger  *slog.Logger
}

// NewPortfolioHandler creates a PortfolioHandler.
func NewPortfolioHandler(adapter *readmodel.PortfolioAdapter, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		adapter: adapter,
		logger:  logHandler(logger, "portfolio"),
	}
}

// GetPortfolio returns the holdings snapshot for the wallet named in the
// query string. No wallet means a disconnected snapshot, not an error, and
// no contract read is issued.
// GET /api/portfolio?wallet=0x...
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	wallet := domain.WalletState{Address: r.URL.Query().Get("wallet")}
	snap := h.adapter.Load(r.Context(), wallet)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": string(snap.Status),
		"data":   snap.Data,
	})
}
