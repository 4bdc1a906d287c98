package handler

import (
	"log/slog"
	"net/http"

	"github.com/vaultbond/vaultbond/internal/readmodel"
)

// BondHandler serves per-bond metadata snapshots.
type BondHandler struct {
	adapter *readmodel.BondInfoAdapter
	logger  *slog.Logger
}

// NewBondHandler creates a BondHandler.
func NewBondHandler(adapter *readmodel.BondInfoAdapter, logger *slog.Logger) *BondHandler {
	return &BondHandler{
		adapter: adapter,
		logger:  logHandler(logger, "bond"),
	}
}

// GetBond returns the metadata snapshot for one bond. The id accepts either
// the on-chain index or the listing identifier form.
// GET /api/bonds/{id}
func (h *BondHandler) GetBond(w http.ResponseWriter, r *http.Request) {
	index, err := bondIndexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bond id")
		return
	}

	snap := h.adapter.Load(r.Context(), index)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": string(snap.Status),
		"data":   snap.Data,
	})
}
