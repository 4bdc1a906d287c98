package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vaultbond/vaultbond/internal/domain"
	"github.com/vaultbond/vaultbond/internal/trade"
)

// TradeInfoReader resolves on-chain trade metadata by numeric trade id.
type TradeInfoReader interface {
	GetTradeInfo(ctx context.Context, tradeID uint64) (domain.TradeInfo, error)
}

// TradeHandler serves trade submission and trade history endpoints.
type TradeHandler struct {
	sessions *trade.Manager
	reader   TradeInfoReader
	trades   domain.TradeStore // optional
	logger   *slog.Logger
}

// NewTradeHandler creates a TradeHandler. trades may be nil, in which case
// the history endpoint returns 404.
func NewTradeHandler(sessions *trade.Manager, reader TradeInfoReader, trades domain.TradeStore, logger *slog.Logger) *TradeHandler {
	return &TradeHandler{
		sessions: sessions,
		reader:   reader,
		trades:   trades,
		logger:   logHandler(logger, "trade"),
	}
}

// submitRequest is the POST /api/trades body.
type submitRequest struct {
	SessionID string `json:"session_id"`
	Wallet    string `json:"wallet"`
	BondID    string `json:"bond_id"`
	Direction string `json:"direction"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// submitResponse is the POST /api/trades response on completion.
type submitResponse struct {
	SessionID string `json:"session_id"`
	Succeeded bool   `json:"succeeded"`
	TradeID   uint64 `json:"trade_id,omitempty"`
	TxHash    string `json:"tx_hash,omitempty"`
	Failure   string `json:"failure,omitempty"`
	Message   string `json:"message,omitempty"`
}

// SubmitTrade validates, builds, and submits one trade. A second submit on a
// session that is already in flight gets 409.
// POST /api/trades
func (h *TradeHandler) SubmitTrade(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	intent := domain.TradeIntent{
		BondID:    req.BondID,
		Direction: domain.Direction(req.Direction),
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	}
	wallet := domain.WalletState{Address: req.Wallet}

	session := h.sessions.Session(req.SessionID)
	outcome, err := session.Submit(r.Context(), intent, wallet)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSubmissionInFlight):
			writeError(w, http.StatusConflict, "a submission is already in flight")
		case errors.Is(err, domain.ErrInvalidQuantity),
			errors.Is(err, domain.ErrMalformedBondID):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrWalletNotConnected):
			writeError(w, http.StatusUnauthorized, err.Error())
		default:
			h.logger.ErrorContext(r.Context(), "submit failed",
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "submission failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		SessionID: session.ID(),
		Succeeded: outcome.Succeeded,
		TradeID:   outcome.Receipt.TradeID,
		TxHash:    outcome.Receipt.TxHash,
		Failure:   string(outcome.Failure),
		Message:   outcome.Message,
	})
}

// CloseSession detaches a trade session. An in-flight submission keeps
// running; its outcome still reaches the store and the signal bus.
// DELETE /api/sessions/{id}
func (h *TradeHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Close(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// GetTradeInfo reads the on-chain record for one trade id. Encrypted fields
// come back masked; that is the contract's answer, not a decryption.
// GET /api/trades/{id}
func (h *TradeHandler) GetTradeInfo(w http.ResponseWriter, r *http.Request) {
	tradeID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid trade id")
		return
	}

	info, err := h.reader.GetTradeInfo(r.Context(), tradeID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "trade info read failed",
			slog.Uint64("trade_id", tradeID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "trade info unavailable")
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// ListHistory returns persisted submission attempts for a wallet.
// GET /api/trades?wallet=0x...
func (h *TradeHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	if h.trades == nil {
		writeError(w, http.StatusNotFound, "trade history not configured")
		return
	}

	wallet := r.URL.Query().Get("wallet")
	if wallet == "" {
		writeError(w, http.StatusBadRequest, "wallet query parameter is required")
		return
	}

	recs, err := h.trades.ListByWallet(r.Context(), wallet, parseListOpts(r))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "history list failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list trades")
		return
	}
	if recs == nil {
		recs = []domain.TradeRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"trades": recs,
		"count":  len(recs),
	})
}
