package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vaultbond/vaultbond/internal/chain"
	"github.com/vaultbond/vaultbond/internal/domain"
	"github.com/vaultbond/vaultbond/internal/enc"
)

// IssuerWriter is the state-changing contract surface the issuer endpoints
// need.
type IssuerWriter interface {
	CreateBond(ctx context.Context, p chain.CreateBondParams) (string, error)
	UpdateBondPrice(ctx context.Context, index uint64, newPrice domain.Ciphertext, proof domain.Proof) (string, error)
	DeactivateBond(ctx context.Context, index uint64) (string, error)
	VerifyBond(ctx context.Context, index uint64, verified bool) (string, error)
	UpdateReputation(ctx context.Context, user string, reputation domain.Ciphertext, isIssuer bool) (string, error)
	SignerAddress() string
}

// IssuerHandler serves the issuer-side bond management endpoints.
type IssuerHandler struct {
	writer  IssuerWriter
	backend enc.Backend
	logger  *slog.Logger
}

// NewIssuerHandler creates an IssuerHandler.
func NewIssuerHandler(writer IssuerWriter, backend enc.Backend, logger *slog.Logger) *IssuerHandler {
	return &IssuerHandler{
		writer:  writer,
		backend: backend,
		logger:  logHandler(logger, "issuer"),
	}
}

// createBondRequest is the POST /api/bonds body.
type createBondRequest struct {
	Issuer       string `json:"issuer"`
	Symbol       string `json:"symbol"`
	FaceValue    uint64 `json:"face_value"`
	CouponRate   uint64 `json:"coupon_rate"`
	MaturityDate uint64 `json:"maturity_date"`
	TotalSupply  uint64 `json:"total_supply"`
}

// CreateBond lists a new bond on the contract.
// POST /api/bonds
func (h *IssuerHandler) CreateBond(w http.ResponseWriter, r *http.Request) {
	var req createBondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Issuer == "" || req.Symbol == "" {
		writeError(w, http.StatusUnprocessableEntity, "issuer and symbol are required")
		return
	}

	txHash, err := h.writer.CreateBond(r.Context(), chain.CreateBondParams{
		Issuer:       req.Issuer,
		Symbol:       req.Symbol,
		FaceValue:    req.FaceValue,
		CouponRate:   req.CouponRate,
		MaturityDate: req.MaturityDate,
		TotalSupply:  req.TotalSupply,
	})
	if err != nil {
		h.writeTxError(w, r, "create bond", err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"tx_hash": txHash})
}

// updatePriceRequest is the POST /api/bonds/{id}/price body. The price is
// plaintext here; the encryption backend seals it before it leaves the
// process.
type updatePriceRequest struct {
	Price float64 `json:"price"`
}

// UpdatePrice submits a new sealed price for a bond.
// POST /api/bonds/{id}/price
func (h *IssuerHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	index, err := bondIndexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bond id")
		return
	}

	var req updatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Price <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "price must be positive")
		return
	}

	art, err := h.backend.Seal(0, req.Price, false, h.writer.SignerAddress())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "price seal failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "encryption failed")
		return
	}

	txHash, err := h.writer.UpdateBondPrice(r.Context(), index, art.Price, art.Proof)
	if err != nil {
		h.writeTxError(w, r, "update price", err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"tx_hash": txHash})
}

// verifyRequest is the POST /api/bonds/{id}/verify body.
type verifyRequest struct {
	Verified bool `json:"verified"`
}

// VerifyBond sets a bond's verification flag.
// POST /api/bonds/{id}/verify
func (h *IssuerHandler) VerifyBond(w http.ResponseWriter, r *http.Request) {
	index, err := bondIndexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bond id")
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txHash, err := h.writer.VerifyBond(r.Context(), index, req.Verified)
	if err != nil {
		h.writeTxError(w, r, "verify bond", err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"tx_hash": txHash})
}

// DeactivateBond delists a bond.
// DELETE /api/bonds/{id}
func (h *IssuerHandler) DeactivateBond(w http.ResponseWriter, r *http.Request) {
	index, err := bondIndexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bond id")
		return
	}

	txHash, err := h.writer.DeactivateBond(r.Context(), index)
	if err != nil {
		h.writeTxError(w, r, "deactivate bond", err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"tx_hash": txHash})
}

// updateReputationRequest is the POST /api/reputation body. The score is
// plaintext here and sealed before submission.
type updateReputationRequest struct {
	User       string `json:"user"`
	Reputation uint8  `json:"reputation"`
	IsIssuer   bool   `json:"is_issuer"`
}

// UpdateReputation submits a sealed reputation score for an issuer or trader.
// POST /api/reputation
func (h *IssuerHandler) UpdateReputation(w http.ResponseWriter, r *http.Request) {
	var req updateReputationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.User == "" {
		writeError(w, http.StatusUnprocessableEntity, "user is required")
		return
	}

	art, err := h.backend.Seal(uint64(req.Reputation), 0, false, req.User)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "reputation seal failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "encryption failed")
		return
	}

	txHash, err := h.writer.UpdateReputation(r.Context(), req.User, art.Amount, req.IsIssuer)
	if err != nil {
		h.writeTxError(w, r, "update reputation", err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"tx_hash": txHash})
}

// writeTxError maps chain errors onto HTTP statuses.
func (h *IssuerHandler) writeTxError(w http.ResponseWriter, r *http.Request, action string, err error) {
	h.logger.ErrorContext(r.Context(), action+" failed",
		slog.String("error", err.Error()),
	)
	switch {
	case errors.Is(err, domain.ErrTxRejected):
		writeError(w, http.StatusUnauthorized, action+" rejected by signer")
	case errors.Is(err, domain.ErrTxReverted):
		writeError(w, http.StatusUnprocessableEntity, action+" reverted by contract")
	default:
		writeError(w, http.StatusBadGateway, action+" failed")
	}
}
