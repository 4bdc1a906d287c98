package trade

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/vaultbond/vaultbond/internal/domain"
	"github.com/vaultbond/vaultbond/internal/enc"
	"github.com/vaultbond/vaultbond/internal/pricing"
)

// BuildSubmission turns a validated intent into the wire-ready form the
// contract expects. The caller is responsible for running ValidateIntent
// first; malformed bond identifiers and sealing failures still fail here.
func BuildSubmission(intent domain.TradeIntent, wallet domain.WalletState, backend enc.Backend) (domain.TradeSubmission, error) {
	index, err := domain.ParseBondIndex(intent.BondID)
	if err != nil {
		return domain.TradeSubmission{}, fmt.Errorf("trade: build: %w", err)
	}

	quantity := uint64(pricing.ParseAmount(intent.Quantity))
	unitPrice := pricing.ParseAmount(intent.UnitPrice)
	total := pricing.TotalValue(intent.Quantity, intent.UnitPrice)

	art, err := backend.Seal(quantity, unitPrice, intent.Direction == domain.DirectionBuy, wallet.Address)
	if err != nil {
		return domain.TradeSubmission{}, fmt.Errorf("trade: seal: %w", domain.ErrEncryptionFailed)
	}

	sub := domain.TradeSubmission{
		AttemptID:       uuid.New().String(),
		BondIndex:       index,
		EncryptedAmount: art.Amount,
		EncryptedPrice:  art.Price,
		Proof:           art.Proof,
		Wallet:          wallet.Address,
		TotalValue:      total,
	}

	// A buy pays the contract up front; a sell is settled by the contract
	// crediting the seller. The branch is explicit so the asymmetry can
	// never fall through to a wrong default.
	if intent.Direction == domain.DirectionBuy {
		sub.IsBuy = true
		sub.Value = pricing.NativeValue(total)
	} else {
		sub.IsBuy = false
		sub.Value = big.NewInt(0)
	}

	return sub, nil
}
