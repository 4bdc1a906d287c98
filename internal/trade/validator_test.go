package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vaultbond/vaultbond/internal/domain"
)

func TestValidateIntent(t *testing.T) {
	connected := domain.WalletState{Address: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"}
	disconnected := domain.WalletState{}

	intent := func(qty string) domain.TradeIntent {
		return domain.TradeIntent{BondID: "BOND-001", Direction: domain.DirectionBuy, Quantity: qty, UnitPrice: "98.45"}
	}

	tests := []struct {
		name   string
		intent domain.TradeIntent
		wallet domain.WalletState
		want   ValidationResult
	}{
		{"valid", intent("50"), connected, Valid},
		{"empty quantity", intent(""), connected, InvalidQuantity},
		{"zero quantity", intent("0"), connected, InvalidQuantity},
		{"negative quantity", intent("-5"), connected, InvalidQuantity},
		{"non-numeric quantity", intent("fifty"), connected, InvalidQuantity},
		{"no wallet", intent("50"), disconnected, WalletNotConnected},
		// Quantity feedback wins when both are wrong.
		{"bad quantity and no wallet", intent(""), disconnected, InvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateIntent(tt.intent, tt.wallet))
		})
	}
}

func TestValidationResultErr(t *testing.T) {
	assert.NoError(t, Valid.Err())
	assert.ErrorIs(t, InvalidQuantity.Err(), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, WalletNotConnected.Err(), domain.ErrWalletNotConnected)
}
