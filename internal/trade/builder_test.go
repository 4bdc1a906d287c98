package trade

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultbond/vaultbond/internal/domain"
	"github.com/vaultbond/vaultbond/internal/enc"
)

// stubBackend is a deterministic enc.Backend for tests.
type stubBackend struct {
	err error
}

func (s stubBackend) Seal(quantity uint64, unitPrice float64, isBuy bool, wallet string) (enc.Artifacts, error) {
	if s.err != nil {
		return enc.Artifacts{}, s.err
	}
	var art enc.Artifacts
	art.Amount[0] = byte(quantity)
	art.Price[0] = byte(int(unitPrice))
	if isBuy {
		art.Proof[0] = 1
	}
	return art, nil
}

var testWallet = domain.WalletState{Address: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"}

func TestBuildSubmissionBuy(t *testing.T) {
	intent := domain.TradeIntent{
		BondID:    "BOND-001",
		Direction: domain.DirectionBuy,
		Quantity:  "50",
		UnitPrice: "98.45",
	}

	sub, err := BuildSubmission(intent, testWallet, stubBackend{})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), sub.BondIndex)
	assert.True(t, sub.IsBuy)
	assert.InDelta(t, 49225.0, sub.TotalValue, 1e-9)

	// Buy attaches totalValue in smallest units: 49225 * 10^18, exactly.
	want, ok := new(big.Int).SetString("49225000000000000000000", 10)
	require.True(t, ok)
	assert.Zero(t, want.Cmp(sub.Value))

	assert.NotEmpty(t, sub.AttemptID)
	assert.Equal(t, testWallet.Address, sub.Wallet)
}

func TestBuildSubmissionSell(t *testing.T) {
	intent := domain.TradeIntent{
		BondID:    "BOND-001",
		Direction: domain.DirectionSell,
		Quantity:  "50",
		UnitPrice: "98.45",
	}

	sub, err := BuildSubmission(intent, testWallet, stubBackend{})
	require.NoError(t, err)

	assert.False(t, sub.IsBuy)
	assert.Zero(t, sub.Value.Sign(), "sell must attach exactly zero native value")
}

func TestBuildSubmissionValueIffBuy(t *testing.T) {
	for _, dir := range []domain.Direction{domain.DirectionBuy, domain.DirectionSell} {
		intent := domain.TradeIntent{BondID: "BOND-007", Direction: dir, Quantity: "3", UnitPrice: "101.2"}
		sub, err := BuildSubmission(intent, testWallet, stubBackend{})
		require.NoError(t, err)
		if dir == domain.DirectionBuy {
			assert.Positive(t, sub.Value.Sign())
		} else {
			assert.Zero(t, sub.Value.Sign())
		}
	}
}

func TestBondIndexParsing(t *testing.T) {
	tests := []struct {
		id      string
		want    uint64
		wantErr bool
	}{
		{"BOND-001", 1, false},
		{"BOND-042", 42, false},
		{"BOND-0", 0, false},
		{"BOND-", 0, true},
		{"BOND", 0, true},
		{"BOND-xyz", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := domain.ParseBondIndex(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrMalformedBondID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSubmissionMalformedBondID(t *testing.T) {
	intent := domain.TradeIntent{BondID: "BOND-", Direction: domain.DirectionBuy, Quantity: "1", UnitPrice: "100"}
	_, err := BuildSubmission(intent, testWallet, stubBackend{})
	assert.ErrorIs(t, err, domain.ErrMalformedBondID)
}

func TestBuildSubmissionSealFailure(t *testing.T) {
	intent := domain.TradeIntent{BondID: "BOND-001", Direction: domain.DirectionBuy, Quantity: "1", UnitPrice: "100"}
	_, err := BuildSubmission(intent, testWallet, stubBackend{err: assert.AnError})
	assert.ErrorIs(t, err, domain.ErrEncryptionFailed)
}
