// Package trade owns the client-side trade pipeline: validating a draft
// intent, composing the encrypted submission payload, and driving the single
// asynchronous contract round trip per attempt.
package trade

import (
	"github.com/vaultbond/vaultbond/internal/domain"
	"github.com/vaultbond/vaultbond/internal/pricing"
)

// ValidationResult is the outcome of pre-flight intent validation.
type ValidationResult string

const (
	Valid              ValidationResult = "valid"
	InvalidQuantity    ValidationResult = "invalid_quantity"
	WalletNotConnected ValidationResult = "wallet_not_connected"
)

// ValidateIntent checks a draft intent against the wallet state. Quantity is
// checked before wallet state so the user is told to fix the quantity first
// when both are wrong. Purely local; no network or contract access.
func ValidateIntent(intent domain.TradeIntent, wallet domain.WalletState) ValidationResult {
	if q := pricing.ParseAmount(intent.Quantity); q <= 0 {
		return InvalidQuantity
	}
	if !wallet.Connected() {
		return WalletNotConnected
	}
	return Valid
}

// Err maps a non-valid result to its sentinel error, or nil for Valid.
func (r ValidationResult) Err() error {
	switch r {
	case InvalidQuantity:
		return domain.ErrInvalidQuantity
	case WalletNotConnected:
		return domain.ErrWalletNotConnected
	default:
		return nil
	}
}
