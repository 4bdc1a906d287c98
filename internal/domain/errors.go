package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrWalletNotConnected = errors.New("wallet not connected")
	ErrMalformedBondID    = errors.New("malformed bond identifier")
	ErrEncryptionFailed   = errors.New("encryption failed")
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrTxRejected         = errors.New("transaction rejected by wallet")
	ErrTxReverted         = errors.New("transaction reverted")
	ErrRPCUnavailable     = errors.New("rpc unavailable")
	ErrContextDone        = errors.New("context cancelled")
)
