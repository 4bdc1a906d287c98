package domain

// WalletState is the externally-owned wallet/session snapshot threaded into
// every function that needs it. The pipeline never reads wallet state from
// ambient context.
type WalletState struct {
	// Address is the connected wallet address in 0x-hex form, or empty when
	// no wallet is connected.
	Address string
}

// Connected reports whether a wallet address is present.
func (w WalletState) Connected() bool {
	return w.Address != ""
}
