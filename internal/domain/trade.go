package domain

import (
	"math/big"
	"time"
)

// Direction says whether an intent buys or sells bond units.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// Ciphertext and proof blob sizes the contract verifier expects. The
// encryption backend must produce exactly these sizes.
const (
	CiphertextLen = 32
	ProofLen      = 64
)

// Ciphertext is an opaque fixed-size encrypted value.
type Ciphertext [CiphertextLen]byte

// Proof is the validity proof binding ciphertexts and direction to the
// calling wallet.
type Proof [ProofLen]byte

// TradeIntent is a plaintext trade draft owned by one in-flight trade
// session. Quantity and UnitPrice are kept as entered; parsing rules live in
// the pricing package.
type TradeIntent struct {
	BondID    string
	Direction Direction
	Quantity  string // positive integer count of bonds
	UnitPrice string // decimal, per $1000 face value
}

// TradeSubmission is the wire-ready form of a validated intent. It is built
// fresh per submission attempt and never persisted as-is.
type TradeSubmission struct {
	AttemptID       string
	BondIndex       uint64
	EncryptedAmount Ciphertext
	EncryptedPrice  Ciphertext
	IsBuy           bool
	Proof           Proof

	// Value is the native-currency amount attached to the call, in the
	// chain's smallest unit. Non-zero iff IsBuy.
	Value *big.Int

	Wallet     string
	TotalValue float64 // display-denominated aggregate, for records only
}

// TradeReceipt is the successful outcome of an executeTrade call.
type TradeReceipt struct {
	TradeID uint64
	TxHash  string
}

// SubmissionState is the lifecycle of one trade session.
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateSubmitting SubmissionState = "submitting"
	StateSucceeded  SubmissionState = "succeeded"
	StateFailed     SubmissionState = "failed"
)

// FailureKind categorizes submission failures. The category is retained for
// logging and records even when the user-facing message is simplified.
type FailureKind string

const (
	FailureNone      FailureKind = ""
	FailureRejected  FailureKind = "wallet_rejected"
	FailureReverted  FailureKind = "contract_reverted"
	FailureTransport FailureKind = "transport"
)

// TradeOutcome is what the submitter resolves to.
type TradeOutcome struct {
	Succeeded bool
	Receipt   TradeReceipt
	Failure   FailureKind
	Message   string
}

// TradeRecord is the persisted history row for one submission attempt.
type TradeRecord struct {
	ID          string
	Wallet      string
	BondID      string
	BondIndex   uint64
	Direction   Direction
	Quantity    string
	UnitPrice   string
	TotalValue  float64
	TxHash      string
	TradeID     *uint64
	State       SubmissionState
	Failure     FailureKind
	SubmittedAt time.Time
	ResolvedAt  *time.Time
}

// TradeInfo is the decoded getTradeInfo tuple, with named fields so no caller
// depends on positional indices.
type TradeInfo struct {
	BondIndex uint8
	Amount    uint8 // encrypted on-chain; reads return the masked byte
	Price     uint8
	Trader    string
	IsBuy     bool
	Timestamp time.Time
}
