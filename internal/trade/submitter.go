package trade

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vaultbond/vaultbond/internal/domain"
	"github.com/vaultbond/vaultbond/internal/enc"
)

// OutcomeChannel is the signal-bus channel trade outcomes are published on.
// Outcomes outlive the session that produced them; subscribers (WebSocket
// hub, notifiers) surface them even after the dialog is gone.
const OutcomeChannel = "trade_outcomes"

// OutcomeEvent is the JSON payload published on OutcomeChannel.
type OutcomeEvent struct {
	Event     string             `json:"event"`
	SessionID string             `json:"session_id"`
	AttemptID string             `json:"attempt_id"`
	BondIndex uint64             `json:"bond_index"`
	IsBuy     bool               `json:"is_buy"`
	Succeeded bool               `json:"succeeded"`
	Failure   domain.FailureKind `json:"failure"`
	TradeID   uint64             `json:"trade_id"`
	TxHash    string             `json:"tx_hash"`
}

// ContractWriter issues the single executeTrade call for a submission.
type ContractWriter interface {
	ExecuteTrade(ctx context.Context, sub domain.TradeSubmission) (domain.TradeReceipt, error)
}

// Session is the per-dialog trade state machine:
//
//	Idle -> Submitting -> {Succeeded, Failed}
//
// Terminal states return to Idle only via Reset. While Submitting, further
// submits are rejected so rapid repeated clicks can never broadcast a second
// transaction.
type Session struct {
	id      string
	writer  ContractWriter
	backend enc.Backend
	trades  domain.TradeStore
	bus     domain.SignalBus
	logger  *slog.Logger

	mu     sync.Mutex
	state  domain.SubmissionState
	draft  domain.TradeIntent
	closed bool
	last   domain.TradeOutcome
}

// NewSession creates an idle session. trades and bus may be nil; recording
// and publishing are then skipped.
func NewSession(writer ContractWriter, backend enc.Backend, trades domain.TradeStore, bus domain.SignalBus, logger *slog.Logger) *Session {
	return &Session{
		id:      uuid.New().String(),
		writer:  writer,
		backend: backend,
		trades:  trades,
		bus:     bus,
		state:   domain.StateIdle,
		logger:  logger.With(slog.String("component", "trade_session")),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() domain.SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// InFlight reports whether a submission is currently outstanding. Callers
// gate their submit affordance on this.
func (s *Session) InFlight() bool {
	return s.State() == domain.StateSubmitting
}

// Draft returns the current draft intent. After a successful submission the
// quantity field is cleared; after a failure the draft is preserved so the
// user can correct and resubmit.
func (s *Session) Draft() domain.TradeIntent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Reset returns a terminal session to Idle. This is the explicit caller
// action (closing the dialog, choosing retry); outcomes never auto-clear.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateSubmitting {
		s.state = domain.StateIdle
		s.last = domain.TradeOutcome{}
	}
}

// Close detaches the session from its dialog. An in-flight submission keeps
// running (a broadcast transaction cannot be safely aborted); its outcome is
// still recorded and published, just no longer reflected in this instance.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Result returns the last terminal outcome, or false when the session is
// closed or has none.
func (s *Session) Result() (domain.TradeOutcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || (s.state != domain.StateSucceeded && s.state != domain.StateFailed) {
		return domain.TradeOutcome{}, false
	}
	return s.last, true
}

// Submit runs the full pipeline for one attempt: validate, build, execute,
// reconcile. Validation and build errors resolve locally and never reach the
// network. Exactly one ExecuteTrade call is made per accepted submission;
// a submission already in flight is rejected with ErrSubmissionInFlight.
func (s *Session) Submit(ctx context.Context, intent domain.TradeIntent, wallet domain.WalletState) (domain.TradeOutcome, error) {
	s.mu.Lock()
	if s.state == domain.StateSubmitting {
		s.mu.Unlock()
		return domain.TradeOutcome{}, domain.ErrSubmissionInFlight
	}

	if res := ValidateIntent(intent, wallet); res != Valid {
		s.mu.Unlock()
		return domain.TradeOutcome{}, fmt.Errorf("trade: validate: %w", res.Err())
	}

	sub, err := BuildSubmission(intent, wallet, s.backend)
	if err != nil {
		s.mu.Unlock()
		return domain.TradeOutcome{}, err
	}

	s.state = domain.StateSubmitting
	s.draft = intent
	s.mu.Unlock()

	log := s.logger.With(
		slog.String("attempt_id", sub.AttemptID),
		slog.String("bond_id", intent.BondID),
		slog.String("direction", string(intent.Direction)),
	)

	submittedAt := time.Now().UTC()
	s.record(ctx, sub, intent, submittedAt, log)

	receipt, execErr := s.writer.ExecuteTrade(ctx, sub)

	outcome := s.reconcile(receipt, execErr, log)
	resolvedAt := time.Now().UTC()
	s.resolve(ctx, sub.AttemptID, outcome, resolvedAt, log)
	s.publish(ctx, sub, outcome, log)

	return outcome, nil
}

// reconcile maps the call result onto the state machine and the draft.
func (s *Session) reconcile(receipt domain.TradeReceipt, execErr error, log *slog.Logger) domain.TradeOutcome {
	var outcome domain.TradeOutcome
	if execErr == nil {
		outcome = domain.TradeOutcome{Succeeded: true, Receipt: receipt}
	} else {
		// The category is kept for logs and records; the user-facing
		// message is a single generic retry affordance. No silent retries:
		// resubmitting a financial transaction needs explicit user consent.
		kind := classify(execErr)
		outcome = domain.TradeOutcome{
			Succeeded: false,
			Failure:   kind,
			Message:   "Trade failed. Please try again.",
		}
		log.Error("trade submission failed",
			slog.String("failure", string(kind)),
			slog.String("error", execErr.Error()),
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = outcome
	if outcome.Succeeded {
		s.state = domain.StateSucceeded
		s.draft.Quantity = ""
		log.Info("trade submitted",
			slog.Uint64("trade_id", outcome.Receipt.TradeID),
			slog.String("tx_hash", outcome.Receipt.TxHash),
		)
	} else {
		s.state = domain.StateFailed
	}
	return outcome
}

func (s *Session) record(ctx context.Context, sub domain.TradeSubmission, intent domain.TradeIntent, at time.Time, log *slog.Logger) {
	if s.trades == nil {
		return
	}
	rec := domain.TradeRecord{
		ID:          sub.AttemptID,
		Wallet:      sub.Wallet,
		BondID:      intent.BondID,
		BondIndex:   sub.BondIndex,
		Direction:   intent.Direction,
		Quantity:    intent.Quantity,
		UnitPrice:   intent.UnitPrice,
		TotalValue:  sub.TotalValue,
		State:       domain.StateSubmitting,
		SubmittedAt: at,
	}
	if err := s.trades.Create(ctx, rec); err != nil {
		log.Warn("trade record create failed", slog.String("error", err.Error()))
	}
}

func (s *Session) resolve(ctx context.Context, attemptID string, outcome domain.TradeOutcome, at time.Time, log *slog.Logger) {
	if s.trades == nil {
		return
	}
	if err := s.trades.Resolve(ctx, attemptID, outcome, at); err != nil {
		log.Warn("trade record resolve failed", slog.String("error", err.Error()))
	}
}

func (s *Session) publish(ctx context.Context, sub domain.TradeSubmission, outcome domain.TradeOutcome, log *slog.Logger) {
	if s.bus == nil {
		return
	}
	evt, _ := json.Marshal(OutcomeEvent{
		Event:     "trade_outcome",
		SessionID: s.id,
		AttemptID: sub.AttemptID,
		BondIndex: sub.BondIndex,
		IsBuy:     sub.IsBuy,
		Succeeded: outcome.Succeeded,
		Failure:   outcome.Failure,
		TradeID:   outcome.Receipt.TradeID,
		TxHash:    outcome.Receipt.TxHash,
	})
	if err := s.bus.Publish(ctx, OutcomeChannel, evt); err != nil {
		log.Warn("outcome publish failed", slog.String("error", err.Error()))
	}
}

// classify buckets an executeTrade error into the failure taxonomy: wallet
// rejection, contract revert, or transport. Unknown errors count as
// transport since they say nothing about the transaction itself.
func classify(err error) domain.FailureKind {
	switch {
	case errors.Is(err, domain.ErrTxRejected):
		return domain.FailureRejected
	case errors.Is(err, domain.ErrTxReverted):
		return domain.FailureReverted
	default:
		return domain.FailureTransport
	}
}
