package trade

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultbond/vaultbond/internal/domain"
)

// fakeWriter counts ExecuteTrade calls and can block until released.
type fakeWriter struct {
	calls   atomic.Int64
	release chan struct{}
	err     error
	receipt domain.TradeReceipt
}

func (f *fakeWriter) ExecuteTrade(ctx context.Context, sub domain.TradeSubmission) (domain.TradeReceipt, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return domain.TradeReceipt{}, f.err
	}
	return f.receipt, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestSession(w ContractWriter) *Session {
	return NewSession(w, stubBackend{}, nil, nil, testLogger())
}

func buyIntent() domain.TradeIntent {
	return domain.TradeIntent{
		BondID:    "BOND-001",
		Direction: domain.DirectionBuy,
		Quantity:  "50",
		UnitPrice: "98.45",
	}
}

func TestSubmitSuccess(t *testing.T) {
	w := &fakeWriter{receipt: domain.TradeReceipt{TradeID: 7, TxHash: "0xabc"}}
	s := newTestSession(w)

	outcome, err := s.Submit(context.Background(), buyIntent(), testWallet)
	require.NoError(t, err)

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, uint64(7), outcome.Receipt.TradeID)
	assert.Equal(t, domain.StateSucceeded, s.State())
	assert.Empty(t, s.Draft().Quantity, "success clears the quantity field")
	assert.Equal(t, int64(1), w.calls.Load())
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	w := &fakeWriter{err: fmt.Errorf("chain: send: %w", domain.ErrRPCUnavailable)}
	s := newTestSession(w)

	outcome, err := s.Submit(context.Background(), buyIntent(), testWallet)
	require.NoError(t, err)

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, domain.FailureTransport, outcome.Failure)
	assert.Equal(t, domain.StateFailed, s.State())
	assert.Equal(t, "50", s.Draft().Quantity, "failure preserves the draft for manual retry")
}

func TestSubmitFailureTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.FailureKind
	}{
		{"wallet rejection", fmt.Errorf("chain: sign: %w", domain.ErrTxRejected), domain.FailureRejected},
		{"contract revert", fmt.Errorf("chain: exec: %w", domain.ErrTxReverted), domain.FailureReverted},
		{"transport", fmt.Errorf("chain: dial: %w", domain.ErrRPCUnavailable), domain.FailureTransport},
		{"unknown counts as transport", assert.AnError, domain.FailureTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(&fakeWriter{err: tt.err})
			outcome, err := s.Submit(context.Background(), buyIntent(), testWallet)
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome.Failure)
			// All categories surface as the same generic user message.
			assert.Equal(t, "Trade failed. Please try again.", outcome.Message)
		})
	}
}

func TestSubmitRejectsInvalidIntentBeforeNetwork(t *testing.T) {
	w := &fakeWriter{}
	s := newTestSession(w)

	_, err := s.Submit(context.Background(), domain.TradeIntent{BondID: "BOND-001", Quantity: "0", UnitPrice: "98.45"}, testWallet)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = s.Submit(context.Background(), buyIntent(), domain.WalletState{})
	assert.ErrorIs(t, err, domain.ErrWalletNotConnected)

	bad := buyIntent()
	bad.BondID = "BOND-"
	_, err = s.Submit(context.Background(), bad, testWallet)
	assert.ErrorIs(t, err, domain.ErrMalformedBondID)

	assert.Equal(t, int64(0), w.calls.Load(), "pre-flight errors must never reach the contract")
	assert.Equal(t, domain.StateIdle, s.State())
}

func TestSubmitGateAllowsExactlyOneCall(t *testing.T) {
	w := &fakeWriter{release: make(chan struct{})}
	s := newTestSession(w)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.Submit(context.Background(), buyIntent(), testWallet)
		assert.NoError(t, err)
	}()

	// Wait until the first submission is in flight.
	require.Eventually(t, s.InFlight, time.Second, time.Millisecond)

	// Hammer the submit action like a rapid double click.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Submit(context.Background(), buyIntent(), testWallet)
			assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)
		}()
	}
	wg.Wait()

	close(w.release)
	<-done

	assert.Equal(t, int64(1), w.calls.Load(), "the contract write fires once regardless of click count")
}

func TestResetReturnsToIdle(t *testing.T) {
	s := newTestSession(&fakeWriter{})

	_, err := s.Submit(context.Background(), buyIntent(), testWallet)
	require.NoError(t, err)
	require.Equal(t, domain.StateSucceeded, s.State())

	s.Reset()
	assert.Equal(t, domain.StateIdle, s.State())
	_, ok := s.Result()
	assert.False(t, ok)
}

func TestClosedSessionStopsReflectingResult(t *testing.T) {
	w := &fakeWriter{release: make(chan struct{}), receipt: domain.TradeReceipt{TradeID: 1}}
	s := newTestSession(w)

	outcomeCh := make(chan domain.TradeOutcome, 1)
	go func() {
		out, _ := s.Submit(context.Background(), buyIntent(), testWallet)
		outcomeCh <- out
	}()
	require.Eventually(t, s.InFlight, time.Second, time.Millisecond)

	// Dialog closed mid-flight: the call still completes, but the session no
	// longer reports its result.
	s.Close()
	close(w.release)

	out := <-outcomeCh
	assert.True(t, out.Succeeded, "the underlying call is not cancelled")

	_, ok := s.Result()
	assert.False(t, ok)
	assert.Equal(t, int64(1), w.calls.Load())
}
