package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vaultbond/vaultbond/internal/domain"
	"github.com/vaultbond/vaultbond/internal/trade"
)

// Event types emitted by the outcome watcher.
const (
	EventTradeSucceeded = "trade.succeeded"
	EventTradeFailed    = "trade.failed"
)

// OutcomeWatcher subscribes to the trade outcome channel and forwards each
// resolution to the notifier.
type OutcomeWatcher struct {
	bus      domain.SignalBus
	notifier *Notifier
	logger   *slog.Logger
}

// NewOutcomeWatcher creates an OutcomeWatcher.
func NewOutcomeWatcher(bus domain.SignalBus, notifier *Notifier, logger *slog.Logger) *OutcomeWatcher {
	return &OutcomeWatcher{
		bus:      bus,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "outcome_watcher")),
	}
}

// Run consumes outcome events until the context is cancelled.
func (w *OutcomeWatcher) Run(ctx context.Context) error {
	ch, err := w.bus.Subscribe(ctx, trade.OutcomeChannel)
	if err != nil {
		return fmt.Errorf("notify: subscribe outcomes: %w", err)
	}

	w.logger.InfoContext(ctx, "outcome watcher started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-ch:
			if !ok {
				return nil
			}
			w.handle(ctx, payload)
		}
	}
}

func (w *OutcomeWatcher) handle(ctx context.Context, payload []byte) {
	var evt trade.OutcomeEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		w.logger.WarnContext(ctx, "malformed outcome event",
			slog.String("error", err.Error()),
		)
		return
	}

	side := "Sell"
	if evt.IsBuy {
		side = "Buy"
	}

	if evt.Succeeded {
		title := "Trade executed"
		msg := fmt.Sprintf("%s on bond #%d confirmed.\nTrade ID: %d\nTx: %s",
			side, evt.BondIndex, evt.TradeID, evt.TxHash)
		if err := w.notifier.Notify(ctx, EventTradeSucceeded, title, msg); err != nil {
			w.logger.WarnContext(ctx, "outcome notify failed", slog.String("error", err.Error()))
		}
		return
	}

	title := "Trade failed"
	msg := fmt.Sprintf("%s on bond #%d did not go through (%s).",
		side, evt.BondIndex, evt.Failure)
	if err := w.notifier.Notify(ctx, EventTradeFailed, title, msg); err != nil {
		w.logger.WarnContext(ctx, "outcome notify failed", slog.String("error", err.Error()))
	}
}
