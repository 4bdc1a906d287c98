package readmodel

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vaultbond/vaultbond/internal/domain"
)

// fakeReader serves canned reads and counts calls per method.
type fakeReader struct {
	stats     domain.MarketStats
	portfolio domain.Portfolio
	bond      domain.BondInfo
	err       error

	statsCalls     atomic.Int64
	portfolioCalls atomic.Int64
	bondCalls      atomic.Int64
}

func (f *fakeReader) GetMarketStats(ctx context.Context) (domain.MarketStats, error) {
	f.statsCalls.Add(1)
	return f.stats, f.err
}

func (f *fakeReader) GetPortfolioInfo(ctx context.Context, wallet string) (domain.Portfolio, error) {
	f.portfolioCalls.Add(1)
	p := f.portfolio
	p.Wallet = wallet
	return p, f.err
}

func (f *fakeReader) GetBondInfo(ctx context.Context, index uint64) (domain.BondInfo, error) {
	f.bondCalls.Add(1)
	return f.bond, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestMarketStatsReady(t *testing.T) {
	r := &fakeReader{stats: domain.MarketStats{TotalVolume: 3, ActiveBonds: 12, TotalTrades: 40, AverageYield: 4}}
	a := NewMarketStatsAdapter(r, nil, time.Minute, testLogger())

	snap := a.Load(context.Background())

	assert.Equal(t, StatusReady, snap.Status)
	assert.NoError(t, snap.Err)
	assert.InDelta(t, 3_000_000, snap.Data.TotalMarketValueUSD, 1e-9)
	assert.InDelta(t, 300_000, snap.Data.DayVolumeUSD, 1e-9)
	assert.Equal(t, uint32(12), snap.Data.ActiveBonds)
	assert.Equal(t, uint32(40), snap.Data.EncryptedTrades)
	assert.Equal(t, "4.00%", snap.Data.AverageYield)
}

func TestMarketStatsFallbackOnError(t *testing.T) {
	r := &fakeReader{err: domain.ErrRPCUnavailable}
	a := NewMarketStatsAdapter(r, nil, time.Minute, testLogger())

	snap := a.Load(context.Background())

	assert.Equal(t, StatusFallback, snap.Status)
	assert.ErrorIs(t, snap.Err, domain.ErrRPCUnavailable)
	assert.Equal(t, marketFallback, snap.Data, "errors degrade to the static snapshot, never an empty view")
}

func TestMarketStatsPlaceholderDeterministic(t *testing.T) {
	a := NewMarketStatsAdapter(&fakeReader{}, nil, time.Minute, testLogger())
	assert.Equal(t, a.Placeholder(), a.Placeholder())
	assert.Equal(t, StatusLoading, a.Placeholder().Status)
}

func TestPortfolioDisconnectedIssuesNoRead(t *testing.T) {
	r := &fakeReader{}
	a := NewPortfolioAdapter(r, nil, time.Minute, testLogger())

	snap := a.Load(context.Background(), domain.WalletState{})

	assert.Equal(t, StatusDisconnected, snap.Status)
	assert.NoError(t, snap.Err)
	assert.NotEqual(t, StatusLoading, snap.Status)
	assert.Equal(t, int64(0), r.portfolioCalls.Load(), "no wallet means no contract read")
}

func TestPortfolioReady(t *testing.T) {
	r := &fakeReader{portfolio: domain.Portfolio{TotalValue: 74, TotalYield: 4, BondCount: 2}}
	a := NewPortfolioAdapter(r, nil, time.Minute, testLogger())

	wallet := domain.WalletState{Address: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"}
	snap := a.Load(context.Background(), wallet)

	assert.Equal(t, StatusReady, snap.Status)
	assert.Equal(t, wallet.Address, snap.Data.Wallet)
	assert.InDelta(t, 74_000, snap.Data.TotalValueUSD, 1e-9)
	assert.Equal(t, uint32(2), snap.Data.BondCount)
}

func TestPortfolioFallbackKeepsWallet(t *testing.T) {
	r := &fakeReader{err: domain.ErrRPCUnavailable}
	a := NewPortfolioAdapter(r, nil, time.Minute, testLogger())

	wallet := domain.WalletState{Address: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"}
	snap := a.Load(context.Background(), wallet)

	assert.Equal(t, StatusFallback, snap.Status)
	assert.Equal(t, wallet.Address, snap.Data.Wallet)
	assert.InDelta(t, portfolioFallback.TotalValueUSD, snap.Data.TotalValueUSD, 1e-9)
}

func TestBondInfoAdapter(t *testing.T) {
	r := &fakeReader{bond: domain.BondInfo{Issuer: "Tesla Inc.", Symbol: "TSLA-27", IsActive: true}}
	a := NewBondInfoAdapter(r, nil, time.Minute, testLogger())

	snap := a.Load(context.Background(), 1)
	assert.Equal(t, StatusReady, snap.Status)
	assert.Equal(t, "Tesla Inc.", snap.Data.Issuer)

	r.err = domain.ErrRPCUnavailable
	snap = a.Load(context.Background(), 1)
	assert.Equal(t, StatusFallback, snap.Status)
	assert.ErrorIs(t, snap.Err, domain.ErrRPCUnavailable)
}
