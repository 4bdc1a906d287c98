package domain

import "time"

// MarketStats is the raw aggregate snapshot decoded from the getMarketStats
// tuple. Values are contract-scale; the read-model layer converts them to
// display units.
type MarketStats struct {
	TotalVolume  uint32
	ActiveBonds  uint32
	TotalTrades  uint32
	AverageYield uint32
}

// Portfolio is the raw per-wallet holdings snapshot decoded from the
// getPortfolioInfo tuple. Absent entirely when no wallet is connected.
type Portfolio struct {
	Wallet     string
	TotalValue uint32
	TotalYield uint32
	BondCount  uint32
}

// BondInfo is the decoded getBondInfo tuple. Supply and price fields come
// back masked (the real values live encrypted on-chain).
type BondInfo struct {
	Issuer          string
	Symbol          string
	FaceValue       uint8
	CouponRate      uint8
	MaturityDate    uint8
	CurrentPrice    uint8
	TotalSupply     uint8
	AvailableSupply uint8
	IsActive        bool
	IsVerified      bool
	IssuerAddress   string
	CreatedAt       time.Time
}
