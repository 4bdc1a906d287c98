package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/vaultbond/vaultbond/internal/domain"
)

// call packs a view method, executes it against the latest block, and
// unpacks the raw return tuple.
func (c *Client) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := c.parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("chain: pack %s: %w", method, err)
	}
	out, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		if isRevert(err) {
			return nil, fmt.Errorf("chain: call %s: %w: %v", method, domain.ErrTxReverted, err)
		}
		return nil, fmt.Errorf("chain: call %s: %w: %v", method, domain.ErrRPCUnavailable, err)
	}
	vals, err := c.parsed.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("chain: unpack %s: %w", method, err)
	}
	return vals, nil
}

// tupleErr flags a return tuple that does not match the ABI shape. The
// positional-to-named translation happens here and nowhere else.
func tupleErr(method string, pos int) error {
	return fmt.Errorf("chain: %s: unexpected tuple value at position %d", method, pos)
}

// GetBondInfo decodes the 12-field getBondInfo tuple into a named record.
func (c *Client) GetBondInfo(ctx context.Context, index uint64) (domain.BondInfo, error) {
	vals, err := c.call(ctx, "getBondInfo", new(big.Int).SetUint64(index))
	if err != nil {
		return domain.BondInfo{}, err
	}
	if len(vals) != 12 {
		return domain.BondInfo{}, tupleErr("getBondInfo", len(vals))
	}

	var info domain.BondInfo
	var ok bool
	if info.Issuer, ok = vals[0].(string); !ok {
		return domain.BondInfo{}, tupleErr("getBondInfo", 0)
	}
	if info.Symbol, ok = vals[1].(string); !ok {
		return domain.BondInfo{}, tupleErr("getBondInfo", 1)
	}
	bytes8 := []*uint8{
		&info.FaceValue, &info.CouponRate, &info.MaturityDate,
		&info.CurrentPrice, &info.TotalSupply, &info.AvailableSupply,
	}
	for i, dst := range bytes8 {
		v, ok := vals[2+i].(uint8)
		if !ok {
			return domain.BondInfo{}, tupleErr("getBondInfo", 2+i)
		}
		*dst = v
	}
	if info.IsActive, ok = vals[8].(bool); !ok {
		return domain.BondInfo{}, tupleErr("getBondInfo", 8)
	}
	if info.IsVerified, ok = vals[9].(bool); !ok {
		return domain.BondInfo{}, tupleErr("getBondInfo", 9)
	}
	addr, ok := vals[10].(common.Address)
	if !ok {
		return domain.BondInfo{}, tupleErr("getBondInfo", 10)
	}
	info.IssuerAddress = addr.Hex()
	created, ok := vals[11].(*big.Int)
	if !ok {
		return domain.BondInfo{}, tupleErr("getBondInfo", 11)
	}
	info.CreatedAt = time.Unix(created.Int64(), 0).UTC()

	return info, nil
}

// GetMarketStats decodes the aggregate market snapshot.
func (c *Client) GetMarketStats(ctx context.Context) (domain.MarketStats, error) {
	vals, err := c.call(ctx, "getMarketStats")
	if err != nil {
		return domain.MarketStats{}, err
	}
	if len(vals) != 4 {
		return domain.MarketStats{}, tupleErr("getMarketStats", len(vals))
	}

	var stats domain.MarketStats
	for i, dst := range []*uint32{&stats.TotalVolume, &stats.ActiveBonds, &stats.TotalTrades, &stats.AverageYield} {
		v, ok := vals[i].(uint8)
		if !ok {
			return domain.MarketStats{}, tupleErr("getMarketStats", i)
		}
		*dst = uint32(v)
	}
	return stats, nil
}

// GetPortfolioInfo decodes the per-wallet holdings snapshot.
func (c *Client) GetPortfolioInfo(ctx context.Context, wallet string) (domain.Portfolio, error) {
	vals, err := c.call(ctx, "getPortfolioInfo", common.HexToAddress(wallet))
	if err != nil {
		return domain.Portfolio{}, err
	}
	if len(vals) != 3 {
		return domain.Portfolio{}, tupleErr("getPortfolioInfo", len(vals))
	}

	p := domain.Portfolio{Wallet: wallet}
	for i, dst := range []*uint32{&p.TotalValue, &p.TotalYield, &p.BondCount} {
		v, ok := vals[i].(uint8)
		if !ok {
			return domain.Portfolio{}, tupleErr("getPortfolioInfo", i)
		}
		*dst = uint32(v)
	}
	return p, nil
}

// GetIssuerReputation returns the masked issuer reputation score.
func (c *Client) GetIssuerReputation(ctx context.Context, issuer string) (uint8, error) {
	return c.getReputation(ctx, "getIssuerReputation", issuer)
}

// GetTraderReputation returns the masked trader reputation score.
func (c *Client) GetTraderReputation(ctx context.Context, trader string) (uint8, error) {
	return c.getReputation(ctx, "getTraderReputation", trader)
}

func (c *Client) getReputation(ctx context.Context, method, addr string) (uint8, error) {
	vals, err := c.call(ctx, method, common.HexToAddress(addr))
	if err != nil {
		return 0, err
	}
	if len(vals) != 1 {
		return 0, tupleErr(method, len(vals))
	}
	v, ok := vals[0].(uint8)
	if !ok {
		return 0, tupleErr(method, 0)
	}
	return v, nil
}

// GetTradeInfo decodes a recorded trade by its on-chain id.
func (c *Client) GetTradeInfo(ctx context.Context, tradeID uint64) (domain.TradeInfo, error) {
	vals, err := c.call(ctx, "getTradeInfo", new(big.Int).SetUint64(tradeID))
	if err != nil {
		return domain.TradeInfo{}, err
	}
	if len(vals) != 6 {
		return domain.TradeInfo{}, tupleErr("getTradeInfo", len(vals))
	}

	var info domain.TradeInfo
	var ok bool
	for i, dst := range []*uint8{&info.BondIndex, &info.Amount, &info.Price} {
		v, ok := vals[i].(uint8)
		if !ok {
			return domain.TradeInfo{}, tupleErr("getTradeInfo", i)
		}
		*dst = v
	}
	addr, ok := vals[3].(common.Address)
	if !ok {
		return domain.TradeInfo{}, tupleErr("getTradeInfo", 3)
	}
	info.Trader = addr.Hex()
	if info.IsBuy, ok = vals[4].(bool); !ok {
		return domain.TradeInfo{}, tupleErr("getTradeInfo", 4)
	}
	ts, ok := vals[5].(*big.Int)
	if !ok {
		return domain.TradeInfo{}, tupleErr("getTradeInfo", 5)
	}
	info.Timestamp = time.Unix(ts.Int64(), 0).UTC()

	return info, nil
}
