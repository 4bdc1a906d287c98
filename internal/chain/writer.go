package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/vaultbond/vaultbond/internal/domain"
)

// tradeExecutedTopic identifies the TradeExecuted event; topic[1] carries the
// indexed tradeId.
var tradeExecutedTopic = ethcrypto.Keccak256Hash(
	[]byte("TradeExecuted(uint256,uint256,address,bool)"),
)

// ExecuteTrade broadcasts exactly one executeTrade transaction for the
// submission and waits for it to mine. sub.Value rides along as the call
// value; the contract is payable only for buys.
func (c *Client) ExecuteTrade(ctx context.Context, sub domain.TradeSubmission) (domain.TradeReceipt, error) {
	data, err := c.parsed.Pack("executeTrade",
		new(big.Int).SetUint64(sub.BondIndex),
		sub.EncryptedAmount[:],
		sub.EncryptedPrice[:],
		sub.IsBuy,
		sub.Proof[:],
	)
	if err != nil {
		return domain.TradeReceipt{}, fmt.Errorf("chain: pack executeTrade: %w", err)
	}

	signed, err := c.signTx(ctx, data, sub.Value)
	if err != nil {
		return domain.TradeReceipt{}, err
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		if isRevert(err) {
			return domain.TradeReceipt{}, fmt.Errorf("chain: send executeTrade: %w: %v", domain.ErrTxReverted, err)
		}
		return domain.TradeReceipt{}, fmt.Errorf("chain: send executeTrade: %w: %v", domain.ErrRPCUnavailable, err)
	}

	c.logger.InfoContext(ctx, "executeTrade broadcast",
		slog.String("tx_hash", signed.Hash().Hex()),
		slog.Uint64("bond_index", sub.BondIndex),
		slog.Bool("is_buy", sub.IsBuy),
	)

	receipt, err := bind.WaitMined(ctx, c.eth, signed)
	if err != nil {
		return domain.TradeReceipt{}, fmt.Errorf("chain: wait mined: %w: %v", domain.ErrRPCUnavailable, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return domain.TradeReceipt{}, fmt.Errorf("chain: executeTrade tx %s: %w", signed.Hash().Hex(), domain.ErrTxReverted)
	}

	out := domain.TradeReceipt{TxHash: signed.Hash().Hex()}
	for _, lg := range receipt.Logs {
		if len(lg.Topics) >= 2 && lg.Topics[0] == tradeExecutedTopic {
			out.TradeID = lg.Topics[1].Big().Uint64()
			break
		}
	}
	return out, nil
}

// CreateBondParams carries the issuer-side bond listing parameters.
type CreateBondParams struct {
	Issuer       string
	Symbol       string
	FaceValue    uint64
	CouponRate   uint64
	MaturityDate uint64
	TotalSupply  uint64
}

// CreateBond lists a new bond. Returns the transaction hash.
func (c *Client) CreateBond(ctx context.Context, p CreateBondParams) (string, error) {
	return c.sendTx(ctx, "createBond", nil,
		p.Issuer, p.Symbol,
		new(big.Int).SetUint64(p.FaceValue),
		new(big.Int).SetUint64(p.CouponRate),
		new(big.Int).SetUint64(p.MaturityDate),
		new(big.Int).SetUint64(p.TotalSupply),
	)
}

// UpdateBondPrice submits a new encrypted price for a bond.
func (c *Client) UpdateBondPrice(ctx context.Context, index uint64, newPrice domain.Ciphertext, proof domain.Proof) (string, error) {
	return c.sendTx(ctx, "updateBondPrice", nil,
		new(big.Int).SetUint64(index), newPrice[:], proof[:])
}

// DeactivateBond delists a bond.
func (c *Client) DeactivateBond(ctx context.Context, index uint64) (string, error) {
	return c.sendTx(ctx, "deactivateBond", nil, new(big.Int).SetUint64(index))
}

// VerifyBond sets a bond's verification flag.
func (c *Client) VerifyBond(ctx context.Context, index uint64, verified bool) (string, error) {
	return c.sendTx(ctx, "verifyBond", nil, new(big.Int).SetUint64(index), verified)
}

// UpdateReputation submits an encrypted reputation score for a user.
func (c *Client) UpdateReputation(ctx context.Context, user string, reputation domain.Ciphertext, isIssuer bool) (string, error) {
	return c.sendTx(ctx, "updateReputation", nil,
		common.HexToAddress(user), reputation[:], isIssuer)
}

// sendTx packs, signs, and broadcasts a state-changing call, returning the
// transaction hash without waiting for it to mine.
func (c *Client) sendTx(ctx context.Context, method string, value *big.Int, args ...any) (string, error) {
	data, err := c.parsed.Pack(method, args...)
	if err != nil {
		return "", fmt.Errorf("chain: pack %s: %w", method, err)
	}

	signed, err := c.signTx(ctx, data, value)
	if err != nil {
		return "", err
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		if isRevert(err) {
			return "", fmt.Errorf("chain: send %s: %w: %v", method, domain.ErrTxReverted, err)
		}
		return "", fmt.Errorf("chain: send %s: %w: %v", method, domain.ErrRPCUnavailable, err)
	}

	c.logger.InfoContext(ctx, "transaction broadcast",
		slog.String("method", method),
		slog.String("tx_hash", signed.Hash().Hex()),
	)
	return signed.Hash().Hex(), nil
}

// signTx assembles and signs a transaction to the contract. A missing key or
// a signing failure counts as wallet rejection; estimation reverts surface as
// contract reverts before anything is broadcast.
func (c *Client) signTx(ctx context.Context, data []byte, value *big.Int) (*types.Transaction, error) {
	if c.key == nil {
		return nil, fmt.Errorf("chain: no signing key configured: %w", domain.ErrTxRejected)
	}
	if value == nil {
		value = big.NewInt(0)
	}

	nonce, err := c.eth.PendingNonceAt(ctx, c.from)
	if err != nil {
		return nil, fmt.Errorf("chain: pending nonce: %w: %v", domain.ErrRPCUnavailable, err)
	}
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain: suggest gas price: %w: %v", domain.ErrRPCUnavailable, err)
	}

	gasLimit, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:  c.from,
		To:    &c.contract,
		Value: value,
		Data:  data,
	})
	if err != nil {
		if isRevert(err) {
			return nil, fmt.Errorf("chain: estimate gas: %w: %v", domain.ErrTxReverted, err)
		}
		return nil, fmt.Errorf("chain: estimate gas: %w: %v", domain.ErrRPCUnavailable, err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.contract,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return nil, fmt.Errorf("chain: sign: %w: %v", domain.ErrTxRejected, err)
	}
	return signed, nil
}
