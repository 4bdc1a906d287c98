// Package chain implements the VaultBondTrader contract call surface over a
// JSON-RPC endpoint using go-ethereum. Submission errors are classified here
// into the rejection / revert / transport taxonomy the trade pipeline reports.
package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/vaultbond/vaultbond/internal/domain"
)

// Config holds the chain connection parameters.
type Config struct {
	RPCURL          string
	ChainID         int64
	ContractAddress string

	// PrivateKeyHex enables the write surface. Read-only clients leave it
	// empty.
	PrivateKeyHex string
}

// Client talks to the VaultBondTrader contract.
type Client struct {
	eth      *ethclient.Client
	contract common.Address
	parsed   abi.ABI
	chainID  *big.Int

	key  *ecdsa.PrivateKey
	from common.Address

	logger *slog.Logger
}

// New dials the RPC endpoint and prepares the contract binding. The signing
// key is optional; writes without one fail as wallet rejections.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(vaultBondTraderABI))
	if err != nil {
		return nil, fmt.Errorf("chain: parse abi: %w", err)
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("chain: invalid contract address %q", cfg.ContractAddress)
	}

	eth, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("chain: dial %s: %w: %v", cfg.RPCURL, domain.ErrRPCUnavailable, err)
	}

	c := &Client{
		eth:      eth,
		contract: common.HexToAddress(cfg.ContractAddress),
		parsed:   parsed,
		chainID:  big.NewInt(cfg.ChainID),
		logger:   logger.With(slog.String("component", "chain")),
	}

	if cfg.PrivateKeyHex != "" {
		key, err := ethcrypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKeyHex, "0x"))
		if err != nil {
			eth.Close()
			return nil, fmt.Errorf("chain: invalid private key: %w", err)
		}
		c.key = key
		c.from = ethcrypto.PubkeyToAddress(key.PublicKey)
	}

	return c, nil
}

// Close releases the RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// SignerAddress returns the 0x-hex address of the configured signing key, or
// empty when the client is read-only.
func (c *Client) SignerAddress() string {
	if c.key == nil {
		return ""
	}
	return c.from.Hex()
}

// Key exposes the signing key for the encryption backend, which binds
// artifacts to the same key material that signs the transaction.
func (c *Client) Key() *ecdsa.PrivateKey {
	return c.key
}

// isRevert reports whether an RPC error indicates on-chain rejection rather
// than a transport problem. Node implementations word this differently.
func isRevert(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "execution reverted") || strings.Contains(msg, "revert")
}
