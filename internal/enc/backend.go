// Package enc produces the ciphertext and proof artifacts the VaultBondTrader
// contract consumes. The real homomorphic-encryption scheme lives off-client;
// this package pins down the contract the client must honor: fixed-size
// outputs, deterministic for the same intent and wallet key material.
package enc

import (
	"crypto/ecdsa"
	"encoding/binary"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/vaultbond/vaultbond/internal/domain"
)

// Domain-separation tags for the placeholder derivation.
var (
	tagAmount = []byte("vaultbond/ct/amount/v1")
	tagPrice  = []byte("vaultbond/ct/price/v1")
	tagProof  = []byte("vaultbond/proof/v1")
)

// Artifacts bundles the encrypted payload for one submission attempt.
type Artifacts struct {
	Amount domain.Ciphertext
	Price  domain.Ciphertext
	Proof  domain.Proof
}

// Backend seals a plaintext trade into ciphertext+proof artifacts. The proof
// binds both ciphertexts and the direction flag to the calling wallet.
// Implementations must be deterministic for identical inputs so a retried
// build produces the same payload.
type Backend interface {
	Seal(quantity uint64, unitPrice float64, isBuy bool, wallet string) (Artifacts, error)
}

// PlaceholderBackend derives artifacts by keccak-hashing the plaintext under
// a fingerprint of the signer key. It satisfies the size and determinism
// contract; it is NOT confidential and exists only until the FHE backend is
// wired in.
type PlaceholderBackend struct {
	fingerprint [32]byte
}

// NewPlaceholder creates a PlaceholderBackend bound to the signing key's
// public fingerprint.
func NewPlaceholder(key *ecdsa.PrivateKey) *PlaceholderBackend {
	pub := ethcrypto.FromECDSAPub(&key.PublicKey)
	var fp [32]byte
	copy(fp[:], ethcrypto.Keccak256(pub))
	return &PlaceholderBackend{fingerprint: fp}
}

// Seal implements Backend.
func (b *PlaceholderBackend) Seal(quantity uint64, unitPrice float64, isBuy bool, wallet string) (Artifacts, error) {
	addr := common.HexToAddress(wallet)

	var qty [8]byte
	binary.BigEndian.PutUint64(qty[:], quantity)
	price := []byte(strconv.FormatFloat(unitPrice, 'f', -1, 64))

	var out Artifacts
	copy(out.Amount[:], ethcrypto.Keccak256(tagAmount, b.fingerprint[:], addr.Bytes(), qty[:]))
	copy(out.Price[:], ethcrypto.Keccak256(tagPrice, b.fingerprint[:], addr.Bytes(), price))

	dir := byte(0)
	if isBuy {
		dir = 1
	}
	head := ethcrypto.Keccak256(tagProof, out.Amount[:], out.Price[:], []byte{dir}, addr.Bytes(), b.fingerprint[:])
	copy(out.Proof[:32], head)
	copy(out.Proof[32:], ethcrypto.Keccak256(head))

	return out, nil
}

var _ Backend = (*PlaceholderBackend)(nil)
