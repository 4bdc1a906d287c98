package enc

import (
	"encoding/hex"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultbond/vaultbond/internal/domain"
)

const testWallet = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

func newTestBackend(t *testing.T) *PlaceholderBackend {
	t.Helper()
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	return NewPlaceholder(key)
}

func TestSealSizes(t *testing.T) {
	b := newTestBackend(t)

	art, err := b.Seal(50, 98.45, true, testWallet)
	require.NoError(t, err)

	assert.Len(t, art.Amount[:], domain.CiphertextLen)
	assert.Len(t, art.Price[:], domain.CiphertextLen)
	assert.Len(t, art.Proof[:], domain.ProofLen)
}

func TestSealDeterministic(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	a, err := NewPlaceholder(key).Seal(50, 98.45, true, testWallet)
	require.NoError(t, err)
	b, err := NewPlaceholder(key).Seal(50, 98.45, true, testWallet)
	require.NoError(t, err)

	assert.Equal(t, a, b, "same intent and key material must seal identically")
}

func TestSealBindsInputs(t *testing.T) {
	b := newTestBackend(t)

	base, err := b.Seal(50, 98.45, true, testWallet)
	require.NoError(t, err)

	sell, err := b.Seal(50, 98.45, false, testWallet)
	require.NoError(t, err)
	assert.NotEqual(t, base.Proof, sell.Proof, "proof must bind the direction flag")
	assert.Equal(t, base.Amount, sell.Amount, "direction does not affect the amount ciphertext")

	other, err := b.Seal(51, 98.45, true, testWallet)
	require.NoError(t, err)
	assert.NotEqual(t, base.Amount, other.Amount)
	assert.NotEqual(t, base.Proof, other.Proof)

	otherKey := newTestBackend(t)
	foreign, err := otherKey.Seal(50, 98.45, true, testWallet)
	require.NoError(t, err)
	assert.NotEqual(t, base.Amount, foreign.Amount, "artifacts depend on the key fingerprint")
}

func TestKeyfileRoundTrip(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	keyHex := ethcrypto.FromECDSA(key)

	blob, err := SealKeyfile("0x"+hex.EncodeToString(keyHex), "hunter2")
	require.NoError(t, err)

	got, err := OpenKeyfile(blob, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(keyHex), got)

	_, err = OpenKeyfile(blob, "wrong")
	assert.Error(t, err)
}
