package enc

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// kdfIterations follows the OWASP minimum for PBKDF2-HMAC-SHA256.
	kdfIterations = 480_000
	keyfileSalt   = 16
	aesKeyLen     = 32
	keyfileV1     = 1
)

// keyfileJSON is the on-disk format for a password-protected signer key.
type keyfileJSON struct {
	Version    int    `json:"version"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// KeySource tells ResolveKey where the signer private key comes from.
type KeySource struct {
	// RawHex is the hex-encoded key (0x prefix optional). Takes precedence.
	RawHex string
	// KeyfilePath points at a JSON blob written by SealKeyfile.
	KeyfilePath string
	// Password decrypts the keyfile.
	Password string
}

// SealKeyfile wraps a hex-encoded private key with PBKDF2-HMAC-SHA256 key
// derivation and AES-256-GCM, returning the JSON blob for disk.
func SealKeyfile(privateKeyHex, password string) ([]byte, error) {
	if password == "" {
		return nil, errors.New("enc: keyfile password must not be empty")
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("enc: invalid private key hex: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("enc: expected 32-byte key, got %d bytes", len(raw))
	}

	salt := make([]byte, keyfileSalt)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("enc: generating salt: %w", err)
	}
	derived := pbkdf2.Key([]byte(password), salt, kdfIterations, aesKeyLen, sha256.New)

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("enc: creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("enc: creating GCM: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("enc: generating nonce: %w", err)
	}

	out := keyfileJSON{
		Version:    keyfileV1,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(gcm.Seal(nil, nonce, raw, nil)),
	}
	return json.MarshalIndent(out, "", "  ")
}

// OpenKeyfile reverses SealKeyfile, returning the hex-encoded key without a
// 0x prefix.
func OpenKeyfile(blob []byte, password string) (string, error) {
	if password == "" {
		return "", errors.New("enc: keyfile password must not be empty")
	}

	var stored keyfileJSON
	if err := json.Unmarshal(blob, &stored); err != nil {
		return "", fmt.Errorf("enc: parsing keyfile: %w", err)
	}
	if stored.Version != keyfileV1 {
		return "", fmt.Errorf("enc: unsupported keyfile version %d", stored.Version)
	}

	salt, err := base64.StdEncoding.DecodeString(stored.Salt)
	if err != nil {
		return "", fmt.Errorf("enc: decoding salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(stored.Nonce)
	if err != nil {
		return "", fmt.Errorf("enc: decoding nonce: %w", err)
	}
	ct, err := base64.StdEncoding.DecodeString(stored.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("enc: decoding ciphertext: %w", err)
	}

	derived := pbkdf2.Key([]byte(password), salt, kdfIterations, aesKeyLen, sha256.New)
	block, err := aes.NewCipher(derived)
	if err != nil {
		return "", fmt.Errorf("enc: creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("enc: creating GCM: %w", err)
	}

	plain, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("enc: keyfile decryption failed (wrong password?): %w", err)
	}
	return hex.EncodeToString(plain), nil
}

// ResolveKey resolves the signer key, preferring RawHex and falling back to
// the keyfile.
func ResolveKey(src KeySource) (string, error) {
	if src.RawHex != "" {
		k := strings.TrimPrefix(src.RawHex, "0x")
		if _, err := hex.DecodeString(k); err != nil {
			return "", fmt.Errorf("enc: raw key is not valid hex: %w", err)
		}
		return k, nil
	}

	if src.KeyfilePath != "" {
		blob, err := os.ReadFile(src.KeyfilePath)
		if err != nil {
			return "", fmt.Errorf("enc: reading keyfile: %w", err)
		}
		return OpenKeyfile(blob, src.Password)
	}

	return "", errors.New("enc: no signer key configured (set RawHex or KeyfilePath)")
}
