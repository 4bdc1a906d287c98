package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BondListing is an immutable display snapshot of a listed bond, supplied by
// an external data source. The trade pipeline never mutates it.
type BondListing struct {
	Issuer         string
	ID             string // "BOND-<numeric>"; the suffix is the on-chain index
	Maturity       time.Time
	Coupon         string // percentage, e.g. "5.25%"
	Rating         string // credit grade, e.g. "AA-"
	Yield          string // percentage, e.g. "4.18%"
	Volume         string // display string, e.g. "$12.4M"
	EncryptedPrice []byte // opaque ciphertext, display-only until decrypted
	IsEncrypted    bool
}

// ParseBondIndex extracts the on-chain bond index from a listing identifier.
// The identifier must have a numeric second segment after splitting on "-"
// ("BOND-001" -> 1). Anything else fails with ErrMalformedBondID.
func ParseBondIndex(id string) (uint64, error) {
	parts := strings.Split(id, "-")
	if len(parts) < 2 || parts[1] == "" {
		return 0, fmt.Errorf("domain: bond id %q: %w", id, ErrMalformedBondID)
	}
	idx, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("domain: bond id %q: %w", id, ErrMalformedBondID)
	}
	return idx, nil
}
