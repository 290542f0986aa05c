package typecache

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/sha3"
)

// Fingerprint identifies a proxy target together with its generation context.
type Fingerprint [32]byte

// NewFingerprint hashes a canonical rendering of a target.
// Equal renderings give equal fingerprints.
func NewFingerprint(canonical string) Fingerprint {
	return sha3.Sum256([]byte(canonical))
}

// String returns the base58 encoding of the fingerprint.
func (f Fingerprint) String() string {
	return base58.Encode(f[:])
}

// Short returns the first characters of String, for log output.
func (f Fingerprint) Short() string {
	const shortLen = 10

	s := f.String()
	if len(s) > shortLen {
		return s[:shortLen]
	}

	return s
}
