package crypto

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomHex returns 0x-prefixed random hex of n bytes. It is used to
// mint off-chain transaction references for reward claims.
func GenerateRandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return "0x" + hex.EncodeToString(b), nil
}
