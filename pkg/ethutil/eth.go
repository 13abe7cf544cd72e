package ethutil

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
)

// ConvertToWei converts a price denominated in whole coins to wei. Prices are
// stored off chain as floats, so the multiplication happens in big.Float
// before truncating.
func ConvertToWei(price float64) *big.Int {
	wei := new(big.Float).Mul(big.NewFloat(price), big.NewFloat(params.Ether))
	result, _ := wei.Int(nil)
	return result
}

// HashMessage keccak-hashes the concatenation of fields the same way the
// claim-verification contract does before checking a signature.
func HashMessage(fields ...[]byte) common.Hash {
	return ethcrypto.Keccak256Hash(fields...)
}
