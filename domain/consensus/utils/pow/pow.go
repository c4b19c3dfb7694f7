// Package pow checks a block's hash against the target implied by a
// difficulty value, and derives the difficulty realized by an actual
// hash. Difficulty and target are related the same way the GHOSTDAG work
// function relates difficulty and work (model.WorkFromDifficulty):
// target(d) = floor((2^256-1) / (d+1)).
package pow

import (
	"github.com/holiman/uint256"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

var maxTarget = &uint256.Int{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}

// Target returns the maximum hash value (as a 256-bit integer) that
// satisfies difficulty.
func Target(difficulty uint64) *uint256.Int {
	denominator := new(uint256.Int).AddUint64(uint256.NewInt(1), difficulty)
	return new(uint256.Int).Div(maxTarget, denominator)
}

// HashToInt reinterprets a hash's bytes as a big-endian 256-bit integer.
func HashToInt(hash *externalapi.DomainHash) *uint256.Int {
	return new(uint256.Int).SetBytes(hash[:])
}

// CheckProofOfWork reports whether hash satisfies difficulty, i.e.
// hash's integer value does not exceed Target(difficulty).
func CheckProofOfWork(hash *externalapi.DomainHash, difficulty uint64) bool {
	return HashToInt(hash).Cmp(Target(difficulty)) <= 0
}

// RealizedDifficulty derives the highest difficulty hash's integer value
// satisfies. It is the inverse of Target: the largest d for which
// Target(d) >= hashInt. Hash values of zero (astronomically unlikely)
// saturate at MaxUint64 rather than overflow.
func RealizedDifficulty(hash *externalapi.DomainHash) uint64 {
	hashInt := HashToInt(hash)
	one := uint256.NewInt(1)
	if hashInt.IsZero() {
		return ^uint64(0)
	}
	quotient := new(uint256.Int).Div(maxTarget, hashInt)
	if quotient.IsZero() {
		return 0
	}
	realized := new(uint256.Int).Sub(quotient, one)
	if !realized.IsUint64() {
		return ^uint64(0)
	}
	return realized.Uint64()
}
