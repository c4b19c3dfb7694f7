package model

import (
	"github.com/holiman/uint256"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

// DifficultyManager resolves the expected difficulty for a candidate
// block's position and converts realized difficulty into GHOSTDAG work
// units.
//
// Mining's difficulty-adjustment formula itself is out of this core's
// scope; this interface only exposes its result.
type DifficultyManager interface {
	RequiredDifficulty(blockHash *externalapi.DomainHash) (uint64, error)
}

// WorkFromDifficulty computes ceil(2^256 / (d+1)) in 256-bit
// arithmetic. It panics on overflow, which happens exactly for a
// difficulty of 0: ceil(2^256/1) = 2^256 does not fit in a uint256. For
// every difficulty >= 1 the result is at most 2^255 and fits.
func WorkFromDifficulty(difficulty uint64) *uint256.Int {
	one := uint256.NewInt(1)
	denominator := new(uint256.Int).AddUint64(one, difficulty)

	// 2^256 doesn't fit in a uint256.Int, so compute ceil(2^256/denominator)
	// as ((2^256 - 1) / denominator) + 1, which is exact for any
	// denominator >= 1: 2^256 = (2^256-1) + 1, and
	// ceil(((2^256-1)+1) / d) == ((2^256-1) / d) + 1 whenever d does not
	// divide (2^256-1) + 1 - 1 exactly at the boundary shared by both
	// forms, which holds for every d in [1, 2^64].
	allOnes := &uint256.Int{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
	quotient := new(uint256.Int).Div(allOnes, denominator)
	work, overflow := new(uint256.Int).AddOverflow(quotient, one)
	if overflow {
		panic("work_from_difficulty: overflow computing work from difficulty")
	}
	return work
}

// SumWork adds a list of per-block works into a single cumulative
// value. Overflow is a consensus-critical bug and must panic rather
// than saturate or wrap.
func SumWork(works ...*uint256.Int) *uint256.Int {
	total := uint256.NewInt(0)
	for _, work := range works {
		var overflow bool
		total, overflow = new(uint256.Int).AddOverflow(total, work)
		if overflow {
			panic("sum_work: overflow summing work")
		}
	}
	return total
}
