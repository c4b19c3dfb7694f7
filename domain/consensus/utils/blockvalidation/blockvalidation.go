// Package blockvalidation holds the structural and proof-of-work checks
// in a form shared by the block processor (validating blocks against
// real storage) and the chain validator (validating candidates against
// a sync-time overlay), so neither re-implements the other's rules.
package blockvalidation

import (
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/consensus/ruleerrors"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/pow"
	"github.com/tos-network/tos-sub006/domain/dagconfig"
)

// CheckSyntax validates the block header's structural invariants that
// don't require looking anything up in storage: no duplicate parents
// or transactions, and both within their configured limits.
func CheckSyntax(header *externalapi.DomainBlockHeader, params *dagconfig.Params) error {
	if externalapi.HasDuplicates(header.Parents) {
		return ruleerrors.New(ruleerrors.ErrInvalidTipsCount, "block declares duplicate parents")
	}
	if len(header.Parents) > params.TipsLimit {
		return ruleerrors.New(ruleerrors.ErrInvalidTipsCount, "block declares %d parents, limit is %d",
			len(header.Parents), params.TipsLimit)
	}
	if externalapi.HasDuplicates(header.Txs) {
		return ruleerrors.New(ruleerrors.ErrInvalidSize, "block declares duplicate transactions")
	}
	if len(header.Txs) > params.MaxTxsPerBlock {
		return ruleerrors.New(ruleerrors.ErrInvalidSize, "block declares %d transactions, limit is %d",
			len(header.Txs), params.MaxTxsPerBlock)
	}
	return nil
}

// CheckProofOfWork verifies blockHash satisfies the difficulty the
// difficulty engine requires for this position: the claimed difficulty
// must be realized by the actual hash.
func CheckProofOfWork(blockHash *externalapi.DomainHash, difficultyManager model.DifficultyManager) error {
	expectedDifficulty, err := difficultyManager.RequiredDifficulty(blockHash)
	if err != nil {
		return err
	}
	if !pow.CheckProofOfWork(blockHash, expectedDifficulty) {
		return ruleerrors.New(ruleerrors.ErrInvalidPoW,
			"block %s hash does not satisfy its claimed difficulty of %d", blockHash, expectedDifficulty)
	}
	return nil
}

// CheckHeightAndScore validates the block header's height invariant and
// that the header's declared blue score matches the GHOSTDAG engine's
// own computation for this block.
func CheckHeightAndScore(databaseContext model.DBReader, blockStore model.BlockProvider,
	blockHash *externalapi.DomainHash, header *externalapi.DomainBlockHeader,
	ghostdagData *externalapi.BlockGHOSTDAGData) error {

	var maxParentHeight uint64
	for _, parent := range header.Parents {
		parentHeight, err := blockStore.HeightOf(databaseContext, parent)
		if err != nil {
			return err
		}
		if parentHeight > maxParentHeight {
			maxParentHeight = parentHeight
		}
	}
	if header.Height != maxParentHeight+1 {
		return ruleerrors.New(ruleerrors.ErrInvalidBlockHeight,
			"block %s declares height %d, expected %d", blockHash, header.Height, maxParentHeight+1)
	}
	if header.BlueScore != ghostdagData.BlueScore() {
		return ruleerrors.New(ruleerrors.ErrInvalidBlockHeight,
			"block %s declares blue score %d, GHOSTDAG computed %d", blockHash, header.BlueScore, ghostdagData.BlueScore())
	}
	return nil
}
