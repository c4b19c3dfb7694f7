// Package chainvalidator re-runs the block processor's structural,
// proof-of-work and GHOSTDAG checks over a peer-offered chain suffix
// against an in-memory overlay of current storage, then decides
// whether the peer's chain has strictly greater blue_work than ours
// and should replace it.
package chainvalidator

import (
	"github.com/tos-network/tos-sub006/domain/consensus/datastructures/blockrelationstore"
	"github.com/tos-network/tos-sub006/domain/consensus/datastructures/blockstore"
	"github.com/tos-network/tos-sub006/domain/consensus/datastructures/ghostdagdatastore"
	"github.com/tos-network/tos-sub006/domain/consensus/datastructures/reachabilitydatastore"
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/consensus/processes/dagtopologymanager"
	"github.com/tos-network/tos-sub006/domain/consensus/processes/difficultymanager"
	"github.com/tos-network/tos-sub006/domain/consensus/processes/ghostdagmanager"
	"github.com/tos-network/tos-sub006/domain/consensus/processes/reachabilitymanager"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/blockvalidation"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/hashserialization"
	"github.com/tos-network/tos-sub006/domain/dagconfig"
)

// overlayCacheSize bounds the LRU cache size for a sync session's
// overlay stores. Sessions are short-lived and the candidate chain
// suffix is bounded by the sync protocol, so a small cache suffices.
const overlayCacheSize = 256

type validator struct {
	params          *dagconfig.Params
	databaseContext model.DBReader

	realBlockStore         model.BlockProvider
	realGhostdagDataStore  model.GHOSTDAGProvider
	realDagTopologyManager model.DAGTopologyManager
	realGhostdagManager    model.GHOSTDAGManager
}

// New constructs a chain validator over the given real storage and
// processes.
func New(
	params *dagconfig.Params,
	databaseContext model.DBReader,
	realBlockStore model.BlockProvider,
	realGhostdagDataStore model.GHOSTDAGProvider,
	realDagTopologyManager model.DAGTopologyManager,
	realGhostdagManager model.GHOSTDAGManager,
) model.ChainValidator {
	return &validator{
		params:                 params,
		databaseContext:        databaseContext,
		realBlockStore:         realBlockStore,
		realGhostdagDataStore:  realGhostdagDataStore,
		realDagTopologyManager: realDagTopologyManager,
		realGhostdagManager:    realGhostdagManager,
	}
}

// ValidateChain implements model.ChainValidator.
func (v *validator) ValidateChain(candidates []*externalapi.DomainBlockHeader) (bool, error) {
	if len(candidates) == 0 {
		return false, nil
	}

	overlayBlockStore := blockstore.New(overlayCacheSize)
	overlayBlockRelationStore := blockrelationstore.New(overlayCacheSize)
	overlayGhostdagDataStore := ghostdagdatastore.New(overlayCacheSize)
	overlayReachabilityStore := reachabilitydatastore.New(overlayCacheSize)

	overlayReachabilityManager := reachabilitymanager.New(v.databaseContext, overlayReachabilityStore)
	overlayDagTopologyManager := dagtopologymanager.New(
		v.databaseContext, overlayReachabilityManager, overlayBlockRelationStore, overlayBlockStore)
	overlayDifficultyManager := difficultymanager.New(v.databaseContext, overlayBlockStore)
	overlayGhostdagManager := ghostdagmanager.New(
		v.databaseContext, overlayDagTopologyManager, overlayGhostdagDataStore, overlayDifficultyManager, uint16(v.params.K))

	var tipHash *externalapi.DomainHash
	for _, header := range candidates {
		blockHash := hashserialization.HeaderHash(header)
		tipHash = blockHash

		if err := v.validateCandidate(header, blockHash, overlayBlockStore, overlayBlockRelationStore,
			overlayGhostdagDataStore, overlayReachabilityManager, overlayGhostdagManager, overlayDifficultyManager); err != nil {
			return false, err
		}
	}

	overlayTipWork, err := overlayGhostdagDataStore.BlueWork(v.databaseContext, tipHash)
	if err != nil {
		return false, newTerminalError(err)
	}

	ourTips, err := v.realDagTopologyManager.Tips()
	if err != nil {
		return false, newTerminalError(err)
	}
	ourBestTip, err := v.realGhostdagManager.ChooseSelectedParent(ourTips...)
	if err != nil {
		return false, newTerminalError(err)
	}
	ourWork, err := v.realGhostdagDataStore.BlueWork(v.databaseContext, ourBestTip)
	if err != nil {
		return false, newTerminalError(err)
	}

	return overlayTipWork.Cmp(ourWork) > 0, nil
}

// validateCandidate runs the block processor's structural, PoW and
// GHOSTDAG-placement checks for a single header against the overlay,
// then stages its header and derived data into the overlay stores
// (never into real storage) so later candidates in the same chain
// suffix see it as an existing parent.
func (v *validator) validateCandidate(
	header *externalapi.DomainBlockHeader,
	blockHash *externalapi.DomainHash,
	overlayBlockStore model.BlockProvider,
	overlayBlockRelationStore model.BlockRelationProvider,
	overlayGhostdagDataStore model.GHOSTDAGProvider,
	overlayReachabilityManager model.ReachabilityManager,
	overlayGhostdagManager model.GHOSTDAGManager,
	overlayDifficultyManager model.DifficultyManager,
) error {
	if err := blockvalidation.CheckSyntax(header, v.params); err != nil {
		return newTerminalError(err)
	}

	for _, parent := range header.Parents {
		hasParent, err := overlayBlockStore.Has(v.databaseContext, parent)
		if err != nil {
			return newTerminalError(err)
		}
		if !hasParent {
			// The peer's suffix references a parent we have neither in
			// storage nor in this session's overlay yet. This is the
			// classic "peer is still syncing too" race, not a
			// malformed chain: the caller can retry once it has more
			// of the suffix.
			return newRetryableError(nil, "parent %s of candidate %s is not yet known", parent, blockHash)
		}
	}

	overlayBlockStore.Stage(blockHash, header)

	if err := blockvalidation.CheckProofOfWork(blockHash, overlayDifficultyManager); err != nil {
		return newTerminalError(err)
	}

	ghostdagData, err := overlayGhostdagManager.GHOSTDAG(blockHash, header.Parents)
	if err != nil {
		return newTerminalError(err)
	}
	if err := blockvalidation.CheckHeightAndScore(v.databaseContext, overlayBlockStore, blockHash, header, ghostdagData); err != nil {
		return newTerminalError(err)
	}
	overlayGhostdagDataStore.Stage(blockHash, ghostdagData)

	overlayBlockRelationStore.Stage(blockHash, &model.BlockRelations{Parents: externalapi.CloneHashes(header.Parents)})
	maxParentHeight, err := maxHeight(v.databaseContext, overlayBlockStore, header.Parents)
	if err != nil {
		return newTerminalError(err)
	}
	overlayBlockStore.AddBlockAtHeight(blockHash, maxParentHeight+1)

	if err := overlayReachabilityManager.AddBlock(blockHash, ghostdagData.SelectedParent(), header.Parents); err != nil {
		return newTerminalError(err)
	}
	return nil
}

func maxHeight(databaseContext model.DBReader, blockStore model.BlockProvider, hashes []*externalapi.DomainHash) (uint64, error) {
	var max uint64
	for _, hash := range hashes {
		height, err := blockStore.HeightOf(databaseContext, hash)
		if err != nil {
			return 0, err
		}
		if height > max {
			max = height
		}
	}
	return max, nil
}
