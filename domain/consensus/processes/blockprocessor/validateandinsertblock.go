package blockprocessor

import (
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/consensus/ruleerrors"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/blockvalidation"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/hashserialization"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/pow"
)

// ValidateAndInsertBlock runs structural validation, PoW, GHOSTDAG
// placement and reachability registration over block and, if it
// passes, commits it and everything it changed in a single transaction.
func (p *processor) ValidateAndInsertBlock(block *externalapi.DomainBlock) error {
	header := block.Header
	blockHash := hashserialization.HeaderHash(header)

	if len(header.Parents) == 0 {
		return p.validateAndInsertGenesis(block, blockHash)
	}

	if err := blockvalidation.CheckSyntax(header, p.params); err != nil {
		return err
	}

	exists, err := p.blockStore.Has(p.databaseContext, blockHash)
	if err != nil {
		return err
	}
	if exists {
		return ruleerrors.New(ruleerrors.ErrAlreadyInChain, "block %s is already in the DAG", blockHash)
	}

	for _, parent := range header.Parents {
		hasParent, err := p.blockStore.Has(p.databaseContext, parent)
		if err != nil {
			return err
		}
		if !hasParent {
			return ruleerrors.New(ruleerrors.ErrUnknownParent, "parent %s of block %s is unknown", parent, blockHash)
		}
	}

	// Stage the header so difficultyManager (which reads headers back
	// out of blockStore) can resolve this not-yet-committed block's
	// required difficulty, and the selected-parent chain's cumulative
	// difficulty and GHOSTDAG data can reference it by hash.
	p.blockStore.Stage(blockHash, header)

	if err := blockvalidation.CheckProofOfWork(blockHash, p.difficultyManager); err != nil {
		p.discardAllChanges()
		return err
	}

	ghostdagData, err := p.ghostdagManager.GHOSTDAG(blockHash, header.Parents)
	if err != nil {
		p.discardAllChanges()
		return err
	}

	if err := blockvalidation.CheckHeightAndScore(p.databaseContext, p.blockStore, blockHash, header, ghostdagData); err != nil {
		p.discardAllChanges()
		return err
	}

	p.ghostdagDataStore.Stage(blockHash, ghostdagData)

	if err := p.stageCumulativeDifficulty(blockHash, header); err != nil {
		p.discardAllChanges()
		return err
	}

	if err := p.stageBlockRelations(blockHash, header.Parents); err != nil {
		p.discardAllChanges()
		return err
	}

	oldTips, err := p.dagTopologyManager.Tips()
	if err != nil {
		p.discardAllChanges()
		return err
	}
	oldBestTip, err := p.bestTip(oldTips)
	if err != nil {
		p.discardAllChanges()
		return err
	}

	if err := p.reachabilityManager.AddBlock(blockHash, ghostdagData.SelectedParent(), header.Parents); err != nil {
		p.discardAllChanges()
		return err
	}

	newTips, err := p.stageTips(blockHash, header.Parents, oldTips)
	if err != nil {
		p.discardAllChanges()
		return err
	}
	p.blockStore.AddBlockAtHeight(blockHash, header.Height)

	newBestTip, err := p.bestTip(newTips)
	if err != nil {
		p.discardAllChanges()
		return err
	}
	if err := p.reachabilityManager.UpdateReindexRoot(newBestTip); err != nil {
		p.discardAllChanges()
		return err
	}

	if err := p.commitAllChanges(); err != nil {
		return err
	}

	if _, err := p.topoheightStore.AdvanceTopoheight(blockHash); err != nil {
		return err
	}

	log.Infof("accepted block %s at height %d, blue score %d", blockHash, header.Height, ghostdagData.BlueScore())

	if p.mempool == nil {
		return nil
	}
	if oldBestTip != nil && !oldBestTip.Equal(newBestTip) {
		return p.mempool.FullCleanup()
	}
	return p.mempool.Cleanup()
}

func (p *processor) stageCumulativeDifficulty(blockHash *externalapi.DomainHash, header *externalapi.DomainBlockHeader) error {
	var maxParentCumulativeDifficulty uint64
	for _, parent := range header.Parents {
		parentCumulativeDifficulty, err := p.blockStore.CumulativeDifficultyOf(p.databaseContext, parent)
		if err != nil {
			return err
		}
		if parentCumulativeDifficulty > maxParentCumulativeDifficulty {
			maxParentCumulativeDifficulty = parentCumulativeDifficulty
		}
	}
	realizedDifficulty := pow.RealizedDifficulty(blockHash)
	p.blockStore.StageCumulativeDifficulty(blockHash, maxParentCumulativeDifficulty+realizedDifficulty)
	return nil
}

func (p *processor) stageBlockRelations(blockHash *externalapi.DomainHash, parents []*externalapi.DomainHash) error {
	p.blockRelationStore.Stage(blockHash, &model.BlockRelations{Parents: externalapi.CloneHashes(parents)})

	for _, parent := range parents {
		relations, err := p.blockRelationStore.Get(p.databaseContext, parent)
		if err != nil {
			return err
		}
		relations.Children = append(relations.Children, blockHash)
		p.blockRelationStore.Stage(parent, relations)
	}
	return nil
}

// stageTips computes and stages the new tip set: the old tips minus
// whichever of them just gained blockHash as a child, plus blockHash
// itself.
func (p *processor) stageTips(blockHash *externalapi.DomainHash, parents,
	oldTips []*externalapi.DomainHash) ([]*externalapi.DomainHash, error) {

	parentSet := make(map[externalapi.DomainHash]struct{}, len(parents))
	for _, parent := range parents {
		parentSet[*parent] = struct{}{}
	}

	newTips := make([]*externalapi.DomainHash, 0, len(oldTips)+1)
	for _, tip := range oldTips {
		if _, isParent := parentSet[*tip]; isParent {
			continue
		}
		newTips = append(newTips, tip)
	}
	newTips = append(newTips, blockHash)

	p.blockStore.StageTips(newTips)
	return newTips, nil
}

// bestTip returns whichever of tips has the greatest blue work, tied
// broken hash-descending. It returns nil for an empty tip set (only
// possible before genesis exists).
func (p *processor) bestTip(tips []*externalapi.DomainHash) (*externalapi.DomainHash, error) {
	if len(tips) == 0 {
		return nil, nil
	}
	return p.ghostdagManager.ChooseSelectedParent(tips...)
}

// validateAndInsertGenesis seeds the single block every chain is rooted
// at. It bypasses the usual flow entirely: there is no selected parent
// to inherit GHOSTDAG or reachability data from, and no PoW requirement
// predates mining.
func (p *processor) validateAndInsertGenesis(block *externalapi.DomainBlock, blockHash *externalapi.DomainHash) error {
	if !blockHash.Equal(p.params.GenesisHash) {
		return ruleerrors.New(ruleerrors.ErrUnknownParent, "block %s has no parents and is not the genesis block", blockHash)
	}

	exists, err := p.blockStore.Has(p.databaseContext, blockHash)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	p.blockStore.Stage(blockHash, block.Header)
	p.blockStore.AddBlockAtHeight(blockHash, 0)
	p.blockStore.StageCumulativeDifficulty(blockHash, block.Header.Difficulty)
	p.blockStore.StageTips([]*externalapi.DomainHash{blockHash})

	p.ghostdagDataStore.Stage(blockHash, externalapi.NewGenesisBlockGHOSTDAGData(blockHash))
	p.blockRelationStore.Stage(blockHash, &model.BlockRelations{})

	p.reachabilityStore.Stage(blockHash, externalapi.NewReachabilityData(nil, externalapi.NewIntervalMaximal(), 0))
	p.reachabilityStore.StageReindexRoot(blockHash)

	if err := p.commitAllChanges(); err != nil {
		return err
	}
	if _, err := p.topoheightStore.AdvanceTopoheight(blockHash); err != nil {
		return err
	}
	log.Infof("accepted genesis block %s", blockHash)
	return nil
}
