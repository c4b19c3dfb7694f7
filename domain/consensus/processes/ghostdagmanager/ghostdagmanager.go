// Package ghostdagmanager computes the GHOSTDAG block-ordering data that
// turns a DAG of blocks into a single total order: a selected-parent
// chain, a blue/red classification of every other merged block, and the
// blue-work figure chain selection and reorg decisions are made on.
package ghostdagmanager

import (
	"github.com/holiman/uint256"
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

type manager struct {
	databaseContext    model.DBReader
	dagTopologyManager model.DAGTopologyManager
	ghostdagDataStore  model.GHOSTDAGProvider
	difficultyManager  model.DifficultyManager
	k                  uint16
}

// New constructs a GHOSTDAG manager with the given K security parameter.
func New(
	databaseContext model.DBReader,
	dagTopologyManager model.DAGTopologyManager,
	ghostdagDataStore model.GHOSTDAGProvider,
	difficultyManager model.DifficultyManager,
	k uint16,
) model.GHOSTDAGManager {
	return &manager{
		databaseContext:    databaseContext,
		dagTopologyManager: dagTopologyManager,
		ghostdagDataStore:  ghostdagDataStore,
		difficultyManager:  difficultyManager,
		k:                  k,
	}
}

// GHOSTDAG computes blockHash's GHOSTDAG data: it picks the
// highest-blue-work parent as selected parent, walks the rest of the
// merge set classifying each block blue or red under the K-cluster rule,
// and derives blue score, blue work and the DAA score from the result.
func (gm *manager) GHOSTDAG(blockHash *externalapi.DomainHash, parents []*externalapi.DomainHash) (*externalapi.BlockGHOSTDAGData, error) {
	if len(parents) == 0 {
		panic("ghostdag: block has no parents")
	}

	selectedParent, err := gm.ChooseSelectedParent(parents...)
	if err != nil {
		return nil, err
	}
	selectedParentData, err := gm.ghostdagDataStore.Get(gm.databaseContext, selectedParent)
	if err != nil {
		return nil, err
	}

	mergeSet, err := gm.mergeSet(selectedParent, parents)
	if err != nil {
		return nil, err
	}

	mergeSetBlues := []*externalapi.DomainHash{selectedParent}
	var mergeSetReds []*externalapi.DomainHash
	bluesAnticoneSizes := map[externalapi.DomainHash]uint16{*selectedParent: 0}

	for _, candidate := range mergeSet {
		anticoneBlues, ok, err := gm.checkBlueCandidate(candidate, mergeSetBlues, bluesAnticoneSizes)
		if err != nil {
			return nil, err
		}
		if ok {
			mergeSetBlues = append(mergeSetBlues, candidate)
			bluesAnticoneSizes[*candidate] = uint16(len(anticoneBlues))
			for _, blue := range anticoneBlues {
				bluesAnticoneSizes[*blue]++
			}
		} else {
			mergeSetReds = append(mergeSetReds, candidate)
		}
	}

	blockWork, err := gm.workOf(blockHash)
	if err != nil {
		return nil, err
	}

	// blueWork accumulates every blue block's own work, not just the
	// selected-parent chain's: that's what lets a wide fan of merged
	// sidechains outweigh a thin but longer selected chain.
	ownWorks := []*uint256.Int{selectedParentData.BlueWork(), blockWork}
	for _, blue := range mergeSetBlues {
		if blue.Equal(selectedParent) {
			continue
		}
		work, err := gm.workOf(blue)
		if err != nil {
			return nil, err
		}
		ownWorks = append(ownWorks, work)
	}
	blueWork := model.SumWork(ownWorks...)

	blueScore := selectedParentData.BlueScore() + uint64(len(mergeSetBlues))
	daaScore := selectedParentData.DAAScore() + uint64(len(mergeSetBlues))

	return externalapi.NewBlockGHOSTDAGData(
		blueScore,
		blueWork,
		daaScore,
		selectedParent,
		mergeSetBlues,
		mergeSetReds,
		bluesAnticoneSizes,
	), nil
}

// checkBlueCandidate decides whether candidate can be added to the blue
// set already built (blues, in insertion order) without violating the
// K-cluster property: candidate's anticone among the current blues, and
// each of those blues' own anticone (tracked via anticoneSizes), must
// stay within K.
func (gm *manager) checkBlueCandidate(
	candidate *externalapi.DomainHash,
	blues []*externalapi.DomainHash,
	anticoneSizes map[externalapi.DomainHash]uint16,
) ([]*externalapi.DomainHash, bool, error) {
	var anticoneBlues []*externalapi.DomainHash

	for _, blue := range blues {
		isAncestor, err := gm.dagTopologyManager.IsAncestorOf(blue, candidate)
		if err != nil {
			return nil, false, err
		}
		if isAncestor {
			continue
		}
		isDescendant, err := gm.dagTopologyManager.IsAncestorOf(candidate, blue)
		if err != nil {
			return nil, false, err
		}
		if isDescendant {
			continue
		}
		anticoneBlues = append(anticoneBlues, blue)
	}

	if uint16(len(anticoneBlues)) > gm.k {
		return nil, false, nil
	}
	for _, blue := range anticoneBlues {
		if anticoneSizes[*blue]+1 > gm.k {
			return nil, false, nil
		}
	}
	return anticoneBlues, true, nil
}

func (gm *manager) workOf(blockHash *externalapi.DomainHash) (*uint256.Int, error) {
	difficulty, err := gm.difficultyManager.RequiredDifficulty(blockHash)
	if err != nil {
		return nil, err
	}
	return model.WorkFromDifficulty(difficulty), nil
}
