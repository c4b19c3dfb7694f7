package ghostdagmanager

import (
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

// blueWorkLess reports whether a sorts before b: lower blue work
// first, lower hash first on a tie.
func blueWorkLess(a, b *externalapi.BlockGHOSTDAGData, aHash, bHash *externalapi.DomainHash) bool {
	if cmp := a.BlueWork().Cmp(b.BlueWork()); cmp != 0 {
		return cmp < 0
	}
	return aHash.Less(bHash)
}

// ChooseSelectedParent returns whichever of the given hashes has the
// greatest blue work, ties broken toward the larger hash.
func (gm *manager) ChooseSelectedParent(blockHashes ...*externalapi.DomainHash) (*externalapi.DomainHash, error) {
	best := blockHashes[0]
	bestData, err := gm.ghostdagDataStore.Get(gm.databaseContext, best)
	if err != nil {
		return nil, err
	}

	for _, candidate := range blockHashes[1:] {
		candidateData, err := gm.ghostdagDataStore.Get(gm.databaseContext, candidate)
		if err != nil {
			return nil, err
		}
		if blueWorkLess(bestData, candidateData, best, candidate) {
			best, bestData = candidate, candidateData
		}
	}
	return best, nil
}
