package ghostdagmanager

import (
	"sort"

	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

// mergeSet collects every parent other than selectedParent, plus their
// own ancestors, stopping a branch the moment it reaches a block
// already in selectedParent's past. The result comes back sorted
// ascending by blue work, ready for blue/red classification.
func (gm *manager) mergeSet(selectedParent *externalapi.DomainHash, blockParents []*externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	seen := make(map[externalapi.DomainHash]struct{}, gm.k)
	inSelectedParentPast := make(map[externalapi.DomainHash]struct{})

	frontier := make([]*externalapi.DomainHash, 0, len(blockParents))
	result := make([]*externalapi.DomainHash, 0, gm.k)
	for _, parent := range blockParents {
		if parent.Equal(selectedParent) {
			continue
		}
		seen[*parent] = struct{}{}
		frontier = append(frontier, parent)
		result = append(result, parent)
	}

	// frontier grows as ancestors are discovered, so a plain index
	// cursor walks the whole thing without re-slicing on every pop.
	for i := 0; i < len(frontier); i++ {
		ancestors, err := gm.dagTopologyManager.Parents(frontier[i])
		if err != nil {
			return nil, err
		}

		for _, ancestor := range ancestors {
			if _, alreadySeen := seen[*ancestor]; alreadySeen {
				continue
			}
			if _, alreadyPast := inSelectedParentPast[*ancestor]; alreadyPast {
				continue
			}

			isPast, err := gm.dagTopologyManager.IsAncestorOf(ancestor, selectedParent)
			if err != nil {
				return nil, err
			}
			if isPast {
				inSelectedParentPast[*ancestor] = struct{}{}
				continue
			}

			seen[*ancestor] = struct{}{}
			frontier = append(frontier, ancestor)
			result = append(result, ancestor)
		}
	}

	if err := gm.sortByBlueWork(result); err != nil {
		return nil, err
	}
	return result, nil
}

// sortByBlueWork fetches every member's GHOSTDAG data once up front and
// sorts against those fixed keys, rather than refetching storage from
// inside the comparator on every swap.
func (gm *manager) sortByBlueWork(hashes []*externalapi.DomainHash) error {
	keys := make([]*externalapi.BlockGHOSTDAGData, len(hashes))
	for i, hash := range hashes {
		data, err := gm.ghostdagDataStore.Get(gm.databaseContext, hash)
		if err != nil {
			return err
		}
		keys[i] = data
	}

	indices := make([]int, len(hashes))
	for i := range indices {
		indices[i] = i
	}
	sort.Slice(indices, func(i, j int) bool {
		a, b := indices[i], indices[j]
		return blueWorkLess(keys[a], keys[b], hashes[a], hashes[b])
	})

	sorted := make([]*externalapi.DomainHash, len(hashes))
	for i, idx := range indices {
		sorted[i] = hashes[idx]
	}
	copy(hashes, sorted)
	return nil
}
