package reachabilitymanager

import (
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

// reindexRootTrailingDepth is how many blocks the reindex root is allowed
// to trail behind the selected tip before it's advanced. Keeping it well
// behind the tip means routine, near-tip reindexing (the common case)
// never needs to walk above it; advancing it periodically keeps the
// bound from drifting back to genesis forever as the chain grows.
const reindexRootTrailingDepth = 100

// reindexRootOrNil returns the current reindex root, or nil if none has
// been set yet (before the first UpdateReindexRoot call).
func (rt *manager) reindexRootOrNil() (*externalapi.DomainHash, error) {
	root, err := rt.reachabilityStore.ReindexRoot(rt.databaseContext)
	if err != nil {
		if model.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return root, nil
}

// UpdateReindexRoot moves the reindex root to stay a bounded distance
// behind selectedTip on its selected-parent chain.
func (rt *manager) UpdateReindexRoot(selectedTip *externalapi.DomainHash) error {
	current, err := rt.reindexRootOrNil()
	if err != nil {
		return err
	}
	if current == nil {
		rt.reachabilityStore.StageReindexRoot(selectedTip)
		return nil
	}

	isAncestor, err := rt.IsChainAncestorOf(current, selectedTip)
	if err != nil {
		return err
	}

	var newRoot *externalapi.DomainHash
	if isAncestor {
		tipData, err := rt.reachabilityStore.Get(rt.databaseContext, selectedTip)
		if err != nil {
			return err
		}
		currentData, err := rt.reachabilityStore.Get(rt.databaseContext, current)
		if err != nil {
			return err
		}
		if tipData.Height-currentData.Height <= reindexRootTrailingDepth {
			return nil
		}
		newRoot, err = rt.ancestorAtHeight(selectedTip, currentData.Height+1)
		if err != nil {
			return err
		}
	} else {
		// selectedTip moved off current's chain (reorg); fall back to the
		// nearest chain ancestor of selectedTip that is no deeper than
		// current, which is still a valid (if conservative) new bound.
		currentData, err := rt.reachabilityStore.Get(rt.databaseContext, current)
		if err != nil {
			return err
		}
		newRoot, err = rt.ancestorAtHeight(selectedTip, currentData.Height)
		if err != nil {
			return err
		}
	}

	rt.reachabilityStore.StageReindexRoot(newRoot)
	return nil
}

// ancestorAtHeight walks up from, via chain parents, to the first
// ancestor at or below targetHeight.
func (rt *manager) ancestorAtHeight(from *externalapi.DomainHash, targetHeight uint64) (*externalapi.DomainHash, error) {
	current := from
	for {
		data, err := rt.reachabilityStore.Get(rt.databaseContext, current)
		if err != nil {
			return nil, err
		}
		if data.Height <= targetHeight || data.Parent == nil {
			return current, nil
		}
		current = data.Parent
	}
}
