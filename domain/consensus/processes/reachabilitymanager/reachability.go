// Package reachabilitymanager implements the reachability index: an
// interval label per block, maintained so that chain-ancestry reduces
// to O(1) interval containment and DAG-ancestry to an O(log n) search
// over a future-covering set.
package reachabilitymanager

import (
	"github.com/pkg/errors"
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

// minFreeTail is the smallest free-tail size AddBlock will carve a child
// interval from without first reindexing. A tail below this can still
// produce a valid (size-1) child interval but leaves no slack for the
// next sibling, so it's treated the same as exhaustion.
const minFreeTail = 2

type manager struct {
	databaseContext   model.DBReader
	reachabilityStore model.ReachabilityProvider
}

// New constructs a reachability manager over the given store.
func New(databaseContext model.DBReader, reachabilityStore model.ReachabilityProvider) model.ReachabilityManager {
	return &manager{
		databaseContext:   databaseContext,
		reachabilityStore: reachabilityStore,
	}
}

// AddBlock registers new as a chain-child of chainParent, allocating it
// an interval carved from chainParent's free tail capacity (reindexing
// first if that capacity is exhausted), and records new in the future
// covering set of every other DAG parent so later IsDAGAncestorOf
// queries against it succeed.
func (rt *manager) AddBlock(new, chainParent *externalapi.DomainHash, dagParents []*externalapi.DomainHash) error {
	parentData, err := rt.reachabilityStore.Get(rt.databaseContext, chainParent)
	if err != nil {
		if model.IsNotFound(err) {
			panic(errors.Errorf("reachability data missing for chain parent %s", chainParent))
		}
		return err
	}

	interval, err := rt.allocateInterval(chainParent)
	if err != nil {
		return err
	}

	// No re-fetch: allocateInterval may have reindexed chainParent's
	// subtree, which rewrites its Children's intervals but not the slice
	// itself, so parentData.Children is still valid to reuse.
	newData := externalapi.NewReachabilityData(chainParent, interval, parentData.Height+1)
	newData.SetTreeSize(1)
	rt.reachabilityStore.Stage(new, newData)

	children := append(append([]*externalapi.DomainHash{}, parentData.Children...), new)
	rt.reachabilityStore.StageChildren(chainParent, children)

	for _, dagParent := range dagParents {
		if dagParent.Equal(chainParent) {
			continue
		}
		if err := rt.insertToFutureCoveringSet(dagParent, new); err != nil {
			return err
		}
	}

	return rt.bumpTreeSizes(chainParent)
}

// bumpTreeSizes increments the cached subtree size of chainParent and
// every one of its chain ancestors, up to the reindex root (or the DAG
// root if none is set), reflecting the one new tree-descendant just
// added.
func (rt *manager) bumpTreeSizes(from *externalapi.DomainHash) error {
	reindexRoot, err := rt.reindexRootOrNil()
	if err != nil {
		return err
	}

	current := from
	for {
		data, err := rt.reachabilityStore.Get(rt.databaseContext, current)
		if err != nil {
			return err
		}
		data.SetTreeSize(data.TreeSize() + 1)
		rt.reachabilityStore.Stage(current, data)

		if reindexRoot != nil && current.Equal(reindexRoot) {
			return nil
		}
		if data.Parent == nil {
			return nil
		}
		current = data.Parent
	}
}

// allocateInterval returns a fresh interval for a new chain-child of
// parentHash, reindexing parentHash's ancestry first if its current free
// tail capacity can't support one.
func (rt *manager) allocateInterval(parentHash *externalapi.DomainHash) (*externalapi.Interval, error) {
	free, err := rt.freeTail(parentHash)
	if err != nil {
		return nil, err
	}

	if free.Size() < minFreeTail {
		if err := rt.reindexIntervals(parentHash); err != nil {
			return nil, err
		}
		free, err = rt.freeTail(parentHash)
		if err != nil {
			return nil, err
		}
		if free.Size() < minFreeTail {
			panic(errors.Errorf("reachability: no interval capacity left under %s after reindex", parentHash))
		}
	}

	allocated, _ := free.SplitInHalf()
	return allocated, nil
}

// freeTail returns the unallocated tail of parentHash's own interval,
// i.e. the range beyond the rightmost interval already handed to one of
// its children.
func (rt *manager) freeTail(parentHash *externalapi.DomainHash) (*externalapi.Interval, error) {
	parentData, err := rt.reachabilityStore.Get(rt.databaseContext, parentHash)
	if err != nil {
		return nil, err
	}

	occupiedEnd := parentData.Interval.Start - 1
	for _, child := range parentData.Children {
		childData, err := rt.reachabilityStore.Get(rt.databaseContext, child)
		if err != nil {
			return nil, err
		}
		if childData.Interval.End > occupiedEnd {
			occupiedEnd = childData.Interval.End
		}
	}

	freeStart := occupiedEnd + 1
	if freeStart > parentData.Interval.End {
		return &externalapi.Interval{Start: freeStart, End: freeStart - 1}, nil
	}
	return externalapi.NewInterval(freeStart, parentData.Interval.End), nil
}
