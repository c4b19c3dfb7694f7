package reachabilitymanager

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

// reindexIntervals grows parentHash's own interval so it again has free
// tail capacity, by walking up the chain toward the reindex root (or the
// DAG root) until an ancestor with spare capacity is found, carving a
// bigger interval for the child on that path out of the spare capacity,
// and proportionally re-carving that child's whole subtree into its new,
// larger interval.
func (rt *manager) reindexIntervals(parentHash *externalapi.DomainHash) error {
	reindexRoot, err := rt.reindexRootOrNil()
	if err != nil {
		return err
	}

	chain := []*externalapi.DomainHash{parentHash}
	current := parentHash
	for {
		data, err := rt.reachabilityStore.Get(rt.databaseContext, current)
		if err != nil {
			return err
		}

		atBound := data.Parent == nil || (reindexRoot != nil && current.Equal(reindexRoot))
		if atBound {
			return rt.growChainAtRoot(current, chain)
		}

		free, err := rt.freeTail(data.Parent)
		if err != nil {
			return err
		}
		if free.Size() >= minFreeTail {
			return rt.growChainAtRoot(data.Parent, chain)
		}

		chain = append(chain, data.Parent)
		current = data.Parent
	}
}

// growChainAtRoot carves a larger interval for chain's last element (the
// child of root on the path up from parentHash) out
// of root's free tail (root itself is assumed to either have spare
// capacity, or have none left at all, in which case the DAG has
// exhausted the entire 64-bit interval space, a condition the core
// cannot recover from), then propagates the resize down the rest of
// chain.
func (rt *manager) growChainAtRoot(root *externalapi.DomainHash, chain []*externalapi.DomainHash) error {
	child := chain[len(chain)-1]
	childData, err := rt.reachabilityStore.Get(rt.databaseContext, child)
	if err != nil {
		return err
	}

	if root.Equal(child) {
		// The chain collapsed to a single (bound) node: there's nothing
		// above it to borrow from, so its own interval must already be
		// the full space it's ever going to get.
		panic(errors.Errorf("reachability: %s has no room to grow and no ancestor to borrow from", root))
	}

	free, err := rt.freeTail(root)
	if err != nil {
		return err
	}
	if free.Size() < minFreeTail {
		panic(errors.Errorf("reachability: interval space exhausted reindexing under %s", root))
	}

	desired := childData.Interval.Size() * 2
	if desired > free.Size() {
		desired = free.Size()
	}
	if desired < minFreeTail {
		desired = minFreeTail
	}

	newInterval := externalapi.NewInterval(free.Start, free.Start+desired-1)
	return rt.reassignSubtreeInterval(child, newInterval)
}

// reassignSubtreeInterval gives node a new interval and proportionally
// re-carves it among node's existing children (preserving their
// relative order, in proportion to their cached subtree sizes),
// recursing into each. newInterval must
// be at least as large as node's current interval.
func (rt *manager) reassignSubtreeInterval(node *externalapi.DomainHash, newInterval *externalapi.Interval) error {
	data, err := rt.reachabilityStore.Get(rt.databaseContext, node)
	if err != nil {
		return err
	}

	data.Interval = newInterval
	rt.reachabilityStore.StageInterval(node, newInterval)

	if len(data.Children) == 0 {
		return nil
	}

	children := append([]*externalapi.DomainHash{}, data.Children...)
	childData := make([]*externalapi.ReachabilityData, len(children))
	for i, child := range children {
		cd, err := rt.reachabilityStore.Get(rt.databaseContext, child)
		if err != nil {
			return err
		}
		childData[i] = cd
	}

	sort.Slice(children, func(i, j int) bool {
		return childData[i].Interval.Start < childData[j].Interval.Start
	})
	sort.Slice(childData, func(i, j int) bool {
		return childData[i].Interval.Start < childData[j].Interval.Start
	})

	sizes := make([]uint64, len(childData))
	for i, cd := range childData {
		sizes[i] = cd.TreeSize()
	}

	newChildIntervals := newInterval.SplitWithRemainder(sizes)
	for i, child := range children {
		if err := rt.reassignSubtreeInterval(child, newChildIntervals[i]); err != nil {
			return err
		}
	}
	return nil
}
