package reachabilitymanager

import (
	"sort"

	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

// IsChainAncestorOf returns whether a's interval contains b's, i.e.
// whether a lies on b's selected-parent chain. O(1).
func (rt *manager) IsChainAncestorOf(a, b *externalapi.DomainHash) (bool, error) {
	aData, err := rt.reachabilityStore.Get(rt.databaseContext, a)
	if err != nil {
		return false, err
	}
	bData, err := rt.reachabilityStore.Get(rt.databaseContext, b)
	if err != nil {
		return false, err
	}
	return aData.Interval.Contains(bData.Interval), nil
}

// IsDAGAncestorOf returns whether a is reachable through any past path of
// b: either directly on b's chain, or recorded in the future covering
// set of a reached by following merge parents. Returns true for
// a == b. O(log(|a's future covering set|)) in the worst case.
func (rt *manager) IsDAGAncestorOf(a, b *externalapi.DomainHash) (bool, error) {
	if a.Equal(b) {
		return true, nil
	}

	isChainAncestor, err := rt.IsChainAncestorOf(a, b)
	if err != nil {
		return false, err
	}
	if isChainAncestor {
		return true, nil
	}

	return rt.futureCoveringSetHasAncestorOf(a, b)
}

// futureCoveringSetHasAncestorOf searches a's future covering set for an
// entry that is a chain-ancestor of b. The set is kept sorted by
// interval start and its members' intervals never overlap, so a binary
// search for the predecessor of b's interval start is enough: if any
// member is an ancestor of b it's that one.
func (rt *manager) futureCoveringSetHasAncestorOf(a, b *externalapi.DomainHash) (bool, error) {
	aData, err := rt.reachabilityStore.Get(rt.databaseContext, a)
	if err != nil {
		return false, err
	}
	if len(aData.FutureCoveringSet) == 0 {
		return false, nil
	}
	bData, err := rt.reachabilityStore.Get(rt.databaseContext, b)
	if err != nil {
		return false, err
	}

	intervals := make([]*externalapi.Interval, len(aData.FutureCoveringSet))
	for i, member := range aData.FutureCoveringSet {
		memberData, err := rt.reachabilityStore.Get(rt.databaseContext, member)
		if err != nil {
			return false, err
		}
		intervals[i] = memberData.Interval
	}

	index := sort.Search(len(intervals), func(i int) bool {
		return intervals[i].Start > bData.Interval.Start
	}) - 1
	if index < 0 {
		return false, nil
	}

	return intervals[index].Contains(bData.Interval), nil
}

// insertToFutureCoveringSet records new in owner's future covering set,
// used when new has owner as a DAG (merge) parent other than its chain
// parent. Skips the insert if an existing member already covers new
// (owner already knows how to answer ancestry queries for new through
// that member's own, wider, future covering set).
func (rt *manager) insertToFutureCoveringSet(owner, new *externalapi.DomainHash) error {
	ownerData, err := rt.reachabilityStore.Get(rt.databaseContext, owner)
	if err != nil {
		return err
	}
	newData, err := rt.reachabilityStore.Get(rt.databaseContext, new)
	if err != nil {
		return err
	}

	type member struct {
		hash     *externalapi.DomainHash
		interval *externalapi.Interval
	}
	members := make([]member, len(ownerData.FutureCoveringSet))
	for i, hash := range ownerData.FutureCoveringSet {
		data, err := rt.reachabilityStore.Get(rt.databaseContext, hash)
		if err != nil {
			return err
		}
		members[i] = member{hash, data.Interval}
	}

	insertAt := sort.Search(len(members), func(i int) bool {
		return members[i].interval.Start > newData.Interval.Start
	})

	if insertAt > 0 && members[insertAt-1].interval.Contains(newData.Interval) {
		// An existing member already reaches new; redundant to add it.
		return nil
	}

	kept := members[:0:0]
	for _, m := range members {
		if newData.Interval.Contains(m.interval) {
			continue // new's presence makes this member's own entry redundant.
		}
		kept = append(kept, m)
	}

	result := make([]*externalapi.DomainHash, 0, len(kept)+1)
	inserted := false
	for _, m := range kept {
		if !inserted && m.interval.Start > newData.Interval.Start {
			result = append(result, new)
			inserted = true
		}
		result = append(result, m.hash)
	}
	if !inserted {
		result = append(result, new)
	}

	rt.reachabilityStore.StageFutureCoveringSet(owner, result)
	return nil
}
