package model

import "github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"

// ReachabilityManager answers ancestry queries over the block DAG and
// maintains the interval labels and future-covering sets those queries
// are based on.
type ReachabilityManager interface {
	// AddBlock registers new with the given chain parent and the full
	// set of DAG parents (which includes the chain parent). It is fatal
	// (a panic) to call this with a chain parent that has no
	// reachability data yet.
	AddBlock(new, chainParent *externalapi.DomainHash, dagParents []*externalapi.DomainHash) error

	// IsChainAncestorOf returns whether a is on the selected-parent chain
	// of b's reachability tree, i.e. a.Interval contains b.Interval.
	IsChainAncestorOf(a, b *externalapi.DomainHash) (bool, error)

	// IsDAGAncestorOf returns whether a is reachable through any past
	// path of b (chain ancestry, or a future-covering-set hit).
	IsDAGAncestorOf(a, b *externalapi.DomainHash) (bool, error)

	// UpdateReindexRoot moves the reindex root to (an ancestor of) the
	// new selected tip, bounding future reindex work to the relevant
	// part of the tree.
	UpdateReindexRoot(selectedTip *externalapi.DomainHash) error
}
