package model

import "github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"

// AccountProvider is the storage abstraction for per-account balances and
// nonces at a given topoheight.
type AccountProvider interface {
	GetBalanceAt(topoheight uint64, account [32]byte, asset externalapi.DomainHash) (uint64, error)
	GetNonceAt(topoheight uint64, account [32]byte) (uint64, error)
	SetBalanceAt(topoheight uint64, account [32]byte, asset externalapi.DomainHash, balance uint64) error
	SetNonceAt(topoheight uint64, account [32]byte, nonce uint64) error
}

// TopoheightProvider is the storage abstraction for the total order over
// accepted blocks.
type TopoheightProvider interface {
	TopoheightOf(blockHash *externalapi.DomainHash) (uint64, error)
	HashAtTopoheight(topoheight uint64) (*externalapi.DomainHash, error)
	PrunedTopoheight() (uint64, error)

	// LatestTopoheight is the topoheight of the current chain tip, the
	// point the mempool checks declared nonces against on admission.
	LatestTopoheight() (uint64, error)

	// AdvanceTopoheight assigns the next topoheight to blockHash. It is
	// called once per accepted block, after the block processor's own
	// atomic commit, extending the total order the account model is
	// keyed by.
	AdvanceTopoheight(blockHash *externalapi.DomainHash) (uint64, error)
}
