package model

import "github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"

// BlockProcessor orchestrates accepting a candidate block into the DAG:
// structural checks, parent availability, PoW, GHOSTDAG placement, and
// a single atomic commit of everything that changed.
type BlockProcessor interface {
	ValidateAndInsertBlock(block *externalapi.DomainBlock) error
	SetMempool(mempool MempoolNotifiee)
}

// MempoolNotifiee is the mempool's side of the block processor's
// post-commit notification. Cleanup runs the incremental,
// nonce-advance-only cache trim after a routine block; FullCleanup
// re-checks each sender's lowest-nonce cached transaction (nonce,
// balance and reference) after a chain reorganization and drops the
// sender's whole cache when that check fails.
type MempoolNotifiee interface {
	Cleanup() error
	FullCleanup() error
}
