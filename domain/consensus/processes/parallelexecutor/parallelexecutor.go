// Package parallelexecutor computes conflict-free execution batches for
// a block's transactions: a greedy, deterministic, O(n²) first-fit
// partition that preserves the original ordering among conflicting
// transactions.
package parallelexecutor

import (
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

type executor struct{}

// New constructs a parallel-execution analyzer.
func New() model.ParallelExecutor {
	return &executor{}
}

// Batches partitions txs into ordered, conflict-free batches, in input
// order: each unassigned transaction opens a new batch, then every
// remaining unassigned transaction whose access set doesn't conflict
// with anything already in the batch is swept in, in order.
func (e *executor) Batches(txs []*externalapi.DomainTransaction) [][]*externalapi.DomainTransaction {
	assigned := make([]bool, len(txs))
	var batches [][]*externalapi.DomainTransaction

	for i := range txs {
		if assigned[i] {
			continue
		}
		batch := []*externalapi.DomainTransaction{txs[i]}
		assigned[i] = true

		for j := i + 1; j < len(txs); j++ {
			if assigned[j] {
				continue
			}
			if conflictsWithAny(txs[j], batch) {
				continue
			}
			batch = append(batch, txs[j])
			assigned[j] = true
		}
		batches = append(batches, batch)
	}
	return batches
}

func conflictsWithAny(tx *externalapi.DomainTransaction, batch []*externalapi.DomainTransaction) bool {
	for _, other := range batch {
		if conflicts(tx, other) {
			return true
		}
	}
	return false
}

// conflicts reports whether a and b touch some (pubkey, asset) pair
// with at least one of them declaring it writable. A transaction below
// the access-list version is conservatively treated as conflicting
// with everything.
func conflicts(a, b *externalapi.DomainTransaction) bool {
	if !a.HasAccessList() || !b.HasAccessList() {
		return true
	}
	for _, accessA := range a.AccessList {
		for _, accessB := range b.AccessList {
			if accessA.PubKey != accessB.PubKey || !accessA.Asset.Equal(&accessB.Asset) {
				continue
			}
			if accessA.IsWritable || accessB.IsWritable {
				return true
			}
		}
	}
	return false
}
