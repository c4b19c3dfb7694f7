package model

import "github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"

// ParallelExecutor partitions a block's transactions into conflict-free
// batches: batches execute in order, any order within a batch, and the
// result equals applying the list front-to-back sequentially.
type ParallelExecutor interface {
	Batches(txs []*externalapi.DomainTransaction) [][]*externalapi.DomainTransaction
}
