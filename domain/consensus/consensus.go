// Package consensus wires the reachability index, GHOSTDAG engine,
// block processor, mempool, parallel-execution analyzer and chain
// validator into a single facade over one storage backend.
package consensus

import (
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/dagconfig"
)

// Consensus is the external surface of the consensus core: everything a
// node needs to accept blocks, maintain a mempool, sync against peers,
// and plan parallel execution of a block's transactions.
type Consensus interface {
	ValidateAndInsertBlock(block *externalapi.DomainBlock) error
	SubmitTransaction(tx *externalapi.DomainTransaction) error
	SelectTransactionsForBlock(maxTxs int) []*externalapi.DomainTransaction
	ValidateChain(candidates []*externalapi.DomainBlockHeader) (accept bool, err error)
	PlanParallelExecution(txs []*externalapi.DomainTransaction) [][]*externalapi.DomainTransaction
}

type consensus struct {
	params *dagconfig.Params

	blockProcessor   model.BlockProcessor
	mempool          model.Mempool
	chainValidator   model.ChainValidator
	parallelExecutor model.ParallelExecutor
	accountStore     model.AccountProvider
	topoheightStore  model.TopoheightProvider
}

// ValidateAndInsertBlock validates block and, if it passes, integrates
// it into the DAG.
func (c *consensus) ValidateAndInsertBlock(block *externalapi.DomainBlock) error {
	return c.blockProcessor.ValidateAndInsertBlock(block)
}

// SubmitTransaction runs the mempool's admission contract over tx.
func (c *consensus) SubmitTransaction(tx *externalapi.DomainTransaction) error {
	return c.mempool.Submit(tx)
}

// SelectTransactionsForBlock returns up to maxTxs pending transactions
// in priority order.
func (c *consensus) SelectTransactionsForBlock(maxTxs int) []*externalapi.DomainTransaction {
	return c.mempool.SelectForBlock(maxTxs)
}

// ValidateChain re-validates a peer-offered chain suffix against an
// overlay of current storage.
func (c *consensus) ValidateChain(candidates []*externalapi.DomainBlockHeader) (bool, error) {
	return c.chainValidator.ValidateChain(candidates)
}

// PlanParallelExecution partitions txs into conflict-free batches.
func (c *consensus) PlanParallelExecution(txs []*externalapi.DomainTransaction) [][]*externalapi.DomainTransaction {
	return c.parallelExecutor.Batches(txs)
}
