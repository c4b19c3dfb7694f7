// Package blockprocessor orchestrates accepting a candidate block into
// the DAG: structural checks, parent availability, PoW, GHOSTDAG
// placement and reachability registration, all staged in memory and
// flushed through a single database transaction so a block either
// lands completely or not at all.
package blockprocessor

import (
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/dagconfig"
)

// processor is the concrete model.BlockProcessor.
type processor struct {
	params          *dagconfig.Params
	databaseContext model.DBContext

	blockStore          model.BlockProvider
	blockRelationStore  model.BlockRelationProvider
	ghostdagDataStore   model.GHOSTDAGProvider
	reachabilityStore   model.ReachabilityProvider
	reachabilityManager model.ReachabilityManager
	dagTopologyManager  model.DAGTopologyManager
	ghostdagManager     model.GHOSTDAGManager
	difficultyManager   model.DifficultyManager
	topoheightStore     model.TopoheightProvider

	// mempool is notified after every commit. It is nil until SetMempool
	// is called; the consensus wiring constructs the mempool after the
	// block processor and sets it here.
	mempool model.MempoolNotifiee

	stores []model.Store
}

// New constructs a block processor over the given stores and processes.
func New(
	params *dagconfig.Params,
	databaseContext model.DBContext,
	blockStore model.BlockProvider,
	blockRelationStore model.BlockRelationProvider,
	ghostdagDataStore model.GHOSTDAGProvider,
	reachabilityStore model.ReachabilityProvider,
	reachabilityManager model.ReachabilityManager,
	dagTopologyManager model.DAGTopologyManager,
	ghostdagManager model.GHOSTDAGManager,
	difficultyManager model.DifficultyManager,
	topoheightStore model.TopoheightProvider,
) model.BlockProcessor {
	return &processor{
		params:              params,
		databaseContext:     databaseContext,
		blockStore:          blockStore,
		blockRelationStore:  blockRelationStore,
		ghostdagDataStore:   ghostdagDataStore,
		reachabilityStore:   reachabilityStore,
		reachabilityManager: reachabilityManager,
		dagTopologyManager:  dagTopologyManager,
		ghostdagManager:     ghostdagManager,
		difficultyManager:   difficultyManager,
		topoheightStore:     topoheightStore,
		stores: []model.Store{
			blockStore,
			blockRelationStore,
			ghostdagDataStore,
			reachabilityStore,
		},
	}
}

// SetMempool wires the mempool notified after each accepted block. It is
// a separate setter, rather than a New() parameter, because the mempool
// implementation in turn reads account state that only exists once
// genesis has been processed through this same processor.
func (p *processor) SetMempool(mempool model.MempoolNotifiee) {
	p.mempool = mempool
}

func (p *processor) discardAllChanges() {
	for _, store := range p.stores {
		store.Discard()
	}
}

func (p *processor) commitAllChanges() error {
	dbTx, err := p.databaseContext.Begin()
	if err != nil {
		return err
	}
	for _, store := range p.stores {
		if err := store.Commit(dbTx); err != nil {
			return err
		}
	}
	return dbTx.Commit()
}
