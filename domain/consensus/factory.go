package consensus

import (
	"github.com/tos-network/tos-sub006/domain/consensus/datastructures/accountstore"
	"github.com/tos-network/tos-sub006/domain/consensus/datastructures/blockrelationstore"
	"github.com/tos-network/tos-sub006/domain/consensus/datastructures/blockstore"
	"github.com/tos-network/tos-sub006/domain/consensus/datastructures/ghostdagdatastore"
	"github.com/tos-network/tos-sub006/domain/consensus/datastructures/reachabilitydatastore"
	"github.com/tos-network/tos-sub006/domain/consensus/datastructures/topoheightstore"
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/processes/blockprocessor"
	"github.com/tos-network/tos-sub006/domain/consensus/processes/chainvalidator"
	"github.com/tos-network/tos-sub006/domain/consensus/processes/dagtopologymanager"
	"github.com/tos-network/tos-sub006/domain/consensus/processes/difficultymanager"
	"github.com/tos-network/tos-sub006/domain/consensus/processes/ghostdagmanager"
	"github.com/tos-network/tos-sub006/domain/consensus/processes/mempool"
	"github.com/tos-network/tos-sub006/domain/consensus/processes/parallelexecutor"
	"github.com/tos-network/tos-sub006/domain/consensus/processes/reachabilitymanager"
	"github.com/tos-network/tos-sub006/domain/dagconfig"
)

// defaultCacheSize bounds the LRU cache every datastructure store keeps
// in front of databaseContext.
const defaultCacheSize = 10_000

// Factory instantiates new Consensuses: one function that wires every
// datastructure store and process together over a caller-supplied
// storage backend.
type Factory interface {
	NewConsensus(params *dagconfig.Params, databaseContext model.DBContext) Consensus
}

type factory struct{}

// NewFactory creates a new Consensus factory.
func NewFactory() Factory {
	return &factory{}
}

// NewConsensus instantiates a new Consensus over databaseContext.
func (f *factory) NewConsensus(params *dagconfig.Params, databaseContext model.DBContext) Consensus {
	blockStore := blockstore.New(defaultCacheSize)
	blockRelationStore := blockrelationstore.New(defaultCacheSize)
	ghostdagDataStore := ghostdagdatastore.New(defaultCacheSize)
	reachabilityStore := reachabilitydatastore.New(defaultCacheSize)
	accountStore := accountstore.New(databaseContext)
	topoheightStore := topoheightstore.New(databaseContext)

	reachabilityManager := reachabilitymanager.New(databaseContext, reachabilityStore)
	dagTopologyManager := dagtopologymanager.New(databaseContext, reachabilityManager, blockRelationStore, blockStore)
	difficultyManager := difficultymanager.New(databaseContext, blockStore)
	ghostdagManager := ghostdagmanager.New(databaseContext, dagTopologyManager, ghostdagDataStore, difficultyManager, uint16(params.K))

	blockProcessor := blockprocessor.New(
		params,
		databaseContext,
		blockStore,
		blockRelationStore,
		ghostdagDataStore,
		reachabilityStore,
		reachabilityManager,
		dagTopologyManager,
		ghostdagManager,
		difficultyManager,
		topoheightStore)

	txMempool := mempool.New(mempool.Config{
		Policy:          mempool.PolicyFromParams(params),
		AccountStore:    accountStore,
		TopoheightStore: topoheightStore,
	})
	blockProcessor.SetMempool(txMempool)

	chainValidator := chainvalidator.New(
		params, databaseContext, blockStore, ghostdagDataStore, dagTopologyManager, ghostdagManager)

	executor := parallelexecutor.New()

	return &consensus{
		params:           params,
		blockProcessor:   blockProcessor,
		mempool:          txMempool,
		chainValidator:   chainValidator,
		parallelExecutor: executor,
		accountStore:     accountStore,
		topoheightStore:  topoheightStore,
	}
}
