// Package dagtopologymanager exposes the parent/child/ancestor
// relationships the GHOSTDAG manager and block processor query while
// walking the DAG: direct edges come from the block relation store,
// ancestry from the reachability manager, and the tip set from the
// block provider.
package dagtopologymanager

import (
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

type manager struct {
	databaseContext     model.DBReader
	reachabilityManager model.ReachabilityManager
	blockRelationStore  model.BlockRelationProvider
	blockStore          model.BlockProvider
}

// New instantiates a DAG topology manager.
func New(
	databaseContext model.DBReader,
	reachabilityManager model.ReachabilityManager,
	blockRelationStore model.BlockRelationProvider,
	blockStore model.BlockProvider,
) model.DAGTopologyManager {
	return &manager{
		databaseContext:     databaseContext,
		reachabilityManager: reachabilityManager,
		blockRelationStore:  blockRelationStore,
		blockStore:          blockStore,
	}
}

// Parents returns the DAG parents of blockHash.
func (dtm *manager) Parents(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	relations, err := dtm.blockRelationStore.Get(dtm.databaseContext, blockHash)
	if err != nil {
		return nil, err
	}
	return relations.Parents, nil
}

// Children returns the DAG children of blockHash.
func (dtm *manager) Children(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	relations, err := dtm.blockRelationStore.Get(dtm.databaseContext, blockHash)
	if err != nil {
		return nil, err
	}
	return relations.Children, nil
}

// IsAncestorOf returns whether blockHashA is a DAG ancestor of blockHashB.
func (dtm *manager) IsAncestorOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	return dtm.reachabilityManager.IsDAGAncestorOf(blockHashA, blockHashB)
}

// Tips returns the current set of DAG tips.
func (dtm *manager) Tips() ([]*externalapi.DomainHash, error) {
	return dtm.blockStore.Tips(dtm.databaseContext)
}
