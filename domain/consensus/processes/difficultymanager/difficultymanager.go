// Package difficultymanager resolves the difficulty a block was (or, for
// a candidate under construction, must be) mined against. The
// adjustment formula that derives a new difficulty from the recent block
// window is out of this core's scope; this manager only exposes the
// value already attached to a connected block's header,
// which is what the GHOSTDAG manager's work function and the block
// processor's PoW check both need.
package difficultymanager

import (
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

type manager struct {
	databaseContext model.DBReader
	blockStore      model.BlockProvider
}

// New constructs a difficulty manager reading difficulty off connected
// block headers.
func New(databaseContext model.DBReader, blockStore model.BlockProvider) model.DifficultyManager {
	return &manager{
		databaseContext: databaseContext,
		blockStore:      blockStore,
	}
}

// RequiredDifficulty returns the difficulty blockHash's header declares.
func (dm *manager) RequiredDifficulty(blockHash *externalapi.DomainHash) (uint64, error) {
	header, err := dm.blockStore.GetHeader(dm.databaseContext, blockHash)
	if err != nil {
		return 0, err
	}
	return header.Difficulty, nil
}
