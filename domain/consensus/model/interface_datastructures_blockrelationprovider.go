package model

import "github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"

// BlockRelations is a block's direct DAG parents and children.
type BlockRelations struct {
	Parents  []*externalapi.DomainHash
	Children []*externalapi.DomainHash
}

// Clone returns a deep copy of r.
func (r *BlockRelations) Clone() *BlockRelations {
	if r == nil {
		return nil
	}
	return &BlockRelations{
		Parents:  externalapi.CloneHashes(r.Parents),
		Children: externalapi.CloneHashes(r.Children),
	}
}

// BlockRelationProvider is the storage abstraction the DAG topology
// manager reads Parents/Children from, and the block processor writes to
// when a new block arrives (registering it as a child of each parent).
type BlockRelationProvider interface {
	Store
	Stage(blockHash *externalapi.DomainHash, relations *BlockRelations)
	Get(dbContext DBReader, blockHash *externalapi.DomainHash) (*BlockRelations, error)
	Has(dbContext DBReader, blockHash *externalapi.DomainHash) (bool, error)
}
