package model

import "github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"

// BlockProvider is the storage abstraction for block headers and the
// height index.
type BlockProvider interface {
	Store
	Stage(blockHash *externalapi.DomainHash, header *externalapi.DomainBlockHeader)
	GetHeader(dbContext DBReader, blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error)
	Has(dbContext DBReader, blockHash *externalapi.DomainHash) (bool, error)
	HeightOf(dbContext DBReader, blockHash *externalapi.DomainHash) (uint64, error)
	Tips(dbContext DBReader) ([]*externalapi.DomainHash, error)
	StageTips(tips []*externalapi.DomainHash)
	AddBlockAtHeight(blockHash *externalapi.DomainHash, height uint64)

	// CumulativeDifficultyOf and StageCumulativeDifficulty carry a
	// legacy wire-compatibility metric: max of the parents' cumulative
	// difficulty plus this block's own realized difficulty. It plays no
	// role in selecting the GHOSTDAG selected parent or the DAG tip.
	CumulativeDifficultyOf(dbContext DBReader, blockHash *externalapi.DomainHash) (uint64, error)
	StageCumulativeDifficulty(blockHash *externalapi.DomainHash, cumulativeDifficulty uint64)
}
