package model

import (
	"github.com/holiman/uint256"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

// GHOSTDAGProvider is the storage abstraction for per-block GHOSTDAG
// data, with per-field convenience accessors for callers that only need
// one field. Each accessor still loads the whole record through Get.
type GHOSTDAGProvider interface {
	Store
	Stage(blockHash *externalapi.DomainHash, data *externalapi.BlockGHOSTDAGData)
	Get(dbContext DBReader, blockHash *externalapi.DomainHash) (*externalapi.BlockGHOSTDAGData, error)
	Has(dbContext DBReader, blockHash *externalapi.DomainHash) (bool, error)

	BlueScore(dbContext DBReader, blockHash *externalapi.DomainHash) (uint64, error)
	BlueWork(dbContext DBReader, blockHash *externalapi.DomainHash) (*uint256.Int, error)
	SelectedParent(dbContext DBReader, blockHash *externalapi.DomainHash) (*externalapi.DomainHash, error)
	MergeSetBlues(dbContext DBReader, blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error)
	MergeSetReds(dbContext DBReader, blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error)
	BluesAnticoneSizes(dbContext DBReader, blockHash *externalapi.DomainHash) (map[externalapi.DomainHash]uint16, error)
}
