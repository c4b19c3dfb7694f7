package model

import "github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"

// ReachabilityProvider is the storage abstraction for reachability
// data, with the mutation primitives the reachability manager needs
// during interval reassignment (reindexing).
type ReachabilityProvider interface {
	Store
	Stage(blockHash *externalapi.DomainHash, data *externalapi.ReachabilityData)
	Get(dbContext DBReader, blockHash *externalapi.DomainHash) (*externalapi.ReachabilityData, error)
	Has(dbContext DBReader, blockHash *externalapi.DomainHash) (bool, error)

	StageInterval(blockHash *externalapi.DomainHash, interval *externalapi.Interval)
	StageFutureCoveringSet(blockHash *externalapi.DomainHash, fcs []*externalapi.DomainHash)
	StageChildren(blockHash *externalapi.DomainHash, children []*externalapi.DomainHash)

	// ReindexRoot is the ancestor chosen to bound reindex work.
	ReindexRoot(dbContext DBReader) (*externalapi.DomainHash, error)
	StageReindexRoot(blockHash *externalapi.DomainHash)
}
