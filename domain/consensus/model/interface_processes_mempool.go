package model

import "github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"

// Mempool is the per-account ordered pending-transaction cache.
// Submit is the admission contract; SelectForBlock is the
// priority iterator block-building consults; Cleanup/FullCleanup are
// exposed again here (beyond the narrower MempoolNotifiee the block
// processor holds) so callers that already depend on the concrete
// mempool don't need a second handle to it.
type Mempool interface {
	MempoolNotifiee
	Submit(tx *externalapi.DomainTransaction) error
	SelectForBlock(maxTxs int) []*externalapi.DomainTransaction
	Has(txHash *externalapi.DomainHash) bool
}
