package model

import "github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"

// GHOSTDAGManager computes the GHOSTDAG data of a candidate block from
// the GHOSTDAG data of its (already-processed) parents.
type GHOSTDAGManager interface {
	// GHOSTDAG computes the full GHOSTDAG data for blockHash given its
	// parents. It is a programming error (panic) to call this when any
	// parent lacks GHOSTDAG data.
	GHOSTDAG(blockHash *externalapi.DomainHash, parents []*externalapi.DomainHash) (*externalapi.BlockGHOSTDAGData, error)

	// ChooseSelectedParent returns whichever of the given hashes has
	// greater BlueWork, tie-broken hash-descending.
	ChooseSelectedParent(hashes ...*externalapi.DomainHash) (*externalapi.DomainHash, error)
}
