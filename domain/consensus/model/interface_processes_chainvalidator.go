package model

import "github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"

// ChainValidator re-runs block processor's structural, PoW and
// GHOSTDAG-placement checks over a peer-offered chain suffix against
// an in-memory overlay of current storage, then decides whether the
// peer's chain should replace ours.
type ChainValidator interface {
	// ValidateChain checks each header in candidates, in order, against
	// an overlay seeded from real storage. It returns whether the
	// overlay's resulting tip has strictly greater blue_work than our
	// storage's current tip (and so should be adopted), or an error
	// from the first header that fails validation.
	ValidateChain(candidates []*externalapi.DomainBlockHeader) (accept bool, err error)
}
