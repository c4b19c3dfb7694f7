package dagconfig

import (
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/hashserialization"
)

// genesisHeader is the first block of every chain: no parents, no
// transactions, height and blue score zero. Its difficulty is nominal
// since nothing mines against it.
var genesisHeader = &externalapi.DomainBlockHeader{
	Version:    0,
	Height:     0,
	Difficulty: 1,
}

var genesisHash = hashserialization.HeaderHash(genesisHeader)
