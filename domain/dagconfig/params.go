// Package dagconfig defines network parameters: the GHOSTDAG K value, the
// structural limits on a block's tips and transaction count, and the
// genesis block every chain is rooted at.
package dagconfig

import (
	"time"

	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

// KType is the GHOSTDAG K parameter's type: the maximum anticone size a
// blue block may have.
type KType uint16

// Params defines a network by the parameters its consensus core needs.
type Params struct {
	// Name is a human-readable network identifier.
	Name string

	// K is the GHOSTDAG K parameter.
	K KType

	// TipsLimit bounds how many parents a block header may declare.
	TipsLimit int

	// MaxTxsPerBlock bounds how many transactions a block may carry.
	MaxTxsPerBlock int

	// GenesisHeader is the header of the first block of the DAG. It has
	// no parents and carries height 0, blue score 0.
	GenesisHeader *externalapi.DomainBlockHeader

	// GenesisHash is GenesisHeader's canonical hash, computed once at
	// init time since genesis is immutable.
	GenesisHash *externalapi.DomainHash

	// TargetTimePerBlock is the desired average time between blocks.
	// The difficulty-adjustment formula that would use this to retarget
	// is out of this core's scope; this is informational only (used by
	// tooling constructing test fixtures).
	TargetTimePerBlock time.Duration

	// MempoolCapacityPerAccount bounds how many nonce-contiguous
	// transactions a single sender's mempool cache may hold.
	MempoolCapacityPerAccount int

	// MempoolMaxAccounts bounds how many distinct senders the mempool
	// tracks concurrently.
	MempoolMaxAccounts int
}

const (
	mainnetK                  KType = 18
	mainnetTipsLimit                = 10
	mainnetMaxTxsPerBlock           = 10000
	mainnetMempoolPerAccount        = 64
	mainnetMempoolMaxAccounts       = 1 << 16
)

// MainnetParams defines the network parameters for the main network.
var MainnetParams = Params{
	Name:                      "tos-mainnet",
	K:                         mainnetK,
	TipsLimit:                 mainnetTipsLimit,
	MaxTxsPerBlock:            mainnetMaxTxsPerBlock,
	GenesisHeader:             genesisHeader,
	GenesisHash:               genesisHash,
	TargetTimePerBlock:        1 * time.Second,
	MempoolCapacityPerAccount: mainnetMempoolPerAccount,
	MempoolMaxAccounts:        mainnetMempoolMaxAccounts,
}

// SimnetParams defines network parameters for local testing: identical to
// mainnet except for a much smaller K, useful for exercising K-excess
// scenarios without constructing large fixtures.
var SimnetParams = Params{
	Name:                      "tos-simnet",
	K:                         1,
	TipsLimit:                 mainnetTipsLimit,
	MaxTxsPerBlock:            mainnetMaxTxsPerBlock,
	GenesisHeader:             genesisHeader,
	GenesisHash:               genesisHash,
	TargetTimePerBlock:        1 * time.Second,
	MempoolCapacityPerAccount: mainnetMempoolPerAccount,
	MempoolMaxAccounts:        mainnetMempoolMaxAccounts,
}
