package consensus_test

import (
	"testing"

	"github.com/tos-network/tos-sub006/domain/consensus"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/hashserialization"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/pow"
	"github.com/tos-network/tos-sub006/domain/dagconfig"
	"github.com/tos-network/tos-sub006/storage/memory"
)

func mineHeader(t *testing.T, header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	t.Helper()
	for nonce := uint64(0); nonce < 10_000; nonce++ {
		header.Nonce = nonce
		hash := hashserialization.HeaderHash(header)
		if pow.CheckProofOfWork(hash, header.Difficulty) {
			return hash
		}
	}
	t.Fatalf("mineHeader: failed to find a satisfying nonce within bound")
	return nil
}

func testParams() *dagconfig.Params {
	genesisHeader := &externalapi.DomainBlockHeader{Version: 0, Height: 0, Difficulty: 1}
	genesisHash := hashserialization.HeaderHash(genesisHeader)
	return &dagconfig.Params{
		Name:                      "consensus-test",
		K:                         1,
		TipsLimit:                 10,
		MaxTxsPerBlock:            100,
		GenesisHeader:             genesisHeader,
		GenesisHash:               genesisHash,
		MempoolCapacityPerAccount: 16,
		MempoolMaxAccounts:        16,
	}
}

// TestGenesisInsertionIsIdempotent exercises the factory wiring end to
// end: inserting genesis twice must succeed both times with no error,
// since validateAndInsertGenesis treats a second submission as a no-op.
func TestGenesisInsertionIsIdempotent(t *testing.T) {
	params := testParams()
	c := consensus.NewFactory().NewConsensus(params, memory.New())

	genesisBlock := &externalapi.DomainBlock{Header: params.GenesisHeader}
	if err := c.ValidateAndInsertBlock(genesisBlock); err != nil {
		t.Fatalf("insert genesis (first): unexpected error: %s", err)
	}
	if err := c.ValidateAndInsertBlock(genesisBlock); err != nil {
		t.Fatalf("insert genesis (second): unexpected error: %s", err)
	}
}

// TestSubmitAndSelectTransactionAfterGenesis exercises the mempool and
// account store through the full wiring: a transaction at nonce 1 is
// only admissible once genesis has landed and the sender has a balance.
func TestSubmitAndSelectTransactionAfterGenesis(t *testing.T) {
	params := testParams()
	db := memory.New()
	c := consensus.NewFactory().NewConsensus(params, db)

	if err := c.ValidateAndInsertBlock(&externalapi.DomainBlock{Header: params.GenesisHeader}); err != nil {
		t.Fatalf("insert genesis: unexpected error: %s", err)
	}

	var sender [32]byte
	sender[0] = 1
	tx := &externalapi.DomainTransaction{
		SourcePubKey: sender,
		Nonce:        1,
		Fee:          10,
		Size:         100,
	}
	tx.Hash[0] = 0xaa

	// The sender has no recorded balance yet, so even a small fee is
	// rejected: nonce 1 is expected (stored nonce is 0), but balance 0
	// can't cover any positive fee.
	if err := c.SubmitTransaction(tx); err == nil {
		t.Fatalf("SubmitTransaction: expected insufficient-balance rejection for a zero-balance sender")
	}

	selected := c.SelectTransactionsForBlock(10)
	if len(selected) != 0 {
		t.Errorf("SelectTransactionsForBlock: got %d transactions, want 0 (nothing was admitted)", len(selected))
	}
}

// TestPlanParallelExecutionGroupsDisjointTransactions exercises the
// parallel-execution analyzer through the facade.
func TestPlanParallelExecutionGroupsDisjointTransactions(t *testing.T) {
	params := testParams()
	c := consensus.NewFactory().NewConsensus(params, memory.New())

	var keyA, keyB [32]byte
	keyA[0], keyB[0] = 1, 2
	txA := &externalapi.DomainTransaction{
		Version:    externalapi.MinAccessListVersion,
		AccessList: []externalapi.AccountAccess{{PubKey: keyA, IsWritable: true}},
	}
	txA.Hash[0] = 1
	txB := &externalapi.DomainTransaction{
		Version:    externalapi.MinAccessListVersion,
		AccessList: []externalapi.AccountAccess{{PubKey: keyB, IsWritable: true}},
	}
	txB.Hash[0] = 2

	batches := c.PlanParallelExecution([]*externalapi.DomainTransaction{txA, txB})
	if len(batches) != 1 {
		t.Fatalf("PlanParallelExecution: got %d batches, want 1 (disjoint writers)", len(batches))
	}
	if len(batches[0]) != 2 {
		t.Errorf("PlanParallelExecution: got %d transactions in the batch, want 2", len(batches[0]))
	}
}
