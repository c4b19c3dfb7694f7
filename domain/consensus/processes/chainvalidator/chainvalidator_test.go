package chainvalidator_test

import (
	"errors"
	"testing"

	"github.com/tos-network/tos-sub006/domain/consensus"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/consensus/processes/chainvalidator"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/hashserialization"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/pow"
	"github.com/tos-network/tos-sub006/domain/dagconfig"
	"github.com/tos-network/tos-sub006/storage/memory"
)

// mineHeader finds a nonce for which header's hash satisfies header's
// own declared difficulty, and returns that hash. 50% of nonces satisfy
// difficulty 1, so this always terminates quickly in practice.
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
		Name:                      "chainvalidator-test",
		K:                         1,
		TipsLimit:                 10,
		MaxTxsPerBlock:            100,
		GenesisHeader:             genesisHeader,
		GenesisHash:               genesisHash,
		MempoolCapacityPerAccount: 16,
		MempoolMaxAccounts:        16,
	}
}

func TestValidateChainRejectsEmptyCandidateList(t *testing.T) {
	params := testParams()
	c := consensus.NewFactory().NewConsensus(params, memory.New())

	accept, err := c.ValidateChain(nil)
	if err != nil {
		t.Fatalf("ValidateChain(nil): unexpected error: %s", err)
	}
	if accept {
		t.Errorf("ValidateChain(nil): got accept=true, want false")
	}
}

func TestValidateChainAcceptsSuffixWithGreaterWork(t *testing.T) {
	params := testParams()
	c := consensus.NewFactory().NewConsensus(params, memory.New())

	if err := c.ValidateAndInsertBlock(&externalapi.DomainBlock{Header: params.GenesisHeader}); err != nil {
		t.Fatalf("insert genesis: unexpected error: %s", err)
	}

	header1 := &externalapi.DomainBlockHeader{
		Version:    0,
		Height:     1,
		Parents:    []*externalapi.DomainHash{params.GenesisHash},
		Difficulty: 1,
		BlueScore:  1,
	}
	hash1 := mineHeader(t, header1)
	if err := c.ValidateAndInsertBlock(&externalapi.DomainBlock{Header: header1}); err != nil {
		t.Fatalf("insert header1: unexpected error: %s", err)
	}

	candidate := &externalapi.DomainBlockHeader{
		Version:    0,
		Height:     2,
		Parents:    []*externalapi.DomainHash{hash1},
		Difficulty: 1,
		BlueScore:  2,
	}
	mineHeader(t, candidate)

	accept, err := c.ValidateChain([]*externalapi.DomainBlockHeader{candidate})
	if err != nil {
		t.Fatalf("ValidateChain: unexpected error: %s", err)
	}
	if !accept {
		t.Errorf("ValidateChain: got accept=false, want true (candidate extends the current tip with more work)")
	}
}

func TestValidateChainReportsUnknownParentAsRetryable(t *testing.T) {
	params := testParams()
	c := consensus.NewFactory().NewConsensus(params, memory.New())

	if err := c.ValidateAndInsertBlock(&externalapi.DomainBlock{Header: params.GenesisHeader}); err != nil {
		t.Fatalf("insert genesis: unexpected error: %s", err)
	}

	var unknownParent externalapi.DomainHash
	unknownParent[0] = 0xff
	orphan := &externalapi.DomainBlockHeader{
		Version:    0,
		Height:     1,
		Parents:    []*externalapi.DomainHash{&unknownParent},
		Difficulty: 1,
		BlueScore:  1,
	}
	mineHeader(t, orphan)

	_, err := c.ValidateChain([]*externalapi.DomainBlockHeader{orphan})
	if err == nil {
		t.Fatalf("ValidateChain(unknown parent): expected an error, got nil")
	}
	var validationErr *chainvalidator.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("ValidateChain(unknown parent): got %v, want a *chainvalidator.ValidationError", err)
	}
	if !validationErr.IsRetryable() {
		t.Errorf("ValidateChain(unknown parent): expected a retryable error, the peer may simply be mid-sync")
	}
}

func TestValidateChainRejectsMalformedCandidateAsTerminal(t *testing.T) {
	params := testParams()
	c := consensus.NewFactory().NewConsensus(params, memory.New())

	if err := c.ValidateAndInsertBlock(&externalapi.DomainBlock{Header: params.GenesisHeader}); err != nil {
		t.Fatalf("insert genesis: unexpected error: %s", err)
	}

	var parent externalapi.DomainHash
	parent[0] = 1
	malformed := &externalapi.DomainBlockHeader{
		// Declares the same parent twice: a structural violation
		// CheckSyntax rejects regardless of storage state.
		Parents: []*externalapi.DomainHash{params.GenesisHash, params.GenesisHash},
	}

	_, err := c.ValidateChain([]*externalapi.DomainBlockHeader{malformed})
	if err == nil {
		t.Fatalf("ValidateChain(malformed candidate): expected an error, got nil")
	}
	var validationErr *chainvalidator.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("ValidateChain(malformed candidate): got %v, want a *chainvalidator.ValidationError", err)
	}
	if validationErr.IsRetryable() {
		t.Errorf("ValidateChain(malformed candidate): expected a terminal error, duplicate parents can never become valid")
	}
}
