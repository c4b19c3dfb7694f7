package blockvalidation

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/tos-network/tos-sub006/domain/consensus/datastructures/blockstore"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/consensus/ruleerrors"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/pow"
	"github.com/tos-network/tos-sub006/domain/dagconfig"
	"github.com/tos-network/tos-sub006/storage/memory"
)

type fixedDifficultyManager struct {
	difficulty uint64
}

func (f *fixedDifficultyManager) RequiredDifficulty(*externalapi.DomainHash) (uint64, error) {
	return f.difficulty, nil
}

func testParams(tipsLimit, maxTxs int) *dagconfig.Params {
	return &dagconfig.Params{TipsLimit: tipsLimit, MaxTxsPerBlock: maxTxs}
}

func TestCheckSyntaxRejectsDuplicateParents(t *testing.T) {
	var parent externalapi.DomainHash
	parent[0] = 1
	header := &externalapi.DomainBlockHeader{Parents: []*externalapi.DomainHash{&parent, &parent}}

	err := CheckSyntax(header, testParams(10, 100))
	if !errors.Is(err, ruleerrors.RuleError{ErrorCode: ruleerrors.ErrInvalidTipsCount}) {
		t.Fatalf("CheckSyntax(duplicate parents): got %v, want ErrInvalidTipsCount", err)
	}
}

func TestCheckSyntaxRejectsTooManyParents(t *testing.T) {
	parents := make([]*externalapi.DomainHash, 3)
	for i := range parents {
		var hash externalapi.DomainHash
		hash[0] = byte(i + 1)
		parents[i] = &hash
	}
	header := &externalapi.DomainBlockHeader{Parents: parents}

	err := CheckSyntax(header, testParams(2, 100))
	if !errors.Is(err, ruleerrors.RuleError{ErrorCode: ruleerrors.ErrInvalidTipsCount}) {
		t.Fatalf("CheckSyntax(too many parents): got %v, want ErrInvalidTipsCount", err)
	}
}

func TestCheckSyntaxRejectsDuplicateTxs(t *testing.T) {
	var tx externalapi.DomainHash
	tx[0] = 1
	header := &externalapi.DomainBlockHeader{Txs: []*externalapi.DomainHash{&tx, &tx}}

	err := CheckSyntax(header, testParams(10, 100))
	if !errors.Is(err, ruleerrors.RuleError{ErrorCode: ruleerrors.ErrInvalidSize}) {
		t.Fatalf("CheckSyntax(duplicate txs): got %v, want ErrInvalidSize", err)
	}
}

func TestCheckSyntaxAcceptsValidHeader(t *testing.T) {
	var parent externalapi.DomainHash
	parent[0] = 1
	header := &externalapi.DomainBlockHeader{Parents: []*externalapi.DomainHash{&parent}}

	if err := CheckSyntax(header, testParams(10, 100)); err != nil {
		t.Fatalf("CheckSyntax: unexpected error: %s", err)
	}
}

func TestCheckProofOfWorkRejectsHashAboveTarget(t *testing.T) {
	// difficulty 0 -> target is the maximum possible value, so any hash
	// would normally pass; force a failure by claiming an
	// unsatisfiable difficulty relative to an all-ones hash.
	manager := &fixedDifficultyManager{difficulty: ^uint64(0)}
	var hash externalapi.DomainHash
	for i := range hash {
		hash[i] = 0xff
	}

	err := CheckProofOfWork(&hash, manager)
	if !errors.Is(err, ruleerrors.RuleError{ErrorCode: ruleerrors.ErrInvalidPoW}) {
		t.Fatalf("CheckProofOfWork(hash above target): got %v, want ErrInvalidPoW", err)
	}
}

func TestCheckProofOfWorkAcceptsSatisfyingHash(t *testing.T) {
	difficulty := uint64(1)
	manager := &fixedDifficultyManager{difficulty: difficulty}

	target := pow.Target(difficulty)
	satisfying := new(uint256.Int).Sub(target, uint256.NewInt(1))
	var hash externalapi.DomainHash
	copy(hash[:], satisfying.Bytes32()[:])

	if err := CheckProofOfWork(&hash, manager); err != nil {
		t.Fatalf("CheckProofOfWork: unexpected error: %s", err)
	}
}

func TestCheckHeightAndScoreRejectsWrongHeight(t *testing.T) {
	db := memory.New()
	blocks := blockstore.New(16)

	var parentHash externalapi.DomainHash
	parentHash[0] = 1
	blocks.AddBlockAtHeight(&parentHash, 5)

	header := &externalapi.DomainBlockHeader{
		Parents: []*externalapi.DomainHash{&parentHash},
		Height:  1, // should be 6
	}
	ghostdagData := externalapi.NewGenesisBlockGHOSTDAGData(&parentHash)

	var blockHash externalapi.DomainHash
	blockHash[0] = 2
	err := CheckHeightAndScore(db, blocks, &blockHash, header, ghostdagData)
	if !errors.Is(err, ruleerrors.RuleError{ErrorCode: ruleerrors.ErrInvalidBlockHeight}) {
		t.Fatalf("CheckHeightAndScore(wrong height): got %v, want ErrInvalidBlockHeight", err)
	}
}

func TestCheckHeightAndScoreRejectsWrongBlueScore(t *testing.T) {
	db := memory.New()
	blocks := blockstore.New(16)

	var parentHash externalapi.DomainHash
	parentHash[0] = 1
	blocks.AddBlockAtHeight(&parentHash, 5)

	header := &externalapi.DomainBlockHeader{
		Parents:   []*externalapi.DomainHash{&parentHash},
		Height:    6,
		BlueScore: 100,
	}
	ghostdagData := externalapi.NewGenesisBlockGHOSTDAGData(&parentHash) // BlueScore() == 0

	var blockHash externalapi.DomainHash
	blockHash[0] = 2
	err := CheckHeightAndScore(db, blocks, &blockHash, header, ghostdagData)
	if !errors.Is(err, ruleerrors.RuleError{ErrorCode: ruleerrors.ErrInvalidBlockHeight}) {
		t.Fatalf("CheckHeightAndScore(wrong blue score): got %v, want ErrInvalidBlockHeight", err)
	}
}

func TestCheckHeightAndScoreAcceptsConsistentValues(t *testing.T) {
	db := memory.New()
	blocks := blockstore.New(16)

	var parentHash externalapi.DomainHash
	parentHash[0] = 1
	blocks.AddBlockAtHeight(&parentHash, 5)

	header := &externalapi.DomainBlockHeader{
		Parents:   []*externalapi.DomainHash{&parentHash},
		Height:    6,
		BlueScore: 0,
	}
	ghostdagData := externalapi.NewGenesisBlockGHOSTDAGData(&parentHash)

	var blockHash externalapi.DomainHash
	blockHash[0] = 2
	if err := CheckHeightAndScore(db, blocks, &blockHash, header, ghostdagData); err != nil {
		t.Fatalf("CheckHeightAndScore: unexpected error: %s", err)
	}
}
