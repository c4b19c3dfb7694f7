package mempool

import (
	"errors"
	"testing"

	"github.com/tos-network/tos-sub006/domain/consensus/datastructures/accountstore"
	"github.com/tos-network/tos-sub006/domain/consensus/datastructures/topoheightstore"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/consensus/ruleerrors"
	"github.com/tos-network/tos-sub006/storage/memory"
)

func newTestMempool(t *testing.T, maxPerAccount, maxAccounts int) (*mempool, [32]byte) {
	t.Helper()
	db := memory.New()
	accounts := accountstore.New(db)
	topoheights := topoheightstore.New(db)

	var sender [32]byte
	sender[0] = 1
	if err := accounts.SetBalanceAt(0, sender, nativeAsset, 1_000_000); err != nil {
		t.Fatalf("SetBalanceAt: unexpected error: %s", err)
	}

	mp := New(Config{
		Policy:          Policy{MaxCapacityPerAccount: maxPerAccount, MaxAccounts: maxAccounts},
		AccountStore:    accounts,
		TopoheightStore: topoheights,
	}).(*mempool)
	return mp, sender
}

func makeTx(sender [32]byte, nonce, fee uint64, hashByte byte) *externalapi.DomainTransaction {
	tx := &externalapi.DomainTransaction{
		SourcePubKey: sender,
		Nonce:        nonce,
		Fee:          fee,
		Size:         100,
	}
	tx.Hash[0] = hashByte
	return tx
}

func TestSubmitAcceptsExpectedNonce(t *testing.T) {
	mp, sender := newTestMempool(t, 16, 16)
	tx := makeTx(sender, 1, 10, 0xaa)

	if err := mp.Submit(tx); err != nil {
		t.Fatalf("Submit: unexpected error: %s", err)
	}
	if !mp.Has(&tx.Hash) {
		t.Errorf("Has: expected submitted tx to be present")
	}
}

func TestSubmitRejectsStaleNonce(t *testing.T) {
	mp, sender := newTestMempool(t, 16, 16)
	tx := makeTx(sender, 0, 10, 0xaa)

	err := mp.Submit(tx)
	if !errors.Is(err, ruleerrors.RuleError{ErrorCode: ruleerrors.ErrNonceStale}) {
		t.Fatalf("Submit(nonce 0): got %v, want ErrNonceStale", err)
	}
}

func TestSubmitRejectsNonceGap(t *testing.T) {
	mp, sender := newTestMempool(t, 16, 16)
	tx := makeTx(sender, 5, 10, 0xaa)

	err := mp.Submit(tx)
	if !errors.Is(err, ruleerrors.RuleError{ErrorCode: ruleerrors.ErrNonceGap}) {
		t.Fatalf("Submit(nonce 5, expected 1): got %v, want ErrNonceGap", err)
	}
}

func TestSubmitRejectsDuplicateNonce(t *testing.T) {
	mp, sender := newTestMempool(t, 16, 16)
	first := makeTx(sender, 1, 10, 0xaa)
	if err := mp.Submit(first); err != nil {
		t.Fatalf("Submit(first): unexpected error: %s", err)
	}

	second := makeTx(sender, 1, 20, 0xbb)
	err := mp.Submit(second)
	if !errors.Is(err, ruleerrors.RuleError{ErrorCode: ruleerrors.ErrNonceDuplicate}) {
		t.Fatalf("Submit(duplicate nonce): got %v, want ErrNonceDuplicate", err)
	}
}

func TestSubmitRejectsDuplicateHash(t *testing.T) {
	mp, sender := newTestMempool(t, 16, 16)
	tx := makeTx(sender, 1, 10, 0xaa)
	if err := mp.Submit(tx); err != nil {
		t.Fatalf("Submit: unexpected error: %s", err)
	}

	err := mp.Submit(tx.Clone())
	if !errors.Is(err, ruleerrors.RuleError{ErrorCode: ruleerrors.ErrTxAlreadyInMempool}) {
		t.Fatalf("Submit(same hash twice): got %v, want ErrTxAlreadyInMempool", err)
	}
}

func TestSubmitAcceptsContiguousChain(t *testing.T) {
	mp, sender := newTestMempool(t, 16, 16)
	for nonce := uint64(1); nonce <= 5; nonce++ {
		tx := makeTx(sender, nonce, 10, byte(nonce))
		if err := mp.Submit(tx); err != nil {
			t.Fatalf("Submit(nonce %d): unexpected error: %s", nonce, err)
		}
	}
}

func TestSubmitRejectsInsufficientBalance(t *testing.T) {
	mp, sender := newTestMempool(t, 16, 16)
	tx := makeTx(sender, 1, 10_000_000, 0xaa)

	err := mp.Submit(tx)
	if !errors.Is(err, ruleerrors.RuleError{ErrorCode: ruleerrors.ErrInsufficientBalance}) {
		t.Fatalf("Submit(fee exceeding balance): got %v, want ErrInsufficientBalance", err)
	}
}

func TestSubmitRejectsWhenPerAccountCapacityReached(t *testing.T) {
	mp, sender := newTestMempool(t, 2, 16)
	if err := mp.Submit(makeTx(sender, 1, 10, 1)); err != nil {
		t.Fatalf("Submit(nonce 1): unexpected error: %s", err)
	}
	if err := mp.Submit(makeTx(sender, 2, 10, 2)); err != nil {
		t.Fatalf("Submit(nonce 2): unexpected error: %s", err)
	}

	err := mp.Submit(makeTx(sender, 3, 10, 3))
	if !errors.Is(err, ruleerrors.RuleError{ErrorCode: ruleerrors.ErrMempoolFull}) {
		t.Fatalf("Submit(over per-account capacity): got %v, want ErrMempoolFull", err)
	}
}

func TestSubmitRejectsWhenAccountCapacityReached(t *testing.T) {
	mp, _ := newTestMempool(t, 16, 1)
	var firstSender [32]byte
	firstSender[0] = 1
	if err := mp.Submit(makeTx(firstSender, 1, 10, 1)); err != nil {
		t.Fatalf("Submit(first sender): unexpected error: %s", err)
	}

	var secondSender [32]byte
	secondSender[0] = 2
	err := mp.Submit(makeTx(secondSender, 1, 10, 2))
	if !errors.Is(err, ruleerrors.RuleError{ErrorCode: ruleerrors.ErrMempoolFull}) {
		t.Fatalf("Submit(new sender over account limit): got %v, want ErrMempoolFull", err)
	}
}

func TestSelectForBlockOrdersByFeeRateThenSenderNonce(t *testing.T) {
	mp, _ := newTestMempool(t, 16, 16)

	var highFeeSender, lowFeeSender [32]byte
	highFeeSender[0] = 1
	lowFeeSender[0] = 2
	if err := mp.cfg.AccountStore.SetBalanceAt(0, lowFeeSender, nativeAsset, 1_000_000); err != nil {
		t.Fatalf("SetBalanceAt: unexpected error: %s", err)
	}

	low1 := makeTx(lowFeeSender, 1, 10, 0x10)
	low2 := makeTx(lowFeeSender, 2, 10, 0x11)
	high1 := makeTx(highFeeSender, 1, 1000, 0x20)

	for _, tx := range []*externalapi.DomainTransaction{low1, low2, high1} {
		if err := mp.Submit(tx); err != nil {
			t.Fatalf("Submit(%x): unexpected error: %s", tx.Hash, err)
		}
	}

	selected := mp.SelectForBlock(10)
	if len(selected) != 3 {
		t.Fatalf("SelectForBlock: got %d transactions, want 3", len(selected))
	}
	if !selected[0].Hash.Equal(&high1.Hash) {
		t.Errorf("SelectForBlock[0]: got %s, want the higher fee-rate sender's tx", selected[0].Hash)
	}
	if !selected[1].Hash.Equal(&low1.Hash) || !selected[2].Hash.Equal(&low2.Hash) {
		t.Errorf("SelectForBlock: low-fee sender's own transactions must stay in ascending-nonce order")
	}
}

func TestSelectForBlockRespectsMaxTxs(t *testing.T) {
	mp, sender := newTestMempool(t, 16, 16)
	for nonce := uint64(1); nonce <= 5; nonce++ {
		if err := mp.Submit(makeTx(sender, nonce, 10, byte(nonce))); err != nil {
			t.Fatalf("Submit(nonce %d): unexpected error: %s", nonce, err)
		}
	}

	selected := mp.SelectForBlock(3)
	if len(selected) != 3 {
		t.Fatalf("SelectForBlock(3): got %d transactions, want 3", len(selected))
	}
	for i, tx := range selected {
		if tx.Nonce != uint64(i+1) {
			t.Errorf("SelectForBlock(3)[%d]: got nonce %d, want %d", i, tx.Nonce, i+1)
		}
	}
}
