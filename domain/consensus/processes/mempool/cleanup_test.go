package mempool

import (
	"testing"

	"github.com/tos-network/tos-sub006/domain/consensus/datastructures/accountstore"
	"github.com/tos-network/tos-sub006/domain/consensus/datastructures/topoheightstore"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/storage/memory"
)

func TestCleanupDropsConfirmedNonces(t *testing.T) {
	db := memory.New()
	accounts := accountstore.New(db)
	topoheights := topoheightstore.New(db)

	var sender [32]byte
	sender[0] = 1
	if err := accounts.SetBalanceAt(0, sender, nativeAsset, 1_000_000); err != nil {
		t.Fatalf("SetBalanceAt: unexpected error: %s", err)
	}

	mp := New(Config{
		Policy:          Policy{MaxCapacityPerAccount: 16, MaxAccounts: 16},
		AccountStore:    accounts,
		TopoheightStore: topoheights,
	}).(*mempool)

	for nonce := uint64(1); nonce <= 3; nonce++ {
		if err := mp.Submit(makeTx(sender, nonce, 10, byte(nonce))); err != nil {
			t.Fatalf("Submit(nonce %d): unexpected error: %s", nonce, err)
		}
	}

	// Simulate nonces 1 and 2 landing in the first block, which the
	// advance below places at topoheight 0.
	if err := accounts.SetNonceAt(0, sender, 2); err != nil {
		t.Fatalf("SetNonceAt: unexpected error: %s", err)
	}
	if _, err := topoheights.AdvanceTopoheight(&[32]byte{0xaa}); err != nil {
		t.Fatalf("AdvanceTopoheight: unexpected error: %s", err)
	}

	if err := mp.Cleanup(); err != nil {
		t.Fatalf("Cleanup: unexpected error: %s", err)
	}

	cache := mp.perSender[sender]
	if cache == nil || cache.isEmpty() {
		t.Fatalf("Cleanup: expected nonce 3 to remain pending")
	}
	if cache.minNonce != 3 || cache.maxNonce != 3 {
		t.Errorf("Cleanup: got remaining range [%d,%d], want [3,3]", cache.minNonce, cache.maxNonce)
	}
	if len(cache.txs) != 1 {
		t.Errorf("Cleanup: got %d remaining txs, want 1", len(cache.txs))
	}
}

func TestFullCleanupDropsSenderOnReorgInvalidation(t *testing.T) {
	db := memory.New()
	accounts := accountstore.New(db)
	topoheights := topoheightstore.New(db)

	var sender [32]byte
	sender[0] = 1
	if err := accounts.SetBalanceAt(0, sender, nativeAsset, 1_000_000); err != nil {
		t.Fatalf("SetBalanceAt: unexpected error: %s", err)
	}

	mp := New(Config{
		Policy:          Policy{MaxCapacityPerAccount: 16, MaxAccounts: 16},
		AccountStore:    accounts,
		TopoheightStore: topoheights,
	}).(*mempool)

	genesis := externalapi.DomainHash{0xaa}
	if _, err := topoheights.AdvanceTopoheight(&genesis); err != nil {
		t.Fatalf("AdvanceTopoheight: unexpected error: %s", err)
	}

	for nonce := uint64(1); nonce <= 2; nonce++ {
		tx := makeTx(sender, nonce, 10, byte(nonce))
		tx.Reference = externalapi.TransactionReference{Topoheight: 0, Hash: genesis}
		if err := mp.Submit(tx); err != nil {
			t.Fatalf("Submit(nonce %d): unexpected error: %s", nonce, err)
		}
	}

	// Simulate a reorg after which the sender's stored nonce is 5: both
	// cached nonces (1 and 2) are at or below it, so FullCleanup prunes
	// the whole cache.
	if err := accounts.SetNonceAt(0, sender, 5); err != nil {
		t.Fatalf("SetNonceAt: unexpected error: %s", err)
	}

	if err := mp.FullCleanup(); err != nil {
		t.Fatalf("FullCleanup: unexpected error: %s", err)
	}

	if _, exists := mp.perSender[sender]; exists {
		t.Errorf("FullCleanup: expected sender's entire cache to be dropped after reorg invalidation")
	}
	if len(mp.txsByHash) != 0 {
		t.Errorf("FullCleanup: expected no transactions to remain indexed by hash, got %d", len(mp.txsByHash))
	}
}

func TestFullCleanupDropsSenderOnReferenceInvalidation(t *testing.T) {
	db := memory.New()
	accounts := accountstore.New(db)
	topoheights := topoheightstore.New(db)

	var sender [32]byte
	sender[0] = 1
	if err := accounts.SetBalanceAt(0, sender, nativeAsset, 1_000_000); err != nil {
		t.Fatalf("SetBalanceAt: unexpected error: %s", err)
	}

	mp := New(Config{
		Policy:          Policy{MaxCapacityPerAccount: 16, MaxAccounts: 16},
		AccountStore:    accounts,
		TopoheightStore: topoheights,
	}).(*mempool)

	// The chain's actual block at topoheight 0 is "canonical"; the
	// transaction was built against a different block that never became
	// part of the canonical chain (e.g. a sibling that lost a reorg).
	// Nonce and balance are untouched, so only the reference check
	// catches this.
	canonical := externalapi.DomainHash{0xaa}
	if _, err := topoheights.AdvanceTopoheight(&canonical); err != nil {
		t.Fatalf("AdvanceTopoheight: unexpected error: %s", err)
	}

	tx := makeTx(sender, 1, 10, 1)
	tx.Reference = externalapi.TransactionReference{Topoheight: 0, Hash: externalapi.DomainHash{0xbb}}
	if err := mp.Submit(tx); err != nil {
		t.Fatalf("Submit: unexpected error: %s", err)
	}

	if err := mp.FullCleanup(); err != nil {
		t.Fatalf("FullCleanup: unexpected error: %s", err)
	}

	if _, exists := mp.perSender[sender]; exists {
		t.Errorf("FullCleanup: expected sender's cache to be dropped once its reference hash no longer matches the chain")
	}
}

func TestFullCleanupKeepsStillValidSender(t *testing.T) {
	db := memory.New()
	accounts := accountstore.New(db)
	topoheights := topoheightstore.New(db)

	var sender [32]byte
	sender[0] = 1
	if err := accounts.SetBalanceAt(0, sender, nativeAsset, 1_000_000); err != nil {
		t.Fatalf("SetBalanceAt: unexpected error: %s", err)
	}

	mp := New(Config{
		Policy:          Policy{MaxCapacityPerAccount: 16, MaxAccounts: 16},
		AccountStore:    accounts,
		TopoheightStore: topoheights,
	}).(*mempool)

	genesis := externalapi.DomainHash{0xaa}
	if _, err := topoheights.AdvanceTopoheight(&genesis); err != nil {
		t.Fatalf("AdvanceTopoheight: unexpected error: %s", err)
	}

	tx := makeTx(sender, 1, 10, 1)
	tx.Reference = externalapi.TransactionReference{Topoheight: 0, Hash: genesis}
	if err := mp.Submit(tx); err != nil {
		t.Fatalf("Submit: unexpected error: %s", err)
	}

	if err := mp.FullCleanup(); err != nil {
		t.Fatalf("FullCleanup: unexpected error: %s", err)
	}

	if _, exists := mp.perSender[sender]; !exists {
		t.Errorf("FullCleanup: expected still-valid sender's cache to survive")
	}
}
