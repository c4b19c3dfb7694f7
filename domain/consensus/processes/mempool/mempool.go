// Package mempool maintains the per-account ordered cache of pending
// transactions: strict nonce continuity per sender, a priority iterator
// for block building, and incremental or full cleanup after a block
// lands.
package mempool

import (
	"container/heap"
	"sync"

	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/consensus/ruleerrors"
	"github.com/tos-network/tos-sub006/domain/dagconfig"
)

// nativeAsset is the asset identifier balance checks are made against.
// Confidential/multi-asset accounting is out of scope; every account
// carries one native balance here.
var nativeAsset externalapi.DomainHash

// Config is a descriptor containing the mempool's dependencies and
// policy knobs, split from Policy so dependencies and tunables can be
// constructed independently.
type Config struct {
	Policy          Policy
	AccountStore    model.AccountProvider
	TopoheightStore model.TopoheightProvider
}

// Policy houses the capacity bounds the mempool enforces.
type Policy struct {
	MaxCapacityPerAccount int
	MaxAccounts           int
}

// PolicyFromParams builds a Policy from network parameters.
func PolicyFromParams(params *dagconfig.Params) Policy {
	return Policy{
		MaxCapacityPerAccount: params.MempoolCapacityPerAccount,
		MaxAccounts:           params.MempoolMaxAccounts,
	}
}

// accountCache is a single sender's strictly contiguous nonce window.
type accountCache struct {
	minNonce uint64
	maxNonce uint64
	txs      []*externalapi.DomainHash // indexed by nonce - minNonce
}

func (c *accountCache) isEmpty() bool {
	return len(c.txs) == 0
}

// mempool is the concrete model.Mempool.
type mempool struct {
	mtx sync.RWMutex
	cfg Config

	txsByHash map[externalapi.DomainHash]*externalapi.DomainTransaction
	perSender map[[32]byte]*accountCache
}

// New constructs an empty mempool.
func New(cfg Config) model.Mempool {
	return &mempool{
		cfg:       cfg,
		txsByHash: make(map[externalapi.DomainHash]*externalapi.DomainTransaction),
		perSender: make(map[[32]byte]*accountCache),
	}
}

// Has reports whether txHash is already cached.
func (mp *mempool) Has(txHash *externalapi.DomainHash) bool {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()
	_, exists := mp.txsByHash[*txHash]
	return exists
}

// Submit validates tx against the sender's nonce window and balance,
// and admits it into the cache if it passes.
func (mp *mempool) Submit(tx *externalapi.DomainTransaction) error {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	if _, exists := mp.txsByHash[tx.Hash]; exists {
		return ruleerrors.New(ruleerrors.ErrTxAlreadyInMempool, "transaction %s is already in the mempool", tx.Hash)
	}

	topoheight, err := mp.cfg.TopoheightStore.LatestTopoheight()
	if err != nil {
		return err
	}
	storedNonce, err := mp.cfg.AccountStore.GetNonceAt(topoheight, tx.SourcePubKey)
	if err != nil {
		return err
	}
	expected := storedNonce + 1

	cache, hasCache := mp.perSender[tx.SourcePubKey]
	if !hasCache || cache.isEmpty() {
		if tx.Nonce != expected {
			return rejectNonce(tx.Nonce, expected)
		}
	} else {
		if tx.Nonce >= cache.minNonce && tx.Nonce <= cache.maxNonce {
			return ruleerrors.New(ruleerrors.ErrNonceDuplicate,
				"sender %x already has a pending transaction at nonce %d", tx.SourcePubKey, tx.Nonce)
		}
		if tx.Nonce != cache.maxNonce+1 {
			return rejectNonce(tx.Nonce, cache.maxNonce+1)
		}
	}

	if !hasCache && len(mp.perSender) >= mp.cfg.Policy.MaxAccounts {
		return ruleerrors.New(ruleerrors.ErrMempoolFull, "mempool already tracks its maximum of %d accounts", mp.cfg.Policy.MaxAccounts)
	}
	if hasCache && len(cache.txs) >= mp.cfg.Policy.MaxCapacityPerAccount {
		return ruleerrors.New(ruleerrors.ErrMempoolFull,
			"sender %x already has the maximum of %d pending transactions", tx.SourcePubKey, mp.cfg.Policy.MaxCapacityPerAccount)
	}

	balance, err := mp.cfg.AccountStore.GetBalanceAt(topoheight, tx.SourcePubKey, nativeAsset)
	if err != nil {
		return err
	}
	if tx.Fee > balance {
		return ruleerrors.New(ruleerrors.ErrInsufficientBalance,
			"sender %x declared fee %d exceeds available balance %d", tx.SourcePubKey, tx.Fee, balance)
	}

	if !hasCache {
		cache = &accountCache{minNonce: tx.Nonce, maxNonce: tx.Nonce}
		mp.perSender[tx.SourcePubKey] = cache
	} else {
		cache.maxNonce = tx.Nonce
	}
	cache.txs = append(cache.txs, &tx.Hash)
	mp.txsByHash[tx.Hash] = tx.Clone()
	return nil
}

func rejectNonce(declared, expected uint64) error {
	if declared < expected {
		return ruleerrors.New(ruleerrors.ErrNonceStale, "declared nonce %d is stale, expected %d", declared, expected)
	}
	return ruleerrors.New(ruleerrors.ErrNonceGap, "declared nonce %d leaves a gap, expected %d", declared, expected)
}

// senderCursor walks one sender's cache in ascending-nonce order while
// participating in the cross-sender priority heap.
type senderCursor struct {
	cache *accountCache
	next  int // index into cache.txs of the next tx to offer
}

func (c *senderCursor) headTx(mp *mempool) *externalapi.DomainTransaction {
	return mp.txsByHash[*c.cache.txs[c.next]]
}

func (c *senderCursor) exhausted() bool {
	return c.next >= len(c.cache.txs)
}

// cursorHeap orders senderCursors by their current head transaction's
// fee-per-byte, descending, with hash-descending tiebreak.
type cursorHeap struct {
	cursors []*senderCursor
	mp      *mempool
}

func (h *cursorHeap) Len() int { return len(h.cursors) }

func (h *cursorHeap) Less(i, j int) bool {
	txI, txJ := h.cursors[i].headTx(h.mp), h.cursors[j].headTx(h.mp)
	if txI.FeePerByte() != txJ.FeePerByte() {
		return txI.FeePerByte() > txJ.FeePerByte()
	}
	return txI.Hash.Greater(&txJ.Hash)
}

func (h *cursorHeap) Swap(i, j int) { h.cursors[i], h.cursors[j] = h.cursors[j], h.cursors[i] }

func (h *cursorHeap) Push(x interface{}) { h.cursors = append(h.cursors, x.(*senderCursor)) }

func (h *cursorHeap) Pop() interface{} {
	n := len(h.cursors)
	item := h.cursors[n-1]
	h.cursors[n-1] = nil
	h.cursors = h.cursors[:n-1]
	return item
}

// SelectForBlock returns up to maxTxs transactions in descending
// fee-per-byte order, each sender's own transactions always offered in
// nonce order, taking a read lock and working off a snapshot of the
// cache state.
func (mp *mempool) SelectForBlock(maxTxs int) []*externalapi.DomainTransaction {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()

	h := &cursorHeap{mp: mp}
	for _, cache := range mp.perSender {
		if cache.isEmpty() {
			continue
		}
		h.cursors = append(h.cursors, &senderCursor{cache: cache})
	}
	heap.Init(h)

	result := make([]*externalapi.DomainTransaction, 0, maxTxs)
	for h.Len() > 0 && len(result) < maxTxs {
		cursor := heap.Pop(h).(*senderCursor)
		result = append(result, mp.txsByHash[*cursor.cache.txs[cursor.next]])
		cursor.next++
		if !cursor.exhausted() {
			heap.Push(h, cursor)
		}
	}
	return result
}
