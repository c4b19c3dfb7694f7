package mempool

import (
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
)

// Cleanup runs the incremental, after-a-routine-block trim: for every
// sender whose stored nonce advanced, pending entries at or below it
// are dropped from the front of the cache without re-validating
// anything.
func (mp *mempool) Cleanup() error {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	topoheight, err := mp.cfg.TopoheightStore.LatestTopoheight()
	if err != nil {
		return err
	}

	for sender, cache := range mp.perSender {
		if cache.isEmpty() {
			continue
		}
		storedNonce, err := mp.cfg.AccountStore.GetNonceAt(topoheight, sender)
		if err != nil {
			return err
		}
		mp.dropThrough(cache, storedNonce)
		if cache.isEmpty() {
			delete(mp.perSender, sender)
		}
	}
	return nil
}

// FullCleanup runs the after-reorg re-validation pass: each sender's
// lowest-nonce pending transaction is re-checked against current
// storage — nonce continuity, available balance, and that its
// reference hash still names the block actually occupying its
// topoheight on the current chain. If any
// of those no longer hold, the sender's entire cache is dropped (a gap
// can't be tolerated and later entries generally depend on earlier
// ones executing first).
func (mp *mempool) FullCleanup() error {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	topoheight, err := mp.cfg.TopoheightStore.LatestTopoheight()
	if err != nil {
		return err
	}

	droppedSenders := 0
	droppedTxs := 0
	for sender, cache := range mp.perSender {
		if cache.isEmpty() {
			delete(mp.perSender, sender)
			continue
		}

		storedNonce, err := mp.cfg.AccountStore.GetNonceAt(topoheight, sender)
		if err != nil {
			return err
		}
		mp.dropThrough(cache, storedNonce)
		if cache.isEmpty() {
			delete(mp.perSender, sender)
			continue
		}

		headHash := cache.txs[0]
		head := mp.txsByHash[*headHash]
		stillValid := head.Nonce == storedNonce+1
		if stillValid {
			balance, err := mp.cfg.AccountStore.GetBalanceAt(topoheight, sender, nativeAsset)
			if err != nil {
				return err
			}
			stillValid = head.Fee <= balance
		}
		if stillValid {
			referencedHash, err := mp.cfg.TopoheightStore.HashAtTopoheight(head.Reference.Topoheight)
			if err != nil {
				if !model.IsNotFound(err) {
					return err
				}
				stillValid = false
			} else {
				stillValid = referencedHash.Equal(&head.Reference.Hash)
			}
		}
		if stillValid {
			continue
		}

		for _, hash := range cache.txs {
			delete(mp.txsByHash, *hash)
		}
		delete(mp.perSender, sender)
		log.Infof("full cleanup dropped %d pending transactions of sender %x after reorg", len(cache.txs), sender)
		droppedSenders++
		droppedTxs += len(cache.txs)
	}

	if droppedSenders > 0 {
		log.Infof("full cleanup dropped %d sender caches (%d transactions) after reorg", droppedSenders, droppedTxs)
	}
	return nil
}

// dropThrough prunes cache entries with nonce <= storedNonce from the
// front, advancing minNonce. It does not re-validate what remains.
func (mp *mempool) dropThrough(cache *accountCache, storedNonce uint64) {
	if storedNonce < cache.minNonce {
		return
	}
	drop := storedNonce - cache.minNonce + 1
	if drop >= uint64(len(cache.txs)) {
		for _, hash := range cache.txs {
			delete(mp.txsByHash, *hash)
		}
		cache.txs = nil
		cache.minNonce = 0
		cache.maxNonce = 0
		return
	}
	for _, hash := range cache.txs[:drop] {
		delete(mp.txsByHash, *hash)
	}
	cache.txs = append([]*externalapi.DomainHash{}, cache.txs[drop:]...)
	cache.minNonce += drop
}
