package externalapi

// DomainBlock is a header paired with the full bodies of the transactions
// it declares (by hash, in Header.Txs). Transactions are carried
// separately from the header because the header alone is enough to
// validate structure, PoW and GHOSTDAG placement; only the post-commit
// mempool notification needs the bodies.
type DomainBlock struct {
	Header       *DomainBlockHeader
	Transactions []*DomainTransaction
}

// Clone returns a deep copy of the block.
func (b *DomainBlock) Clone() *DomainBlock {
	if b == nil {
		return nil
	}
	txs := make([]*DomainTransaction, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i] = tx.Clone()
	}
	return &DomainBlock{
		Header:       b.Header.Clone(),
		Transactions: txs,
	}
}
