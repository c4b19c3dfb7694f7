// Package accountstore persists per-account balances and nonces at each
// topoheight. Unlike the block-keyed stores, writes here commit
// immediately: the account model has no staging/discard lifecycle of
// its own, since every write is already scoped to an explicit
// topoheight supplied by the caller. The block processor does not write
// accounts; in this module only tests call SetBalanceAt/SetNonceAt.
package accountstore

import (
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/dbkeys"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/storagecodec"
)

var (
	balanceBucket = dbkeys.MakeBucket([]byte("account-balances"))
	nonceBucket   = dbkeys.MakeBucket([]byte("account-nonces"))
)

type store struct {
	databaseContext model.DBContext
}

// New instantiates an account store directly over databaseContext.
func New(databaseContext model.DBContext) model.AccountProvider {
	return &store{databaseContext: databaseContext}
}

func balanceKey(topoheight uint64, account [32]byte, asset externalapi.DomainHash) model.DBKey {
	key := make([]byte, 0, 8+32+32)
	key = appendUint64(key, topoheight)
	key = append(key, account[:]...)
	key = append(key, asset[:]...)
	return balanceBucket.Key(key)
}

func nonceKey(topoheight uint64, account [32]byte) model.DBKey {
	key := make([]byte, 0, 8+32)
	key = appendUint64(key, topoheight)
	key = append(key, account[:]...)
	return nonceBucket.Key(key)
}

func appendUint64(b []byte, v uint64) []byte {
	return append(b,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func (s *store) GetBalanceAt(topoheight uint64, account [32]byte, asset externalapi.DomainHash) (uint64, error) {
	has, err := s.databaseContext.Has(balanceKey(topoheight, account, asset))
	if err != nil {
		return 0, err
	}
	if !has {
		return 0, nil
	}
	encoded, err := s.databaseContext.Get(balanceKey(topoheight, account, asset))
	if err != nil {
		return 0, err
	}
	var balance uint64
	if err := storagecodec.Decode(encoded, &balance); err != nil {
		return 0, err
	}
	return balance, nil
}

func (s *store) GetNonceAt(topoheight uint64, account [32]byte) (uint64, error) {
	has, err := s.databaseContext.Has(nonceKey(topoheight, account))
	if err != nil {
		return 0, err
	}
	if !has {
		return 0, nil
	}
	encoded, err := s.databaseContext.Get(nonceKey(topoheight, account))
	if err != nil {
		return 0, err
	}
	var nonce uint64
	if err := storagecodec.Decode(encoded, &nonce); err != nil {
		return 0, err
	}
	return nonce, nil
}

func (s *store) SetBalanceAt(topoheight uint64, account [32]byte, asset externalapi.DomainHash, balance uint64) error {
	dbTx, err := s.databaseContext.Begin()
	if err != nil {
		return err
	}
	encoded, err := storagecodec.Encode(balance)
	if err != nil {
		return err
	}
	if err := dbTx.Put(balanceKey(topoheight, account, asset), encoded); err != nil {
		return err
	}
	return dbTx.Commit()
}

func (s *store) SetNonceAt(topoheight uint64, account [32]byte, nonce uint64) error {
	dbTx, err := s.databaseContext.Begin()
	if err != nil {
		return err
	}
	encoded, err := storagecodec.Encode(nonce)
	if err != nil {
		return err
	}
	if err := dbTx.Put(nonceKey(topoheight, account), encoded); err != nil {
		return err
	}
	return dbTx.Commit()
}
