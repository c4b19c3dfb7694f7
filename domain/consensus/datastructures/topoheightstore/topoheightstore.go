// Package topoheightstore persists the total order over accepted
// blocks: a monotonically increasing index assigned once per block,
// independent of (and finer than) the DAG's blue-score ordering, that
// the account model and transaction references are keyed against.
package topoheightstore

import (
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/dbkeys"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/storagecodec"
)

var (
	byHashBucket       = dbkeys.MakeBucket([]byte("topoheight-by-hash"))
	byTopoheightBucket = dbkeys.MakeBucket([]byte("hash-by-topoheight"))
	latestKey          = dbkeys.MakeBucket([]byte("topoheight-latest")).Key([]byte("value"))
)

type store struct {
	databaseContext model.DBContext
}

// New instantiates a topoheight store directly over databaseContext.
func New(databaseContext model.DBContext) model.TopoheightProvider {
	return &store{databaseContext: databaseContext}
}

func (s *store) TopoheightOf(blockHash *externalapi.DomainHash) (uint64, error) {
	encoded, err := s.databaseContext.Get(byHashBucket.Key(blockHash[:]))
	if err != nil {
		return 0, err
	}
	var topoheight uint64
	if err := storagecodec.Decode(encoded, &topoheight); err != nil {
		return 0, err
	}
	return topoheight, nil
}

func (s *store) HashAtTopoheight(topoheight uint64) (*externalapi.DomainHash, error) {
	encoded, err := s.databaseContext.Get(byTopoheightBucket.Key(topoheightKeySuffix(topoheight)))
	if err != nil {
		return nil, err
	}
	var hash externalapi.DomainHash
	if err := storagecodec.Decode(encoded, &hash); err != nil {
		return nil, err
	}
	return &hash, nil
}

// PrunedTopoheight always returns 0: this core carries no pruning
// subsystem, so the full topoheight history is always retained.
func (s *store) PrunedTopoheight() (uint64, error) {
	return 0, nil
}

func (s *store) LatestTopoheight() (uint64, error) {
	has, err := s.databaseContext.Has(latestKey)
	if err != nil {
		return 0, err
	}
	if !has {
		return 0, nil
	}
	encoded, err := s.databaseContext.Get(latestKey)
	if err != nil {
		return 0, err
	}
	var latest uint64
	if err := storagecodec.Decode(encoded, &latest); err != nil {
		return 0, err
	}
	return latest, nil
}

func (s *store) AdvanceTopoheight(blockHash *externalapi.DomainHash) (uint64, error) {
	latest, err := s.LatestTopoheight()
	if err != nil {
		return 0, err
	}

	next := latest
	hasAny, err := s.databaseContext.Has(latestKey)
	if err != nil {
		return 0, err
	}
	if hasAny {
		next = latest + 1
	}

	dbTx, err := s.databaseContext.Begin()
	if err != nil {
		return 0, err
	}

	hashEncoded, err := storagecodec.Encode(*blockHash)
	if err != nil {
		return 0, err
	}
	if err := dbTx.Put(byTopoheightBucket.Key(topoheightKeySuffix(next)), hashEncoded); err != nil {
		return 0, err
	}

	topoheightEncoded, err := storagecodec.Encode(next)
	if err != nil {
		return 0, err
	}
	if err := dbTx.Put(byHashBucket.Key(blockHash[:]), topoheightEncoded); err != nil {
		return 0, err
	}
	if err := dbTx.Put(latestKey, topoheightEncoded); err != nil {
		return 0, err
	}

	if err := dbTx.Commit(); err != nil {
		return 0, err
	}
	return next, nil
}

func topoheightKeySuffix(topoheight uint64) []byte {
	return []byte{
		byte(topoheight >> 56), byte(topoheight >> 48), byte(topoheight >> 40), byte(topoheight >> 32),
		byte(topoheight >> 24), byte(topoheight >> 16), byte(topoheight >> 8), byte(topoheight),
	}
}
