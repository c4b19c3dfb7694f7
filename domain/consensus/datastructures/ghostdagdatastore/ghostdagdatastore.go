// Package ghostdagdatastore persists each block's GHOSTDAG output: blue
// score, blue work, selected parent and merge set classification,
// written once and never mutated afterwards.
package ghostdagdatastore

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/dbkeys"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/storagecodec"
)

var bucket = dbkeys.MakeBucket([]byte("block-ghostdag-data"))

type store struct {
	staging map[externalapi.DomainHash]*externalapi.BlockGHOSTDAGData
	cache   *lru.Cache[externalapi.DomainHash, *externalapi.BlockGHOSTDAGData]
}

// New instantiates a GHOSTDAG data store with an LRU cache of the given
// size in front of the underlying database.
func New(cacheSize int) model.GHOSTDAGProvider {
	cache, err := lru.New[externalapi.DomainHash, *externalapi.BlockGHOSTDAGData](cacheSize)
	if err != nil {
		panic(err)
	}
	return &store{
		staging: make(map[externalapi.DomainHash]*externalapi.BlockGHOSTDAGData),
		cache:   cache,
	}
}

func (s *store) Stage(blockHash *externalapi.DomainHash, data *externalapi.BlockGHOSTDAGData) {
	s.staging[*blockHash] = data.Clone()
}

func (s *store) IsStaged() bool {
	return len(s.staging) != 0
}

func (s *store) Discard() {
	s.staging = make(map[externalapi.DomainHash]*externalapi.BlockGHOSTDAGData)
}

func (s *store) Commit(dbTx model.DBTransaction) error {
	for hash, data := range s.staging {
		hash := hash
		encoded, err := storagecodec.Encode(data)
		if err != nil {
			return err
		}
		if err := dbTx.Put(bucket.Key(hash[:]), encoded); err != nil {
			return err
		}
		s.cache.Add(hash, data)
	}
	s.Discard()
	return nil
}

func (s *store) Get(dbContext model.DBReader, blockHash *externalapi.DomainHash) (*externalapi.BlockGHOSTDAGData, error) {
	if data, ok := s.staging[*blockHash]; ok {
		return data.Clone(), nil
	}
	if data, ok := s.cache.Get(*blockHash); ok {
		return data.Clone(), nil
	}

	encoded, err := dbContext.Get(bucket.Key(blockHash[:]))
	if err != nil {
		return nil, err
	}
	data := &externalapi.BlockGHOSTDAGData{}
	if err := storagecodec.Decode(encoded, data); err != nil {
		return nil, err
	}
	s.cache.Add(*blockHash, data)
	return data.Clone(), nil
}

func (s *store) Has(dbContext model.DBReader, blockHash *externalapi.DomainHash) (bool, error) {
	if _, ok := s.staging[*blockHash]; ok {
		return true, nil
	}
	if _, ok := s.cache.Get(*blockHash); ok {
		return true, nil
	}
	return dbContext.Has(bucket.Key(blockHash[:]))
}

func (s *store) BlueScore(dbContext model.DBReader, blockHash *externalapi.DomainHash) (uint64, error) {
	data, err := s.Get(dbContext, blockHash)
	if err != nil {
		return 0, err
	}
	return data.BlueScore(), nil
}

func (s *store) BlueWork(dbContext model.DBReader, blockHash *externalapi.DomainHash) (*uint256.Int, error) {
	data, err := s.Get(dbContext, blockHash)
	if err != nil {
		return nil, err
	}
	return data.BlueWork(), nil
}

func (s *store) SelectedParent(dbContext model.DBReader, blockHash *externalapi.DomainHash) (*externalapi.DomainHash, error) {
	data, err := s.Get(dbContext, blockHash)
	if err != nil {
		return nil, err
	}
	return data.SelectedParent(), nil
}

func (s *store) MergeSetBlues(dbContext model.DBReader, blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	data, err := s.Get(dbContext, blockHash)
	if err != nil {
		return nil, err
	}
	return data.MergeSetBlues(), nil
}

func (s *store) MergeSetReds(dbContext model.DBReader, blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	data, err := s.Get(dbContext, blockHash)
	if err != nil {
		return nil, err
	}
	return data.MergeSetReds(), nil
}

func (s *store) BluesAnticoneSizes(dbContext model.DBReader, blockHash *externalapi.DomainHash) (map[externalapi.DomainHash]uint16, error) {
	data, err := s.Get(dbContext, blockHash)
	if err != nil {
		return nil, err
	}
	return data.BluesAnticoneSizes(), nil
}
