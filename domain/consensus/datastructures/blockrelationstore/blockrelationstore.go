// Package blockrelationstore persists each block's direct DAG parent
// and child edges, the data the DAG topology manager serves Parents and
// Children queries from.
package blockrelationstore

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/dbkeys"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/storagecodec"
)

var bucket = dbkeys.MakeBucket([]byte("block-relations"))

type store struct {
	staging map[externalapi.DomainHash]*model.BlockRelations
	cache   *lru.Cache[externalapi.DomainHash, *model.BlockRelations]
}

// New instantiates a block relation store with an LRU cache of the given
// size in front of the underlying database.
func New(cacheSize int) model.BlockRelationProvider {
	cache, err := lru.New[externalapi.DomainHash, *model.BlockRelations](cacheSize)
	if err != nil {
		panic(err)
	}
	return &store{
		staging: make(map[externalapi.DomainHash]*model.BlockRelations),
		cache:   cache,
	}
}

func (s *store) Stage(blockHash *externalapi.DomainHash, relations *model.BlockRelations) {
	s.staging[*blockHash] = relations.Clone()
}

func (s *store) IsStaged() bool {
	return len(s.staging) != 0
}

func (s *store) Discard() {
	s.staging = make(map[externalapi.DomainHash]*model.BlockRelations)
}

func (s *store) Commit(dbTx model.DBTransaction) error {
	for hash, relations := range s.staging {
		hash := hash
		data, err := storagecodec.Encode(relations)
		if err != nil {
			return err
		}
		if err := dbTx.Put(bucket.Key(hash[:]), data); err != nil {
			return err
		}
		s.cache.Add(hash, relations)
	}
	s.Discard()
	return nil
}

func (s *store) Get(dbContext model.DBReader, blockHash *externalapi.DomainHash) (*model.BlockRelations, error) {
	if relations, ok := s.staging[*blockHash]; ok {
		return relations.Clone(), nil
	}
	if relations, ok := s.cache.Get(*blockHash); ok {
		return relations.Clone(), nil
	}

	data, err := dbContext.Get(bucket.Key(blockHash[:]))
	if err != nil {
		return nil, err
	}
	var relations model.BlockRelations
	if err := storagecodec.Decode(data, &relations); err != nil {
		return nil, err
	}
	s.cache.Add(*blockHash, &relations)
	return relations.Clone(), nil
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
