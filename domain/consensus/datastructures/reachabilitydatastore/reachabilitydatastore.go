// Package reachabilitydatastore persists the reachability index's
// per-block interval labels, tree edges and future covering sets, plus
// the single reindex-root pointer the reachability manager bounds its
// reindex work by.
package reachabilitydatastore

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/dbkeys"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/storagecodec"
)

var (
	bucket         = dbkeys.MakeBucket([]byte("reachability-data"))
	reindexRootKey = dbkeys.MakeBucket([]byte("reachability-reindex-root")).Key([]byte("root"))
)

type store struct {
	staging             map[externalapi.DomainHash]*externalapi.ReachabilityData
	cache               *lru.Cache[externalapi.DomainHash, *externalapi.ReachabilityData]
	stagedReindexRoot   *externalapi.DomainHash
	reindexRootIsStaged bool
}

// New instantiates a reachability data store with an LRU cache of the
// given size in front of the underlying database.
func New(cacheSize int) model.ReachabilityProvider {
	cache, err := lru.New[externalapi.DomainHash, *externalapi.ReachabilityData](cacheSize)
	if err != nil {
		panic(err)
	}
	return &store{
		staging: make(map[externalapi.DomainHash]*externalapi.ReachabilityData),
		cache:   cache,
	}
}

func (s *store) Stage(blockHash *externalapi.DomainHash, data *externalapi.ReachabilityData) {
	s.staging[*blockHash] = data.Clone()
}

func (s *store) StageInterval(blockHash *externalapi.DomainHash, interval *externalapi.Interval) {
	data := s.getStagedOrPanic(blockHash)
	data.Interval = interval.Clone()
}

func (s *store) StageFutureCoveringSet(blockHash *externalapi.DomainHash, fcs []*externalapi.DomainHash) {
	data := s.getStagedOrPanic(blockHash)
	data.FutureCoveringSet = externalapi.CloneHashes(fcs)
}

func (s *store) StageChildren(blockHash *externalapi.DomainHash, children []*externalapi.DomainHash) {
	data := s.getStagedOrPanic(blockHash)
	data.Children = externalapi.CloneHashes(children)
}

// getStagedOrPanic returns the staged record for blockHash, copying it
// up from the cache first if it isn't staged yet. Every public
// Stage* method above is only ever called by the reachability manager
// immediately after a successful Get of the same block, so a miss here
// is a caller bug.
func (s *store) getStagedOrPanic(blockHash *externalapi.DomainHash) *externalapi.ReachabilityData {
	if data, ok := s.staging[*blockHash]; ok {
		return data
	}
	if data, ok := s.cache.Get(*blockHash); ok {
		clone := data.Clone()
		s.staging[*blockHash] = clone
		return clone
	}
	panic("reachabilitydatastore: StageInterval/StageFutureCoveringSet/StageChildren called before Get")
}

func (s *store) IsStaged() bool {
	return len(s.staging) != 0 || s.reindexRootIsStaged
}

func (s *store) Discard() {
	s.staging = make(map[externalapi.DomainHash]*externalapi.ReachabilityData)
	s.stagedReindexRoot = nil
	s.reindexRootIsStaged = false
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
	if s.reindexRootIsStaged {
		if err := dbTx.Put(reindexRootKey, s.stagedReindexRoot[:]); err != nil {
			return err
		}
	}
	s.Discard()
	return nil
}

func (s *store) Get(dbContext model.DBReader, blockHash *externalapi.DomainHash) (*externalapi.ReachabilityData, error) {
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
	var data externalapi.ReachabilityData
	if err := storagecodec.Decode(encoded, &data); err != nil {
		return nil, err
	}
	s.cache.Add(*blockHash, &data)
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

func (s *store) ReindexRoot(dbContext model.DBReader) (*externalapi.DomainHash, error) {
	if s.reindexRootIsStaged {
		return s.stagedReindexRoot.Clone(), nil
	}

	data, err := dbContext.Get(reindexRootKey)
	if err != nil {
		return nil, err
	}
	var hash externalapi.DomainHash
	copy(hash[:], data)
	return &hash, nil
}

func (s *store) StageReindexRoot(blockHash *externalapi.DomainHash) {
	s.stagedReindexRoot = blockHash.Clone()
	s.reindexRootIsStaged = true
}
