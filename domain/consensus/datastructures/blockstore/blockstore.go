// Package blockstore persists block headers, the height each one was
// added at, and the current DAG tip set.
package blockstore

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tos-network/tos-sub006/domain/consensus/model"
	"github.com/tos-network/tos-sub006/domain/consensus/model/externalapi"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/dbkeys"
	"github.com/tos-network/tos-sub006/domain/consensus/utils/storagecodec"
)

var (
	headerBucket               = dbkeys.MakeBucket([]byte("block-headers"))
	heightBucket               = dbkeys.MakeBucket([]byte("block-heights"))
	cumulativeDifficultyBucket = dbkeys.MakeBucket([]byte("block-cumulative-difficulty"))
	tipsKey                    = dbkeys.MakeBucket([]byte("tips")).Key([]byte("set"))
)

type store struct {
	stagingHeaders              map[externalapi.DomainHash]*externalapi.DomainBlockHeader
	stagingHeights              map[externalapi.DomainHash]uint64
	stagingCumulativeDifficulty map[externalapi.DomainHash]uint64
	cache                       *lru.Cache[externalapi.DomainHash, *externalapi.DomainBlockHeader]

	stagedTips []*externalapi.DomainHash
	tipsStaged bool
}

// New instantiates a block store with an LRU cache of the given size in
// front of the underlying database.
func New(cacheSize int) model.BlockProvider {
	cache, err := lru.New[externalapi.DomainHash, *externalapi.DomainBlockHeader](cacheSize)
	if err != nil {
		panic(err)
	}
	return &store{
		stagingHeaders:              make(map[externalapi.DomainHash]*externalapi.DomainBlockHeader),
		stagingHeights:              make(map[externalapi.DomainHash]uint64),
		stagingCumulativeDifficulty: make(map[externalapi.DomainHash]uint64),
		cache:                       cache,
	}
}

func (s *store) Stage(blockHash *externalapi.DomainHash, header *externalapi.DomainBlockHeader) {
	s.stagingHeaders[*blockHash] = header.Clone()
}

func (s *store) AddBlockAtHeight(blockHash *externalapi.DomainHash, height uint64) {
	s.stagingHeights[*blockHash] = height
}

func (s *store) StageTips(tips []*externalapi.DomainHash) {
	s.stagedTips = externalapi.CloneHashes(tips)
	s.tipsStaged = true
}

func (s *store) StageCumulativeDifficulty(blockHash *externalapi.DomainHash, cumulativeDifficulty uint64) {
	s.stagingCumulativeDifficulty[*blockHash] = cumulativeDifficulty
}

func (s *store) IsStaged() bool {
	return len(s.stagingHeaders) != 0 || len(s.stagingHeights) != 0 ||
		len(s.stagingCumulativeDifficulty) != 0 || s.tipsStaged
}

func (s *store) Discard() {
	s.stagingHeaders = make(map[externalapi.DomainHash]*externalapi.DomainBlockHeader)
	s.stagingHeights = make(map[externalapi.DomainHash]uint64)
	s.stagingCumulativeDifficulty = make(map[externalapi.DomainHash]uint64)
	s.stagedTips = nil
	s.tipsStaged = false
}

func (s *store) Commit(dbTx model.DBTransaction) error {
	for hash, header := range s.stagingHeaders {
		hash := hash
		encoded, err := storagecodec.Encode(header)
		if err != nil {
			return err
		}
		if err := dbTx.Put(headerBucket.Key(hash[:]), encoded); err != nil {
			return err
		}
		s.cache.Add(hash, header)
	}
	for hash, height := range s.stagingHeights {
		encoded, err := storagecodec.Encode(height)
		if err != nil {
			return err
		}
		if err := dbTx.Put(heightBucket.Key(hash[:]), encoded); err != nil {
			return err
		}
	}
	for hash, cumulativeDifficulty := range s.stagingCumulativeDifficulty {
		hash := hash
		encoded, err := storagecodec.Encode(cumulativeDifficulty)
		if err != nil {
			return err
		}
		if err := dbTx.Put(cumulativeDifficultyBucket.Key(hash[:]), encoded); err != nil {
			return err
		}
	}
	if s.tipsStaged {
		encoded, err := storagecodec.Encode(s.stagedTips)
		if err != nil {
			return err
		}
		if err := dbTx.Put(tipsKey, encoded); err != nil {
			return err
		}
	}
	s.Discard()
	return nil
}

func (s *store) CumulativeDifficultyOf(dbContext model.DBReader, blockHash *externalapi.DomainHash) (uint64, error) {
	if cumulativeDifficulty, ok := s.stagingCumulativeDifficulty[*blockHash]; ok {
		return cumulativeDifficulty, nil
	}
	encoded, err := dbContext.Get(cumulativeDifficultyBucket.Key(blockHash[:]))
	if err != nil {
		return 0, err
	}
	var cumulativeDifficulty uint64
	if err := storagecodec.Decode(encoded, &cumulativeDifficulty); err != nil {
		return 0, err
	}
	return cumulativeDifficulty, nil
}

func (s *store) GetHeader(dbContext model.DBReader, blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error) {
	if header, ok := s.stagingHeaders[*blockHash]; ok {
		return header.Clone(), nil
	}
	if header, ok := s.cache.Get(*blockHash); ok {
		return header.Clone(), nil
	}

	encoded, err := dbContext.Get(headerBucket.Key(blockHash[:]))
	if err != nil {
		return nil, err
	}
	var header externalapi.DomainBlockHeader
	if err := storagecodec.Decode(encoded, &header); err != nil {
		return nil, err
	}
	s.cache.Add(*blockHash, &header)
	return header.Clone(), nil
}

func (s *store) Has(dbContext model.DBReader, blockHash *externalapi.DomainHash) (bool, error) {
	if _, ok := s.stagingHeaders[*blockHash]; ok {
		return true, nil
	}
	if _, ok := s.cache.Get(*blockHash); ok {
		return true, nil
	}
	return dbContext.Has(headerBucket.Key(blockHash[:]))
}

func (s *store) HeightOf(dbContext model.DBReader, blockHash *externalapi.DomainHash) (uint64, error) {
	if height, ok := s.stagingHeights[*blockHash]; ok {
		return height, nil
	}
	encoded, err := dbContext.Get(heightBucket.Key(blockHash[:]))
	if err != nil {
		return 0, err
	}
	var height uint64
	if err := storagecodec.Decode(encoded, &height); err != nil {
		return 0, err
	}
	return height, nil
}

func (s *store) Tips(dbContext model.DBReader) ([]*externalapi.DomainHash, error) {
	if s.tipsStaged {
		return externalapi.CloneHashes(s.stagedTips), nil
	}
	encoded, err := dbContext.Get(tipsKey)
	if err != nil {
		if model.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var tips []*externalapi.DomainHash
	if err := storagecodec.Decode(encoded, &tips); err != nil {
		return nil, err
	}
	return tips, nil
}
