// Package leveldbstore is a persistent model.DBContext backed by
// goleveldb. It is one concrete realization of the abstract storage
// providers; the byte layout it writes is internal and unspecified by
// the core.
package leveldbstore

import (
	"github.com/btcsuite/goleveldb/leveldb"
	"github.com/btcsuite/goleveldb/leveldb/util"
	"github.com/pkg/errors"
	"github.com/tos-network/tos-sub006/domain/consensus/model"
)

// DB wraps a goleveldb database as a model.DBContext.
type DB struct {
	ldb *leveldb.DB
}

// Open opens (creating if necessary) a goleveldb database at path.
func Open(path string) (*DB, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opening leveldb at %s", path)
	}
	return &DB{ldb: ldb}, nil
}

// Close releases the underlying database handle.
func (db *DB) Close() error {
	return db.ldb.Close()
}

// Get implements model.DBReader.
func (db *DB) Get(key model.DBKey) ([]byte, error) {
	value, err := db.ldb.Get(key, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, errors.WithMessagef(model.ErrNotFound, "key %x", key)
		}
		return nil, err
	}
	return value, nil
}

// Has implements model.DBReader.
func (db *DB) Has(key model.DBKey) (bool, error) {
	return db.ldb.Has(key, nil)
}

// Begin implements model.DBContext.
func (db *DB) Begin() (model.DBTransaction, error) {
	batch := new(leveldb.Batch)
	return &transaction{db: db, batch: batch}, nil
}

type transaction struct {
	db     *DB
	batch  *leveldb.Batch
	closed bool
}

func (tx *transaction) Get(key model.DBKey) ([]byte, error) {
	return tx.db.Get(key)
}

func (tx *transaction) Has(key model.DBKey) (bool, error) {
	return tx.db.Has(key)
}

func (tx *transaction) Put(key model.DBKey, value []byte) error {
	tx.batch.Put(key, value)
	return nil
}

func (tx *transaction) Delete(key model.DBKey) error {
	tx.batch.Delete(key)
	return nil
}

func (tx *transaction) Commit() error {
	if tx.closed {
		return errors.New("transaction already closed")
	}
	tx.closed = true
	return tx.db.ldb.Write(tx.batch, nil)
}

func (tx *transaction) Rollback() error {
	tx.closed = true
	tx.batch = new(leveldb.Batch)
	return nil
}

// Iterate walks every key in prefix's namespace, invoking fn for each.
// Nothing in this module calls it.
func (db *DB) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	iter := db.ldb.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}
