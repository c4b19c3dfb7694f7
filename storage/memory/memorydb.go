// Package memory provides a map-backed model.DBContext, the reference
// storage backend used by unit tests and by any caller that doesn't need
// persistence across restarts.
package memory

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/tos-network/tos-sub006/domain/consensus/model"
)

// DB is an in-memory, mutex-guarded key-value store implementing
// model.DBContext.
type DB struct {
	mtx  sync.RWMutex
	data map[string][]byte
}

// New creates an empty in-memory DB.
func New() *DB {
	return &DB{data: make(map[string][]byte)}
}

// Get implements model.DBReader.
func (db *DB) Get(key model.DBKey) ([]byte, error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()

	value, ok := db.data[string(key)]
	if !ok {
		return nil, errors.WithMessagef(model.ErrNotFound, "key %x", key)
	}
	// Return a copy: callers must not be able to mutate store state
	// through a previously-read slice.
	clone := make([]byte, len(value))
	copy(clone, value)
	return clone, nil
}

// Has implements model.DBReader.
func (db *DB) Has(key model.DBKey) (bool, error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()

	_, ok := db.data[string(key)]
	return ok, nil
}

// Begin implements model.DBContext.
func (db *DB) Begin() (model.DBTransaction, error) {
	return &transaction{db: db, writes: make(map[string][]byte), deletes: make(map[string]struct{})}, nil
}

type transaction struct {
	db      *DB
	writes  map[string][]byte
	deletes map[string]struct{}
	closed  bool
}

func (tx *transaction) Get(key model.DBKey) ([]byte, error) {
	k := string(key)
	if _, deleted := tx.deletes[k]; deleted {
		return nil, errors.WithMessagef(model.ErrNotFound, "key %x", key)
	}
	if value, ok := tx.writes[k]; ok {
		clone := make([]byte, len(value))
		copy(clone, value)
		return clone, nil
	}
	return tx.db.Get(key)
}

func (tx *transaction) Has(key model.DBKey) (bool, error) {
	k := string(key)
	if _, deleted := tx.deletes[k]; deleted {
		return false, nil
	}
	if _, ok := tx.writes[k]; ok {
		return true, nil
	}
	return tx.db.Has(key)
}

func (tx *transaction) Put(key model.DBKey, value []byte) error {
	if tx.closed {
		return errors.New("transaction already closed")
	}
	k := string(key)
	delete(tx.deletes, k)
	clone := make([]byte, len(value))
	copy(clone, value)
	tx.writes[k] = clone
	return nil
}

func (tx *transaction) Delete(key model.DBKey) error {
	if tx.closed {
		return errors.New("transaction already closed")
	}
	k := string(key)
	delete(tx.writes, k)
	tx.deletes[k] = struct{}{}
	return nil
}

func (tx *transaction) Commit() error {
	if tx.closed {
		return errors.New("transaction already closed")
	}
	tx.closed = true

	tx.db.mtx.Lock()
	defer tx.db.mtx.Unlock()
	for k := range tx.deletes {
		delete(tx.db.data, k)
	}
	for k, v := range tx.writes {
		tx.db.data[k] = v
	}
	return nil
}

func (tx *transaction) Rollback() error {
	tx.closed = true
	tx.writes = nil
	tx.deletes = nil
	return nil
}
