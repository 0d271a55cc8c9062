// store.go
//
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.
//
// This file implements the persistent store of solved endgame
// positions, wrapping an embedded BadgerDB.

package skrafl

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Store caches solved positions persistently, keyed by a
// position fingerprint
type Store struct {
	db *badger.DB
}

// OpenStore opens (or creates) a solution store in the given
// directory
func OpenStore(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable BadgerDB's own logging
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// OpenInMemoryStore opens a store that is not backed by disk,
// for tests and ephemeral use
func OpenInMemoryStore() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database
func (st *Store) Close() error {
	if st.db != nil {
		return st.db.Close()
	}
	return nil
}

// PositionKey returns the fingerprint of an endgame position:
// a pure function of the board tiles, the racks and the player
// to move
func PositionKey(boardTiles []byte, racks [2][]byte, player int) string {
	return fmt.Sprintf("%x|%x|%x|%d", boardTiles, racks[0], racks[1], player)
}

// Load looks a solved position up by its fingerprint. The
// second return value is false if the position has not been
// solved before.
func (st *Store) Load(key string) (*SolveResponse, bool, error) {
	var solved *SolveResponse
	err := st.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			solved = &SolveResponse{}
			return json.Unmarshal(val, solved)
		})
	})
	if err != nil {
		return nil, false, err
	}
	return solved, solved != nil, nil
}

// Save records a solved position under its fingerprint
func (st *Store) Save(key string, solved *SolveResponse) error {
	data, err := json.Marshal(solved)
	if err != nil {
		return err
	}
	return st.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}
