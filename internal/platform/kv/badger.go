package kv

import (
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// Open returns the badger database backing the vote ledger. An empty path
// selects badger's in-memory mode; vote records are ephemeral bookkeeping,
// so losing them on restart only restarts the affected nomination cycles.
func Open(path string) (*badger.DB, error) {
	options := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		options = options.WithInMemory(true)
	}
	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}
