package badgerdb

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"healthaxis/internal/pkg/logger"
)

// Open initializes the BadgerDB instance backing the reminder store.
// Badger takes a directory lock, so a second process pointed at the same
// directory fails here instead of racing the first writer (the multi-tab
// persistence race of the original is resolved by refusing to open).
func Open(dir string, log logger.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(nil).
		WithNumVersionsToKeep(1).
		WithCompactL0OnClose(true).
		WithValueLogFileSize(16 << 20).
		WithMemTableSize(16 << 20)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", dir, err)
	}
	log.Info(fmt.Sprintf("Reminder store opened at %s", dir))
	return db, nil
}
