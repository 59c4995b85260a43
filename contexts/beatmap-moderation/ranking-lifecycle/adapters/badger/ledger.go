package badgeradapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainerrors "nominator/contexts/beatmap-moderation/ranking-lifecycle/domain/errors"

	badger "github.com/dgraph-io/badger/v4"
)

// Ledger keeps nomination vote records in badger, one key per
// (set, voter) pair. Badger's serializable transactions provide the
// create-if-absent atomicity; the ledger never does a read-then-write
// outside a transaction.
type Ledger struct {
	db     *badger.DB
	logger *slog.Logger
}

func NewLedger(db *badger.DB, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{db: db, logger: logger}
}

func voteKey(setID, voterID int64) []byte {
	return []byte(fmt.Sprintf("vote:%d:%d", setID, voterID))
}

func votePrefix(setID int64) []byte {
	return []byte(fmt.Sprintf("vote:%d:", setID))
}

func (l *Ledger) CastVote(ctx context.Context, voterID int64, setID int64) (bool, error) {
	key := voteKey(setID, voterID)
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		created := false
		err := l.db.Update(func(txn *badger.Txn) error {
			_, err := txn.Get(key)
			if err == nil {
				return nil
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Set(key, []byte{1}); err != nil {
				return err
			}
			created = true
			return nil
		})
		if errors.Is(err, badger.ErrConflict) {
			// Lost the race against an identical vote; re-run to observe
			// the committed record and report the duplicate.
			continue
		}
		if err != nil {
			return false, l.storeError("ranking_ledger_cast_failed", err, "set_id", setID, "voter_id", voterID)
		}
		return created, nil
	}
}

func (l *Ledger) CountVoters(_ context.Context, setID int64) (int, error) {
	prefix := votePrefix(setID)
	count := 0
	err := l.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, l.storeError("ranking_ledger_count_failed", err, "set_id", setID)
	}
	return count, nil
}

func (l *Ledger) ClearVotes(_ context.Context, setID int64) error {
	prefix := votePrefix(setID)
	var keys [][]byte
	err := l.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return l.storeError("ranking_ledger_clear_scan_failed", err, "set_id", setID)
	}
	if len(keys) == 0 {
		return nil
	}

	batch := l.db.NewWriteBatch()
	defer batch.Cancel()
	for _, key := range keys {
		if err := batch.Delete(key); err != nil {
			return l.storeError("ranking_ledger_clear_failed", err, "set_id", setID)
		}
	}
	if err := batch.Flush(); err != nil {
		return l.storeError("ranking_ledger_clear_failed", err, "set_id", setID)
	}
	return nil
}

func (l *Ledger) storeError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "beatmap-moderation/ranking-lifecycle",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	l.logger.Error("badger ledger call failed", fields...)
	return fmt.Errorf("%w: %v", domainerrors.ErrStoreUnavailable, err)
}
