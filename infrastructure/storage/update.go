package storage

import (
	"tactical-link/errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dgraph-io/badger/v4"
)

// replayTimeout bounds the wait for a concurrent prefix drop or writer.
const replayTimeout = 10 * time.Second

// update runs fn in a read-write transaction. The whole transaction is
// replayed while writes are blocked by a prefix drop, or when it conflicts
// with a concurrent one.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	return replay(func() error { return db.Update(fn) })
}

func replay(op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 5 * time.Millisecond
	policy.MaxElapsedTime = replayTimeout
	return backoff.Retry(func() error {
		err := op()
		if err == nil || errors.Is(err, badger.ErrBlockedWrites) || errors.Is(err, badger.ErrConflict) {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}
