package storage

import (
	"bytes"
	"log/slog"
	"sync"
	"tactical-link/domain"
	"tactical-link/errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *badger.DB {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newMessage(sender, recipient string, at time.Time) domain.Message {
	return domain.Message{
		SenderID:    sender,
		RecipientID: recipient,
		Ciphertext:  []byte("ciphertext"),
		WrappedKey:  []byte("wrapped-key"),
		Length:      44,
		CreatedAt:   at,
	}
}

func TestMessageRepository_CreateAndGet(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default(), nil)

	message := newMessage("alice", "bob", time.Now().UTC())
	message.GroupID = "squad-7"
	message.PlaintextEcho = []byte("hello bob")
	message.TTLSeconds = 60
	message.ReadOnce = true

	id, err := repository.Create(message)
	req.NoError(err)
	req.NotEqual(uuid.Nil, id)

	fetched, err := repository.Get(id)
	req.NoError(err)
	message.ID = id
	req.Equal(message, fetched)
}

func TestMessageRepository_CreateKeepsGivenID(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default(), nil)

	message := newMessage("alice", "bob", time.Now().UTC())
	message.ID = uuid.New()
	id, err := repository.Create(message)
	req.NoError(err)
	req.Equal(message.ID, id)

	// The same id can't be created twice
	_, err = repository.Create(message)
	req.ErrorIs(err, errors.ErrStoreUnavailable)
}

func TestMessageRepository_GetUnknown(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default(), nil)

	_, err := repository.Get(uuid.New())
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestMessageRepository_ListPendingFor(t *testing.T) {
	req := require.New(t)
	limit := 2
	repository := NewMessageRepository(newTestDB(t), slog.Default(), &limit)
	at := time.Now().UTC()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		id, err := repository.Create(newMessage("alice", "bob", at.Add(time.Duration(i)*time.Second)))
		req.NoError(err)
		ids = append(ids, id)
	}
	_, err := repository.Create(newMessage("alice", "clara", at))
	req.NoError(err)

	pending, err := repository.ListPendingFor("bob")
	req.NoError(err)
	req.Len(pending, limit)
	req.Equal(ids[0], pending[0].ID)
	req.Equal(ids[1], pending[1].ID)

	// Read and destroyed messages leave the pending list
	req.NoError(repository.MarkRead(ids[0]))
	req.NoError(repository.Delete(ids[1]))
	pending, err = repository.ListPendingFor("bob")
	req.NoError(err)
	req.Len(pending, 1)
	req.Equal(ids[2], pending[0].ID)

	pending, err = repository.ListPendingFor("nobody")
	req.NoError(err)
	req.Empty(pending)
}

func TestMessageRepository_MarkRead(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default(), nil)

	id, err := repository.Create(newMessage("alice", "bob", time.Now().UTC()))
	req.NoError(err)

	req.NoError(repository.MarkRead(id))
	// Marking twice is harmless
	req.NoError(repository.MarkRead(id))

	fetched, err := repository.Get(id)
	req.NoError(err)
	req.True(fetched.IsRead)
	req.False(fetched.IsDestroyed)

	req.ErrorIs(repository.MarkRead(uuid.New()), errors.ErrNotFound)
}

func TestMessageRepository_MarkReadOnceHasASingleWinner(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default(), nil)

	message := newMessage("alice", "bob", time.Now().UTC())
	message.ReadOnce = true
	id, err := repository.Create(message)
	req.NoError(err)

	const readers = 8
	results := make(chan error, readers)
	var wg sync.WaitGroup
	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repository.MarkRead(id)
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for err := range results {
		if err == nil {
			winners++
			continue
		}
		req.ErrorIs(err, errors.ErrAlreadyRead)
	}
	req.Equal(1, winners)
	req.ErrorIs(repository.MarkRead(id), errors.ErrAlreadyRead)
}

func TestMessageRepository_Delete(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default(), nil)

	message := newMessage("alice", "bob", time.Now().UTC())
	message.TTLSeconds = 30
	message.PlaintextEcho = []byte("echo")
	id, err := repository.Create(message)
	req.NoError(err)

	req.NoError(repository.Delete(id))

	// The tombstone keeps metadata and loses every secret
	fetched, err := repository.Get(id)
	req.NoError(err)
	req.True(fetched.IsDestroyed)
	req.Empty(fetched.Ciphertext)
	req.Empty(fetched.WrappedKey)
	req.Empty(fetched.PlaintextEcho)
	req.Equal("alice", fetched.SenderID)
	req.Equal(30, fetched.TTLSeconds)

	// Destroyed is terminal
	req.ErrorIs(repository.Delete(id), errors.ErrNotFound)
	req.ErrorIs(repository.MarkRead(id), errors.ErrNotFound)
	req.ErrorIs(repository.Delete(uuid.New()), errors.ErrNotFound)

	armed, err := repository.ListArmed()
	req.NoError(err)
	req.Empty(armed)
}

func TestMessageRepository_DeletePurgesEveryVersionOnDisk(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	open := func() *badger.DB {
		db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
		req.NoError(err)
		return db
	}

	db := open()
	repository := NewMessageRepository(db, slog.Default(), nil)
	message := newMessage("alice", "bob", time.Now().UTC())
	message.Ciphertext = []byte("SECRET-CIPHERTEXT-BYTES")
	message.WrappedKey = []byte("SECRET-WRAPPED-KEY")
	message.PlaintextEcho = []byte("SECRET-ECHO")
	id, err := repository.Create(message)
	req.NoError(err)
	// A second version of the record
	req.NoError(repository.MarkRead(id))
	req.NoError(repository.Delete(id))
	req.NoError(db.Close())

	db = open()
	defer db.Close()

	versions := 0
	err = db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.AllVersions = true
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			if bytes.Equal(item.Key(), messageKey(id)) {
				versions++
			}
			if item.IsDeletedOrExpired() {
				continue
			}
			value, err := item.ValueCopy(nil)
			req.NoError(err)
			req.NotContains(string(value), "SECRET", "key %s", item.Key())
		}
		return nil
	})
	req.NoError(err)
	req.Equal(1, versions)

	finished, err := NewMessageRepository(db, slog.Default(), nil).FinishPurges()
	req.NoError(err)
	req.Zero(finished)

	tombstone, err := NewMessageRepository(db, slog.Default(), nil).Get(id)
	req.NoError(err)
	req.True(tombstone.IsDestroyed)
	req.Equal("alice", tombstone.SenderID)
}

// versionsOf counts every stored version of the message record.
func versionsOf(t *testing.T, db *badger.DB, id uuid.UUID) int {
	versions := 0
	require.NoError(t, db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.AllVersions = true
		options.Prefix = messageKey(id)
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			versions++
		}
		return nil
	}))
	return versions
}

// interruptedDelete writes the tombstone and its purge entry without purging,
// as after a crash in between.
func interruptedDelete(t *testing.T, db *badger.DB, message domain.Message) {
	data, err := marshalMessage(message.Tombstone())
	require.NoError(t, err)
	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(messageKey(message.ID), data); err != nil {
			return err
		}
		return txn.Set(purgeKey(message.ID), data)
	}))
}

func TestMessageRepository_DeleteRetryFinishesPurge(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repository := NewMessageRepository(db, slog.Default(), nil)

	message := newMessage("alice", "bob", time.Now().UTC())
	message.PlaintextEcho = []byte("SECRET-ECHO")
	id, err := repository.Create(message)
	req.NoError(err)
	message.ID = id

	interruptedDelete(t, db, message)
	req.Equal(2, versionsOf(t, db, id))

	req.ErrorIs(repository.Delete(id), errors.ErrNotFound)
	req.Equal(1, versionsOf(t, db, id))

	fetched, err := repository.Get(id)
	req.NoError(err)
	req.True(fetched.IsDestroyed)

	finished, err := repository.FinishPurges()
	req.NoError(err)
	req.Zero(finished)
}

func TestMessageRepository_FinishPurges(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repository := NewMessageRepository(db, slog.Default(), nil)

	message := newMessage("alice", "bob", time.Now().UTC())
	id, err := repository.Create(message)
	req.NoError(err)
	message.ID = id
	interruptedDelete(t, db, message)

	// Lost between the drop and the rewrite
	lost := newMessage("alice", "carol", time.Now().UTC())
	lostID, err := repository.Create(lost)
	req.NoError(err)
	lost.ID = lostID
	interruptedDelete(t, db, lost)
	req.NoError(db.DropPrefix(messageKey(lostID)))
	_, err = repository.Get(lostID)
	req.ErrorIs(err, errors.ErrNotFound)

	finished, err := repository.FinishPurges()
	req.NoError(err)
	req.Equal(2, finished)

	req.Equal(1, versionsOf(t, db, id))
	restored, err := repository.Get(lostID)
	req.NoError(err)
	req.True(restored.IsDestroyed)
	req.Empty(restored.Ciphertext)

	finished, err = repository.FinishPurges()
	req.NoError(err)
	req.Zero(finished)
}

func TestMessageRepository_ListArmed(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()

	timed := newMessage("alice", "bob", at)
	timed.TTLSeconds = 5
	timedID, err := repository.Create(timed)
	req.NoError(err)

	readOnce := newMessage("alice", "bob", at)
	readOnce.ReadOnce = true
	readOnceID, err := repository.Create(readOnce)
	req.NoError(err)

	// Permanent messages carry no obligation
	_, err = repository.Create(newMessage("alice", "bob", at))
	req.NoError(err)

	armed, err := repository.ListArmed()
	req.NoError(err)
	req.Len(armed, 2)

	byID := map[uuid.UUID]domain.ArmedEntry{}
	for _, entry := range armed {
		byID[entry.ID] = entry
	}
	req.True(byID[timedID].HasDeadline())
	req.True(byID[timedID].DestructAt.Equal(at.Add(5 * time.Second)))
	req.False(byID[timedID].ReadOnce)
	req.False(byID[readOnceID].HasDeadline())
	req.True(byID[readOnceID].ReadOnce)

	// Reading does not disarm, only destruction does
	req.NoError(repository.MarkRead(readOnceID))
	armed, err = repository.ListArmed()
	req.NoError(err)
	req.Len(armed, 2)

	req.NoError(repository.Delete(readOnceID))
	armed, err = repository.ListArmed()
	req.NoError(err)
	req.Len(armed, 1)
	req.Equal(timedID, armed[0].ID)
}

func TestMessageRepository_ListRecent(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()

	for i := 0; i < 5; i++ {
		message := newMessage("alice", "bob", at.Add(time.Duration(i)*time.Second))
		message.Length = i
		_, err := repository.Create(message)
		req.NoError(err)
	}
	destroyed, err := repository.Create(newMessage("alice", "clara", at.Add(10*time.Second)))
	req.NoError(err)
	req.NoError(repository.Delete(destroyed))
	_, err = repository.Create(newMessage("mallory", "bob", at))
	req.NoError(err)

	recent, err := repository.ListRecent("alice", 3)
	req.NoError(err)
	req.Len(recent, 3)
	// Newest first, destroyed messages still count
	req.Equal("clara", recent[0].RecipientID)
	req.True(recent[0].At.Equal(at.Add(10 * time.Second)))
	req.Equal(4, recent[1].Length)
	req.Equal(3, recent[2].Length)

	recent, err = repository.ListRecent("alice", 50)
	req.NoError(err)
	req.Len(recent, 6)

	recent, err = repository.ListRecent("alice", 0)
	req.NoError(err)
	req.Empty(recent)
}

func TestMessageRepository_ListSent(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()

	kept, err := repository.Create(newMessage("alice", "bob", at))
	req.NoError(err)
	gone, err := repository.Create(newMessage("alice", "bob", at.Add(time.Second)))
	req.NoError(err)
	req.NoError(repository.Delete(gone))

	sent, err := repository.ListSent("alice")
	req.NoError(err)
	req.Len(sent, 1)
	req.Equal(kept, sent[0].ID)

	sent, err = repository.ListSent("bob")
	req.NoError(err)
	req.Empty(sent)
}

func TestMessageRepository_ListConversation(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()

	first, err := repository.Create(newMessage("alice", "bob", at))
	req.NoError(err)
	reply, err := repository.Create(newMessage("bob", "alice", at.Add(time.Second)))
	req.NoError(err)
	_, err = repository.Create(newMessage("alice", "carol", at.Add(2*time.Second)))
	req.NoError(err)
	_, err = repository.Create(newMessage("carol", "bob", at.Add(3*time.Second)))
	req.NoError(err)
	gone, err := repository.Create(newMessage("alice", "bob", at.Add(4*time.Second)))
	req.NoError(err)
	req.NoError(repository.Delete(gone))

	conversation, err := repository.ListConversation("alice", "bob")
	req.NoError(err)
	req.Len(conversation, 2)
	req.Equal(first, conversation[0].ID)
	req.Equal(reply, conversation[1].ID)

	// Symmetric
	mirrored, err := repository.ListConversation("bob", "alice")
	req.NoError(err)
	req.Equal(conversation, mirrored)

	none, err := repository.ListConversation("alice", "dave")
	req.NoError(err)
	req.Empty(none)
}

func TestMessageRepository_StoreUnavailable(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	req.NoError(err)
	repository := NewMessageRepository(db, slog.Default(), nil)
	id, err := repository.Create(newMessage("alice", "bob", time.Now().UTC()))
	req.NoError(err)

	req.NoError(db.Close())

	_, err = repository.Get(id)
	req.ErrorIs(err, errors.ErrStoreUnavailable)
	req.ErrorIs(repository.Delete(id), errors.ErrStoreUnavailable)
}
