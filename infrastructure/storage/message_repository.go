package storage

import (
	"fmt"
	"log/slog"
	"slices"
	"tactical-link/contract"
	"tactical-link/domain"
	"tactical-link/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

var _ contract.MessageStore = MessageRepository{}

// MessageRepository persists messages in BadgerDB.
// Every state change is a single transaction over the record and its indexes,
// so a crash never leaves a pending entry pointing at a destroyed message.
type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

// NewMessageRepository caps ListPendingFor with limitMessages when it is not nil.
func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// Create stores a new message and returns its id, generated when missing.
func (r MessageRepository) Create(message domain.Message) (uuid.UUID, error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	data, err := marshalMessage(message)
	if err != nil {
		return uuid.Nil, storeErr(err)
	}
	sent, err := marshalSent(message)
	if err != nil {
		return uuid.Nil, storeErr(err)
	}
	ref := messageRef{user: message.RecipientID, at: message.CreatedAt, id: message.ID}

	err = update(r.db, func(txn *badger.Txn) error {
		if _, err := txn.Get(messageKey(message.ID)); err == nil {
			return fmt.Errorf("message %s already exists", message.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(messageKey(message.ID), data); err != nil {
			return err
		}
		if err := txn.Set(sentKey(messageRef{user: message.SenderID, at: message.CreatedAt, id: message.ID}), sent); err != nil {
			return err
		}
		if message.IsDestroyed {
			return nil
		}
		if !message.IsRead {
			if err := txn.Set(pendingKey(ref), nil); err != nil {
				return err
			}
		}
		if message.IsEphemeral() {
			armed, err := marshalArmed(message)
			if err != nil {
				return err
			}
			return txn.Set(armedKey(message.ID), armed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, storeErr(err)
	}
	return message.ID, nil
}

func (r MessageRepository) Get(id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		message, err = getMessage(txn, id)
		return err
	})
	if err != nil {
		return domain.Message{}, storeErr(err)
	}
	return message, nil
}

// ListPendingFor returns the unread, undestroyed messages of a recipient, oldest first.
func (r MessageRepository) ListPendingFor(userID string) ([]domain.Message, error) {
	var messages []domain.Message
	prefix := []byte(pendingPrefixFor(userID))

	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if r.limitMessages != nil && len(messages) >= *r.limitMessages {
				break
			}
			id, err := idFromKey(it.Item().Key())
			if err != nil {
				r.log.Warn("Skipping malformed pending key", "key", string(it.Item().Key()), "error", err)
				continue
			}
			message, err := getMessage(txn, id)
			if errors.Is(err, badger.ErrKeyNotFound) {
				r.log.Warn("Pending entry without message", "id", id)
				continue
			}
			if err != nil {
				return err
			}
			if message.IsDestroyed || message.IsRead {
				continue
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return messages, nil
}

// MarkRead flags the message read and drops it from the pending index.
// A destroyed message can't be marked read. Marking an already read message
// again is a no-op, except for a read-once message where only the first
// reader wins and the others get ErrAlreadyRead.
func (r MessageRepository) MarkRead(id uuid.UUID) error {
	return storeErr(update(r.db, func(txn *badger.Txn) error {
		message, err := getMessage(txn, id)
		if err != nil {
			return err
		}
		if message.IsDestroyed {
			return fmt.Errorf("%w: message %s destroyed", errors.ErrNotFound, id)
		}
		if message.IsRead {
			if message.ReadOnce {
				return fmt.Errorf("%w: %s", errors.ErrAlreadyRead, id)
			}
			return nil
		}
		message.IsRead = true
		if err := putMessage(txn, message); err != nil {
			return err
		}
		return txn.Delete(pendingKey(messageRef{user: message.RecipientID, at: message.CreatedAt, id: id}))
	}))
}

// Delete replaces the record with its tombstone and drops the pending and armed entries,
// then purges the older versions of the record still holding the content.
// Deleting a missing or already destroyed message returns ErrNotFound.
func (r MessageRepository) Delete(id uuid.UUID) error {
	var tombstone domain.Message
	var destroyed, unpurged bool
	err := update(r.db, func(txn *badger.Txn) error {
		message, err := getMessage(txn, id)
		if err != nil {
			return err
		}
		if message.IsDestroyed {
			_, err := txn.Get(purgeKey(id))
			tombstone, destroyed, unpurged = message, true, err == nil
			return nil
		}
		tombstone = message.Tombstone()
		data, err := marshalMessage(tombstone)
		if err != nil {
			return err
		}
		if err := txn.Set(messageKey(id), data); err != nil {
			return err
		}
		if err := txn.Set(purgeKey(id), data); err != nil {
			return err
		}
		if err := txn.Delete(pendingKey(messageRef{user: message.RecipientID, at: message.CreatedAt, id: id})); err != nil {
			return err
		}
		return txn.Delete(armedKey(id))
	})
	if err != nil {
		return storeErr(err)
	}

	if destroyed {
		// A retried destruction finishes the purge a failed attempt left behind
		if unpurged {
			if err := r.purge(tombstone); err != nil {
				r.log.Error("Unable to purge destroyed message versions", "id", id, "error", err)
			}
		}
		return fmt.Errorf("%w: message %s already destroyed", errors.ErrNotFound, id)
	}
	if err := r.purge(tombstone); err != nil {
		r.log.Error("Unable to purge destroyed message versions", "id", id, "error", err)
		return storeErr(err)
	}
	return nil
}

// purge physically drops every version of the record, then writes the
// tombstone back and clears the purge entry. In between the record reads as
// missing, which every reader already handles like a destroyed message.
func (r MessageRepository) purge(tombstone domain.Message) error {
	err := replay(func() error {
		return r.db.DropPrefix(messageKey(tombstone.ID))
	})
	if err != nil {
		return fmt.Errorf("drop versions of %s: %w", tombstone.ID, err)
	}
	return update(r.db, func(txn *badger.Txn) error {
		if err := putMessage(txn, tombstone); err != nil {
			return err
		}
		return txn.Delete(purgeKey(tombstone.ID))
	})
}

// FinishPurges completes the purges interrupted by a crash and returns how
// many it ran. The purge entry holds the tombstone, so a record lost between
// the drop and the rewrite comes back.
func (r MessageRepository) FinishPurges() (int, error) {
	var tombstones []domain.Message
	prefix := []byte(PurgePrefix)

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			tombstone, err := unmarshalMessage(value)
			if err != nil {
				r.log.Warn("Skipping malformed purge entry", "key", string(it.Item().Key()), "error", err)
				continue
			}
			tombstones = append(tombstones, tombstone)
		}
		return nil
	})
	if err != nil {
		return 0, storeErr(err)
	}

	for i, tombstone := range tombstones {
		if err := r.purge(tombstone); err != nil {
			return i, storeErr(err)
		}
	}
	return len(tombstones), nil
}

// ListRecent returns the metadata of the last messages sent by userID, newest first.
// Destroyed messages are included, content never is.
func (r MessageRepository) ListRecent(userID string, limit int) ([]domain.MessageMeta, error) {
	var metas []domain.MessageMeta
	if limit <= 0 {
		return metas, nil
	}
	prefixStr := sentPrefixFor(userID)
	prefix := []byte(prefixStr)

	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.PrefetchSize = limit
		it := txn.NewIterator(options)
		defer it.Close()

		// Reverse iteration starts from the greatest key under the prefix.
		for it.Seek([]byte(prefixStr + maxTimestamp)); it.ValidForPrefix(prefix) && len(metas) < limit; it.Next() {
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			sent, err := unmarshalSent(value)
			if err != nil {
				return err
			}
			metas = append(metas, sent.MessageMeta)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return metas, nil
}

// ListArmed returns every destruction obligation still pending.
func (r MessageRepository) ListArmed() ([]domain.ArmedEntry, error) {
	var entries []domain.ArmedEntry
	prefix := []byte(ArmedPrefix)

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id, err := uuid.Parse(string(item.Key()[len(prefix):]))
			if err != nil {
				r.log.Warn("Skipping malformed armed key", "key", string(item.Key()), "error", err)
				continue
			}
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			entry, err := unmarshalArmed(id, value)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return entries, nil
}

// ListSent returns the live messages sent by userID, oldest first.
func (r MessageRepository) ListSent(userID string) ([]domain.Message, error) {
	var messages []domain.Message
	prefix := []byte(sentPrefixFor(userID))

	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id, err := idFromKey(it.Item().Key())
			if err != nil {
				continue
			}
			message, err := getMessage(txn, id)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if !message.IsDestroyed {
				messages = append(messages, message)
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return lo.Ternary(messages == nil, []domain.Message{}, messages), nil
}

// ListConversation returns the live messages exchanged between userID and peerID,
// oldest first. Both sent indexes are walked and only the entries addressed to
// the other party are loaded.
func (r MessageRepository) ListConversation(userID, peerID string) ([]domain.Message, error) {
	messages := []domain.Message{}
	err := r.db.View(func(txn *badger.Txn) error {
		if err := r.collectSentTo(txn, userID, peerID, &messages); err != nil {
			return err
		}
		if userID == peerID {
			return nil
		}
		return r.collectSentTo(txn, peerID, userID, &messages)
	})
	if err != nil {
		return nil, storeErr(err)
	}
	slices.SortStableFunc(messages, func(a, b domain.Message) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return messages, nil
}

func (r MessageRepository) collectSentTo(txn *badger.Txn, senderID, recipientID string, messages *[]domain.Message) error {
	prefix := []byte(sentPrefixFor(senderID))
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		value, err := it.Item().ValueCopy(nil)
		if err != nil {
			return err
		}
		sent, err := unmarshalSent(value)
		if err != nil {
			r.log.Warn("Skipping malformed sent entry", "key", string(it.Item().Key()), "error", err)
			continue
		}
		if sent.RecipientID != recipientID {
			continue
		}
		message, err := getMessage(txn, sent.MessageID)
		if errors.Is(err, badger.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if !message.IsDestroyed {
			*messages = append(*messages, message)
		}
	}
	return nil
}

func getMessage(txn *badger.Txn, id uuid.UUID) (domain.Message, error) {
	item, err := txn.Get(messageKey(id))
	if err != nil {
		return domain.Message{}, err
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return domain.Message{}, err
	}
	return unmarshalMessage(value)
}

func putMessage(txn *badger.Txn, message domain.Message) error {
	data, err := marshalMessage(message)
	if err != nil {
		return err
	}
	return txn.Set(messageKey(message.ID), data)
}
