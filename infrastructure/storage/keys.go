package storage

import (
	"fmt"
	"strings"
	"tactical-link/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Key layout. Timestamps are zero padded to 19 digits so that the
// lexicographic order of badger matches the chronological order.
//
//	msg:{id}                                   message record
//	pending:{recipient}:{created_at}:{id}      unread, undestroyed messages
//	sent:{sender}:{created_at}:{id}            sender metadata, survives destruction
//	armed:{id}                                 destruction obligation
//	purge:{id}                                 tombstone whose older versions are not purged yet
//	threat:{at}:{id}                           threat log
//	identity:{user}                            key pair, private key sealed
//	meta:seal-salt                             salt of the identity sealer
const (
	MessagePrefix  = "msg:"
	PendingPrefix  = "pending:"
	SentPrefix     = "sent:"
	ArmedPrefix    = "armed:"
	PurgePrefix    = "purge:"
	ThreatPrefix   = "threat:"
	IdentityPrefix = "identity:"
	sealSaltKey    = "meta:seal-salt"

	// Sorts after any 19 digit timestamp, used to seek from the end.
	maxTimestamp = "9999999999999999999"
)

func messageKey(id uuid.UUID) []byte {
	return []byte(MessagePrefix + id.String())
}

func pendingPrefixFor(recipient string) string {
	return fmt.Sprintf("%s%s:", PendingPrefix, recipient)
}

func pendingKey(m messageRef) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", pendingPrefixFor(m.user), m.at.UnixNano(), m.id))
}

func sentPrefixFor(sender string) string {
	return fmt.Sprintf("%s%s:", SentPrefix, sender)
}

func sentKey(m messageRef) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", sentPrefixFor(m.user), m.at.UnixNano(), m.id))
}

func armedKey(id uuid.UUID) []byte {
	return []byte(ArmedPrefix + id.String())
}

func purgeKey(id uuid.UUID) []byte {
	return []byte(PurgePrefix + id.String())
}

func threatKey(at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", ThreatPrefix, at.UnixNano(), id))
}

func identityKey(userID string) []byte {
	return []byte(IdentityPrefix + userID)
}

type messageRef struct {
	user string
	at   time.Time
	id   uuid.UUID
}

// idFromKey parses the uuid that ends every index key.
func idFromKey(key []byte) (uuid.UUID, error) {
	k := string(key)
	return uuid.Parse(k[strings.LastIndex(k, ":")+1:])
}

// storeErr maps badger failures onto the engine errors.
// A missing key is ErrNotFound, anything else is ErrStoreUnavailable.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errors.ErrNotFound), errors.Is(err, errors.ErrAlreadyRead), errors.Is(err, errors.ErrStoreUnavailable):
		return err
	case errors.Is(err, badger.ErrKeyNotFound):
		return fmt.Errorf("%w: %v", errors.ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}
}
