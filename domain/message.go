// Package domain contains core concepts of the secure-message engine.
// This file defines the Message entity and its lifecycle rules.
// Ciphertext and wrapped key are immutable once written; only the
// read and destroyed flags move, and destroyed never goes back.
package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Message is the encrypted artifact plus its lifecycle metadata.
type Message struct {
	ID            uuid.UUID
	SenderID      string
	RecipientID   string
	GroupID       string
	Ciphertext    []byte
	WrappedKey    []byte
	PlaintextEcho []byte
	Length        int // plaintext size, kept for scoring
	CreatedAt     time.Time
	TTLSeconds    int
	ReadOnce      bool
	IsRead        bool
	IsDestroyed   bool
}

// MaxTTLSeconds is the longest ttl a time.Duration can represent.
const MaxTTLSeconds = int64(math.MaxInt64 / int64(time.Second))

// TTL converts a ttl in seconds into a duration, saturating at MaxTTLSeconds
// instead of wrapping around.
func TTL(seconds int) time.Duration {
	if int64(seconds) > MaxTTLSeconds {
		return time.Duration(MaxTTLSeconds) * time.Second
	}
	return time.Duration(seconds) * time.Second
}

// DestructAt returns createdAt + ttl. The boolean is false for messages without expiry.
func (m Message) DestructAt() (time.Time, bool) {
	if m.TTLSeconds <= 0 {
		return time.Time{}, false
	}
	return m.CreatedAt.Add(TTL(m.TTLSeconds)), true
}

// IsEphemeral reports whether at least one destruction trigger is active.
func (m Message) IsEphemeral() bool {
	return m.TTLSeconds > 0 || m.ReadOnce
}

// Expired reports whether the deadline has passed at the given instant.
// A message is unreadable from its deadline on, even before the scheduler swept it.
func (m Message) Expired(now time.Time) bool {
	at, ok := m.DestructAt()
	return ok && !now.Before(at)
}

// Meta projects the message onto the metadata used for threat scoring.
func (m Message) Meta() MessageMeta {
	return MessageMeta{RecipientID: m.RecipientID, Length: m.Length, At: m.CreatedAt}
}

// Tombstone keeps the audit metadata and drops every secret.
func (m Message) Tombstone() Message {
	t := m
	t.Ciphertext = nil
	t.WrappedKey = nil
	t.PlaintextEcho = nil
	t.IsDestroyed = true
	return t
}

// ArmedEntry is the checkpoint of a destruction obligation, persisted
// next to the message so the scheduler can be rebuilt after a restart.
type ArmedEntry struct {
	ID         uuid.UUID
	DestructAt time.Time // zero when the message has no ttl
	ReadOnce   bool
}

// HasDeadline reports whether the entry carries a timeout trigger.
func (a ArmedEntry) HasDeadline() bool {
	return !a.DestructAt.IsZero()
}

// Sealed is the output of the hybrid encryption.
type Sealed struct {
	Ciphertext []byte
	WrappedKey []byte
}

// DeliveredMessage is a message decrypted for its recipient.
type DeliveredMessage struct {
	ID          uuid.UUID
	SenderID    string
	RecipientID string
	GroupID     string
	Content     []byte
	CreatedAt   time.Time
	ReadOnce    bool
}

// ConversationEntry is one message of a two-party history. Content is the
// decrypted text of a received message, or the echo of an outgoing one,
// empty when the sender kept no echo.
type ConversationEntry struct {
	ID          uuid.UUID
	SenderID    string
	RecipientID string
	GroupID     string
	Content     []byte
	CreatedAt   time.Time
	DestructAt  time.Time // zero when the message has no ttl
	Outgoing    bool
	IsRead      bool
}

// Delivery is the per-item outcome of a batch receive.
// Err is set when the message was skipped.
type Delivery struct {
	Message DeliveredMessage
	Err     error
}

// SentMessage is the sender's own view of a live message.
type SentMessage struct {
	ID          uuid.UUID
	RecipientID string
	GroupID     string
	Echo        []byte
	CreatedAt   time.Time
	DestructAt  time.Time
	ReadOnce    bool
	IsRead      bool
}
