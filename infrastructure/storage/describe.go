package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecordView is a metadata-only reading of one badger entry, for operators.
// Ciphertext, wrapped keys, echoes and sealed private keys are never shown.
type RecordView struct {
	Key       string
	Type      string
	EntityID  string
	Owner     string
	Timestamp time.Time
	Detail    string
	Score     *float64
}

// Describe decodes an entry of any prefix of the store.
// Entries that fail to decode are reported, never dropped.
func Describe(key string, val []byte) RecordView {
	view := RecordView{Key: key, Type: "RAW", Detail: fmt.Sprintf("%d bytes", len(val))}
	var err error
	switch {
	case strings.HasPrefix(key, MessagePrefix):
		err = describeMessage(&view, val)
	case strings.HasPrefix(key, PendingPrefix):
		view.Type = "PENDING"
		view.Owner, view.Timestamp, view.EntityID = splitIndexKey(strings.TrimPrefix(key, PendingPrefix))
		view.Detail = "unread"
	case strings.HasPrefix(key, SentPrefix):
		err = describeSent(&view, val)
	case strings.HasPrefix(key, ArmedPrefix):
		err = describeArmed(&view, val)
	case strings.HasPrefix(key, PurgePrefix):
		err = describeMessage(&view, val)
		view.Type = "PURGE"
	case strings.HasPrefix(key, ThreatPrefix):
		err = describeThreat(&view, val)
	case strings.HasPrefix(key, IdentityPrefix):
		err = describeIdentity(&view, val)
	case key == sealSaltKey:
		view.Type = "META"
		view.Detail = "identity sealing salt"
	}
	if err != nil {
		view.Detail = "undecodable: " + err.Error()
	}
	return view
}

func describeMessage(view *RecordView, val []byte) error {
	m, err := unmarshalMessage(val)
	if err != nil {
		return err
	}
	view.Type = "MESSAGE"
	if m.IsDestroyed {
		view.Type = "TOMBSTONE"
	}
	view.EntityID = m.ID.String()
	view.Owner = m.SenderID
	view.Timestamp = m.CreatedAt

	detail := []string{"to " + m.RecipientID, fmt.Sprintf("%d bytes", m.Length)}
	if m.GroupID != "" {
		detail = append(detail, "group "+m.GroupID)
	}
	if m.TTLSeconds > 0 {
		detail = append(detail, fmt.Sprintf("ttl %ds", m.TTLSeconds))
	}
	if m.ReadOnce {
		detail = append(detail, "read-once")
	}
	if m.IsRead {
		detail = append(detail, "read")
	}
	if len(m.PlaintextEcho) > 0 {
		detail = append(detail, "echo kept")
	}
	view.Detail = strings.Join(detail, ", ")
	return nil
}

func describeSent(view *RecordView, val []byte) error {
	s, err := unmarshalSent(val)
	if err != nil {
		return err
	}
	view.Type = "SENT"
	view.Owner, _, _ = splitIndexKey(strings.TrimPrefix(view.Key, SentPrefix))
	view.EntityID = s.MessageID.String()
	view.Timestamp = s.At
	view.Detail = fmt.Sprintf("to %s, %d bytes", s.RecipientID, s.Length)
	return nil
}

func describeArmed(view *RecordView, val []byte) error {
	id, err := uuid.Parse(strings.TrimPrefix(view.Key, ArmedPrefix))
	if err != nil {
		return err
	}
	entry, err := unmarshalArmed(id, val)
	if err != nil {
		return err
	}
	view.Type = "ARMED"
	view.EntityID = id.String()
	var triggers []string
	if entry.HasDeadline() {
		view.Timestamp = entry.DestructAt
		triggers = append(triggers, "deadline "+entry.DestructAt.Format(time.RFC3339))
	}
	if entry.ReadOnce {
		triggers = append(triggers, "on read")
	}
	view.Detail = strings.Join(triggers, ", ")
	return nil
}

func describeThreat(view *RecordView, val []byte) error {
	r, err := unmarshalThreat(val)
	if err != nil {
		return err
	}
	view.Type = "THREAT"
	view.EntityID = r.ID.String()
	view.Owner = r.UserID
	view.Timestamp = r.At
	view.Score = &r.Score
	view.Detail = fmt.Sprintf("%s (%d messages, %d recipients)", r.Reason, r.MessageCount, r.DistinctRecipients)
	return nil
}

func describeIdentity(view *RecordView, val []byte) error {
	r, err := unmarshalIdentity(val)
	if err != nil {
		return err
	}
	fingerprint := sha256.Sum256(r.PublicKey)
	view.Type = "IDENTITY"
	view.Owner = strings.TrimPrefix(view.Key, IdentityPrefix)
	view.EntityID = view.Owner
	view.Timestamp = r.CreatedAt
	view.Detail = "public key " + hex.EncodeToString(fingerprint[:8])
	return nil
}

// splitIndexKey reads {user}:{unix nano}:{id}.
func splitIndexKey(rest string) (string, time.Time, string) {
	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return "", time.Time{}, rest
	}
	var at time.Time
	if nanos, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
		at = time.Unix(0, nanos).UTC()
	}
	return parts[0], at, parts[2]
}
