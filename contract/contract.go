//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"crypto/ecdh"
	"reflect"
	"tactical-link/domain"

	"github.com/google/uuid"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// KeyCodec performs the hybrid encryption and owns symmetric key material.
type KeyCodec interface {
	GenerateKeyPair() (*ecdh.PublicKey, *ecdh.PrivateKey, error)
	Encrypt(plaintext []byte, recipient *ecdh.PublicKey) (domain.Sealed, error)
	Decrypt(ciphertext, wrappedKey []byte, recipient *ecdh.PrivateKey) ([]byte, error)
	// DestroyKey clears any process-local material tied to the wrapped key.
	// It is a no-op when already destroyed.
	DestroyKey(wrappedKey []byte)
}

type IdentityStore interface {
	SaveIdentity(userID string, public *ecdh.PublicKey, private *ecdh.PrivateKey) error
	GetPublicKey(userID string) (*ecdh.PublicKey, error)
	GetPrivateKey(userID string) (*ecdh.PrivateKey, error)
}

// MessageStore is the single source of truth for message existence and destruction status.
type MessageStore interface {
	Create(message domain.Message) (uuid.UUID, error)
	Get(id uuid.UUID) (domain.Message, error)
	ListPendingFor(userID string) ([]domain.Message, error)
	MarkRead(id uuid.UUID) error
	// Delete clears ciphertext, wrapped key and echo, and flags the record destroyed.
	Delete(id uuid.UUID) error
	ListRecent(userID string, limit int) ([]domain.MessageMeta, error)
	ListArmed() ([]domain.ArmedEntry, error)
	ListSent(userID string) ([]domain.Message, error)
	// ListConversation returns the live messages exchanged between two users, oldest first.
	ListConversation(userID, peerID string) ([]domain.Message, error)
}

type ThreatLog interface {
	Append(record domain.ThreatRecord) error
	ListRecent(limit int) ([]domain.ThreatRecord, error)
}

type ThreatIndex interface {
	Index(record domain.ThreatRecord) error
	Search(ctx context.Context, query domain.ThreatQuery) ([]domain.ThreatRecord, error)
}

// Scheduler resolves destruction triggers, exactly once per message.
type Scheduler interface {
	Arm(id uuid.UUID, ttlSeconds int, readOnce bool) error
	OnRead(ctx context.Context, id uuid.UUID) error
	ForceDestroy(ctx context.Context, id uuid.UUID) error
}
