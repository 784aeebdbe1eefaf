package storage

import (
	"crypto/ecdh"
	"fmt"
	"log/slog"
	"tactical-link/contract"
	"tactical-link/errors"
	"tactical-link/keycodec"
	"time"

	"github.com/dgraph-io/badger/v4"
)

var _ contract.IdentityStore = (*IdentityRepository)(nil)

// IdentityRepository keeps one X25519 key pair per user.
// Private keys are sealed with a key derived from the operator secret,
// bound to the user id so a record can't be swapped between users.
type IdentityRepository struct {
	db     *badger.DB
	log    *slog.Logger
	sealer *keycodec.Sealer
}

// NewIdentityRepository loads the sealing salt, creating it on first start.
func NewIdentityRepository(db *badger.DB, log *slog.Logger, secret []byte) (*IdentityRepository, error) {
	salt, err := loadOrCreateSalt(db)
	if err != nil {
		return nil, storeErr(err)
	}
	sealer, err := keycodec.NewSealer(secret, salt)
	if err != nil {
		return nil, err
	}
	return &IdentityRepository{db: db, log: log, sealer: sealer}, nil
}

// SaveIdentity fails with ErrIdentityExists when the user already has keys.
func (r *IdentityRepository) SaveIdentity(userID string, public *ecdh.PublicKey, private *ecdh.PrivateKey) error {
	if public == nil || private == nil {
		return fmt.Errorf("%w: missing key for %s", errors.ErrInvalidKeyBytes, userID)
	}
	sealed, err := r.sealer.Seal(private.Bytes(), []byte(userID))
	if err != nil {
		return fmt.Errorf("seal private key: %w", err)
	}
	data, err := marshalIdentity(identityRecord{
		PublicKey:        public.Bytes(),
		SealedPrivateKey: sealed,
		CreatedAt:        time.Now().UTC(),
	})
	if err != nil {
		return storeErr(err)
	}

	err = update(r.db, func(txn *badger.Txn) error {
		if _, err := txn.Get(identityKey(userID)); err == nil {
			return fmt.Errorf("%w: %s", errors.ErrIdentityExists, userID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(identityKey(userID), data)
	})
	if errors.Is(err, errors.ErrIdentityExists) {
		return err
	}
	return storeErr(err)
}

// GetPublicKey returns ErrRecipientNotFound for unknown users.
func (r *IdentityRepository) GetPublicKey(userID string) (*ecdh.PublicKey, error) {
	record, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	public, err := ecdh.X25519().NewPublicKey(record.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: public key of %s: %v", errors.ErrInvalidKeyBytes, userID, err)
	}
	return public, nil
}

func (r *IdentityRepository) GetPrivateKey(userID string) (*ecdh.PrivateKey, error) {
	record, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	raw, err := r.sealer.Open(record.SealedPrivateKey, []byte(userID))
	if err != nil {
		r.log.Error("Unable to unseal private key", "user", userID, "error", err)
		return nil, fmt.Errorf("%w: private key of %s can't be unsealed", errors.ErrInvalidKeyBytes, userID)
	}
	private, err := ecdh.X25519().NewPrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: private key of %s: %v", errors.ErrInvalidKeyBytes, userID, err)
	}
	return private, nil
}

func (r *IdentityRepository) load(userID string) (identityRecord, error) {
	var record identityRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(identityKey(userID))
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		record, err = unmarshalIdentity(value)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return identityRecord{}, fmt.Errorf("%w: %s", errors.ErrRecipientNotFound, userID)
	}
	if err != nil {
		return identityRecord{}, storeErr(err)
	}
	return record, nil
}

func loadOrCreateSalt(db *badger.DB) ([]byte, error) {
	var salt []byte
	err := update(db, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sealSaltKey))
		if err == nil {
			salt, err = item.ValueCopy(nil)
			return err
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		salt, err = keycodec.NewSalt()
		if err != nil {
			return err
		}
		return txn.Set([]byte(sealSaltKey), salt)
	})
	return salt, err
}
