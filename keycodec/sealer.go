package keycodec

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Argon2id parameters based on OWASP recommendations
const (
	Memory      = 64 * 1024 // 64 MB
	Iterations  = 3
	Parallelism = 2
	SaltLength  = 16
	KeyLength   = chacha20poly1305.KeySize
)

// Sealer protects identity private keys at rest.
// The key is derived once from an operator secret with Argon2id.
type Sealer struct {
	key []byte
}

// NewSalt returns a random salt to be persisted alongside the sealed data.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

func NewSealer(secret, salt []byte) (*Sealer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("sealing secret is empty")
	}
	if len(salt) != SaltLength {
		return nil, fmt.Errorf("sealing salt must be %d bytes, got %d", SaltLength, len(salt))
	}
	return &Sealer{key: argon2.IDKey(secret, salt, Iterations, Memory, Parallelism, KeyLength)}, nil
}

// Seal encrypts data bound to the given associated data (the owner id).
func (s *Sealer) Seal(data, associated []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(data)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, data, associated), nil
}

// Open reverses Seal. It fails when the data or its associated data was tampered with.
func (s *Sealer) Open(sealed, associated []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, fmt.Errorf("sealed data too short")
	}
	return aead.Open(nil, sealed[:aead.NonceSize()], sealed[aead.NonceSize():], associated)
}
