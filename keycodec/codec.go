// Package keycodec implements the hybrid encryption used for every message.
//
// Each message gets a fresh 32-byte content key. The payload is sealed with
// XChaCha20-Poly1305 under that key, and the key itself is wrapped for the
// recipient with an ephemeral-static X25519 exchange: the shared secret goes
// through HKDF-SHA256 to a key-encryption key used with ChaCha20-Poly1305.
//
// Wrapped key layout: version(1) | ephemeral public key(32) | nonce(12) | sealed content key(48).
// Ciphertext layout: nonce(24) | sealed payload.
package keycodec

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"
	"tactical-link/contract"
	"tactical-link/domain"
	"tactical-link/errors"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	wrapVersion    byte = 1
	contentKeySize      = chacha20poly1305.KeySize
	x25519KeySize       = 32
	// Number of destroyed handles remembered; older ones fall off first.
	defaultRevocationCapacity = 1 << 16
)

var wrapInfo = []byte("tactical-link/v1 content-key wrap")

var _ contract.KeyCodec = (*Codec)(nil)

// Handle identifies the content key of one message inside the process.
type Handle [sha256.Size]byte

// HandleOf derives the handle from the wrapped key, so a handle never
// reveals anything the stored record doesn't already carry.
func HandleOf(wrappedKey []byte) Handle {
	return sha256.Sum256(wrappedKey)
}

// Codec is safe for concurrent use.
// Content keys only live in the keyring while an Encrypt or Decrypt is
// running; DestroyKey zeroes an in-flight key and revokes the handle so
// this process never unwraps it again.
type Codec struct {
	mu       sync.Mutex
	random   io.Reader
	keyring  map[Handle][]byte
	revoked  map[Handle]struct{}
	order    []Handle
	next     int
	capacity int
}

func NewCodec() *Codec {
	return NewCodecWithCapacity(defaultRevocationCapacity)
}

func NewCodecWithCapacity(capacity int) *Codec {
	if capacity <= 0 {
		capacity = defaultRevocationCapacity
	}
	return &Codec{
		random:   rand.Reader,
		keyring:  make(map[Handle][]byte),
		revoked:  make(map[Handle]struct{}),
		order:    make([]Handle, 0, capacity),
		capacity: capacity,
	}
}

// GenerateKeyPair creates a long-term X25519 identity key pair.
func (c *Codec) GenerateKeyPair() (*ecdh.PublicKey, *ecdh.PrivateKey, error) {
	private, err := ecdh.X25519().GenerateKey(c.random)
	if err != nil {
		return nil, nil, fmt.Errorf("generate X25519 key pair: %w", err)
	}
	return private.PublicKey(), private, nil
}

// Encrypt seals plaintext for the recipient under a fresh content key.
func (c *Codec) Encrypt(plaintext []byte, recipient *ecdh.PublicKey) (domain.Sealed, error) {
	if recipient == nil {
		return domain.Sealed{}, fmt.Errorf("%w: missing recipient key", errors.ErrEncryption)
	}

	contentKey := make([]byte, contentKeySize)
	if _, err := io.ReadFull(c.random, contentKey); err != nil {
		return domain.Sealed{}, fmt.Errorf("%w: content key: %v", errors.ErrEncryption, err)
	}
	defer wipe(contentKey)

	wrapped, err := c.wrap(contentKey, recipient)
	if err != nil {
		return domain.Sealed{}, fmt.Errorf("%w: %v", errors.ErrEncryption, err)
	}

	handle := HandleOf(wrapped)
	c.hold(handle, contentKey)
	defer c.release(handle)

	aead, err := chacha20poly1305.NewX(contentKey)
	if err != nil {
		return domain.Sealed{}, fmt.Errorf("%w: %v", errors.ErrEncryption, err)
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(c.random, nonce); err != nil {
		return domain.Sealed{}, fmt.Errorf("%w: nonce: %v", errors.ErrEncryption, err)
	}

	return domain.Sealed{
		Ciphertext: aead.Seal(nonce, nonce, plaintext, nil),
		WrappedKey: wrapped,
	}, nil
}

// Decrypt unwraps the content key with the recipient private key and opens the payload.
// Every failure is reported as ErrDecryption, plaintext is never returned partially.
func (c *Codec) Decrypt(ciphertext, wrappedKey []byte, recipient *ecdh.PrivateKey) ([]byte, error) {
	if recipient == nil {
		return nil, fmt.Errorf("%w: missing recipient key", errors.ErrDecryption)
	}
	handle := HandleOf(wrappedKey)
	if c.isRevoked(handle) {
		return nil, fmt.Errorf("%w: key destroyed", errors.ErrDecryption)
	}

	contentKey, err := c.unwrap(wrappedKey, recipient)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDecryption, err)
	}
	defer wipe(contentKey)

	c.hold(handle, contentKey)
	defer c.release(handle)

	aead, err := chacha20poly1305.NewX(contentKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDecryption, err)
	}
	if len(ciphertext) < aead.NonceSize()+aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", errors.ErrDecryption)
	}
	nonce, sealed := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDecryption, err)
	}
	return plaintext, nil
}

// DestroyKey zeroes any in-flight content key for the wrapped key and revokes its handle.
func (c *Codec) DestroyKey(wrappedKey []byte) {
	handle := HandleOf(wrappedKey)

	c.mu.Lock()
	defer c.mu.Unlock()
	if key, ok := c.keyring[handle]; ok {
		wipe(key)
		delete(c.keyring, handle)
	}
	if _, ok := c.revoked[handle]; ok {
		return
	}
	if len(c.order) < c.capacity {
		c.order = append(c.order, handle)
	} else {
		delete(c.revoked, c.order[c.next])
		c.order[c.next] = handle
		c.next = (c.next + 1) % c.capacity
	}
	c.revoked[handle] = struct{}{}
}

func (c *Codec) wrap(contentKey []byte, recipient *ecdh.PublicKey) ([]byte, error) {
	ephemeral, err := ecdh.X25519().GenerateKey(c.random)
	if err != nil {
		return nil, fmt.Errorf("ephemeral key: %w", err)
	}
	shared, err := ephemeral.ECDH(recipient)
	if err != nil {
		return nil, fmt.Errorf("key agreement: %w", err)
	}
	defer wipe(shared)

	ephemeralPublic := ephemeral.PublicKey().Bytes()
	kek, err := deriveKEK(shared, ephemeralPublic, recipient.Bytes())
	if err != nil {
		return nil, err
	}
	defer wipe(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+x25519KeySize+aead.NonceSize()+contentKeySize+aead.Overhead())
	out = append(out, wrapVersion)
	out = append(out, ephemeralPublic...)
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(c.random, nonce); err != nil {
		return nil, fmt.Errorf("wrap nonce: %w", err)
	}
	out = append(out, nonce...)
	return aead.Seal(out, nonce, contentKey, out[:1+x25519KeySize]), nil
}

func (c *Codec) unwrap(wrapped []byte, recipient *ecdh.PrivateKey) ([]byte, error) {
	header := 1 + x25519KeySize + chacha20poly1305.NonceSize
	if len(wrapped) != header+contentKeySize+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("wrapped key has length %d", len(wrapped))
	}
	if wrapped[0] != wrapVersion {
		return nil, fmt.Errorf("unknown wrap version %d", wrapped[0])
	}

	ephemeralPublic := wrapped[1 : 1+x25519KeySize]
	ephemeral, err := ecdh.X25519().NewPublicKey(ephemeralPublic)
	if err != nil {
		return nil, fmt.Errorf("ephemeral key: %w", err)
	}
	shared, err := recipient.ECDH(ephemeral)
	if err != nil {
		return nil, fmt.Errorf("key agreement: %w", err)
	}
	defer wipe(shared)

	kek, err := deriveKEK(shared, ephemeralPublic, recipient.PublicKey().Bytes())
	if err != nil {
		return nil, err
	}
	defer wipe(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return nil, err
	}
	nonce := wrapped[1+x25519KeySize : header]
	return aead.Open(nil, nonce, wrapped[header:], wrapped[:1+x25519KeySize])
}

func deriveKEK(shared, ephemeralPublic, recipientPublic []byte) ([]byte, error) {
	salt := make([]byte, 0, len(ephemeralPublic)+len(recipientPublic))
	salt = append(salt, ephemeralPublic...)
	salt = append(salt, recipientPublic...)

	kek := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, shared, salt, wrapInfo), kek); err != nil {
		return nil, fmt.Errorf("derive key-encryption key: %w", err)
	}
	return kek, nil
}

func (c *Codec) hold(handle Handle, key []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keyring[handle] = key
}

func (c *Codec) release(handle Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.keyring, handle)
}

func (c *Codec) isRevoked(handle Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.revoked[handle]
	return ok
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
