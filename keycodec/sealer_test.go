package keycodec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealer_SealAndOpen(t *testing.T) {
	req := require.New(t)
	salt, err := NewSalt()
	req.NoError(err)
	sealer, err := NewSealer([]byte("operator-secret"), salt)
	req.NoError(err)

	sealed, err := sealer.Seal([]byte("private key bytes"), []byte("alice"))
	req.NoError(err)

	opened, err := sealer.Open(sealed, []byte("alice"))
	req.NoError(err)
	req.Equal([]byte("private key bytes"), opened)

	// Bound to its owner
	_, err = sealer.Open(sealed, []byte("mallory"))
	req.Error(err)

	// Another secret cannot open it
	other, err := NewSealer([]byte("another-secret"), salt)
	req.NoError(err)
	_, err = other.Open(sealed, []byte("alice"))
	req.Error(err)
}

func TestSealer_RejectsBadParameters(t *testing.T) {
	req := require.New(t)
	_, err := NewSealer(nil, make([]byte, SaltLength))
	req.Error(err)
	_, err = NewSealer([]byte("secret"), []byte("short"))
	req.Error(err)
}
