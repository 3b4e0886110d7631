package signer

import (
	"crypto/ed25519"
	"errors"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"

	"github.com/dreamware/dhtstore/internal/auth"
)

// ErrNotRegistered is returned when no private key file exists for the
// given username.
var ErrNotRegistered = errors.New("not registered")

// ErrPrivateKeyRead is returned when the private key file exists but could
// not be read or is not ed25519.PrivateKeySize bytes long.
var ErrPrivateKeyRead = errors.New("private key read failed")

// Sign loads the private key for username from disk and returns the
// matching public key and a detached signature over message.
//
// It fails with ErrNotRegistered if the private key file is absent, and
// ErrPrivateKeyRead for any other read failure, including a file whose
// length is not ed25519.PrivateKeySize. Only the length is checked.
func Sign(username string, message []byte) (publicKey, signature []byte, err error) {
	path := filepath.Join(auth.PrivateKeyDir, username+".private_key")

	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return nil, nil, ErrNotRegistered
		}
		return nil, nil, pkgerrors.Wrap(ErrPrivateKeyRead, readErr.Error())
	}

	if len(raw) != ed25519.PrivateKeySize {
		return nil, nil, ErrPrivateKeyRead
	}

	priv := ed25519.PrivateKey(raw)
	sig := ed25519.Sign(priv, message)
	return priv.Public().(ed25519.PublicKey), sig, nil
}
