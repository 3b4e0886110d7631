package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	pkgerrors "github.com/pkg/errors"
)

// ErrUserExists is returned by Register when the generated public key
// collides with one already in the directory.
var ErrUserExists = errors.New("user exists")

// ErrPrivateKeyStore is returned by Register when the private key could not
// be written to disk.
var ErrPrivateKeyStore = errors.New("private key store failed")

// PrivateKeyDir is the directory, relative to the process's working
// directory, that holds one file per registered user's private key.
const PrivateKeyDir = "private_keys"

// credential is the in-memory record for one registered user.
type credential struct {
	username  string
	publicKey ed25519.PublicKey
	isAdmin   bool
}

// Directory is the in-memory user registry and per-key ACL. The zero value
// is not usable; construct with NewDirectory. A Directory is safe for
// concurrent use.
type Directory struct {
	mu sync.RWMutex

	// byPublicKey indexes credentials by their hex-encoded public key, the
	// same encoding used on the wire for pk_hex arguments.
	byPublicKey map[string]*credential

	// acl maps a storage key to the set of hex-encoded public keys
	// authorized on it.
	acl map[string]map[string]struct{}
}

// NewDirectory returns an empty Directory.
func NewDirectory() *Directory {
	return &Directory{
		byPublicKey: make(map[string]*credential),
		acl:         make(map[string]map[string]struct{}),
	}
}

// Register generates a fresh Ed25519 key pair for username, persists the
// private key to <cwd>/private_keys/<username>.private_key, and records the
// public key and admin flag in the directory. It returns the raw 32-byte
// public key.
//
// Register fails with ErrUserExists if the resulting public key is already
// present (a collision is astronomically unlikely; this is a safeguard, not
// a username uniqueness check) and with ErrPrivateKeyStore if the private
// key file cannot be written.
func (d *Directory) Register(username string, isAdmin bool) (ed25519.PublicKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "generate key pair")
	}

	pkHex := hex.EncodeToString(pub)

	d.mu.Lock()
	if _, exists := d.byPublicKey[pkHex]; exists {
		d.mu.Unlock()
		return nil, ErrUserExists
	}
	d.mu.Unlock()

	if err := writePrivateKey(username, priv); err != nil {
		return nil, ErrPrivateKeyStore
	}

	d.mu.Lock()
	d.byPublicKey[pkHex] = &credential{username: username, publicKey: pub, isAdmin: isAdmin}
	d.mu.Unlock()

	return pub, nil
}

// writePrivateKey stores priv at the conventional per-username path with
// permissions restricted to the owner, hardening the original's
// unrestricted-permission file write.
func writePrivateKey(username string, priv ed25519.PrivateKey) error {
	if err := os.MkdirAll(PrivateKeyDir, 0o700); err != nil {
		return pkgerrors.Wrap(err, "create private key directory")
	}
	path := filepath.Join(PrivateKeyDir, username+".private_key")
	return os.WriteFile(path, priv, 0o600)
}

// Authenticate reports whether signature is a valid detached Ed25519
// signature over message by the holder of publicKey. Malformed key or
// signature lengths return false, not an error.
func (d *Directory) Authenticate(publicKey, signature, message []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(publicKey, message, signature)
}

// AddKeyPermission authorizes publicKey on storage key, creating the ACL
// entry if it does not already exist. Repeated calls for the same pair are
// idempotent.
func (d *Directory) AddKeyPermission(key string, publicKey []byte) {
	pkHex := hex.EncodeToString(publicKey)

	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.acl[key]
	if !ok {
		entry = make(map[string]struct{})
		d.acl[key] = entry
	}
	entry[pkHex] = struct{}{}
}

// CheckKeyPermission reports whether publicKey has been granted permission
// on storage key via a prior AddKeyPermission call.
func (d *Directory) CheckKeyPermission(key string, publicKey []byte) bool {
	pkHex := hex.EncodeToString(publicKey)

	d.mu.RLock()
	defer d.mu.RUnlock()

	entry, ok := d.acl[key]
	if !ok {
		return false
	}
	_, authorized := entry[pkHex]
	return authorized
}

// UserExists reports whether publicKey is already registered.
func (d *Directory) UserExists(publicKey []byte) bool {
	pkHex := hex.EncodeToString(publicKey)

	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.byPublicKey[pkHex]
	return ok
}
