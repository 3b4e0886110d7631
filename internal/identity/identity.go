package identity

import (
	"crypto/rand"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	pkgerrors "github.com/pkg/errors"
)

// Identity is a node's libp2p key pair and the peer ID derived from it.
type Identity struct {
	PrivateKey crypto.PrivKey
	PublicKey  crypto.PubKey
	PeerID     peer.ID
}

// New generates a fresh Ed25519 libp2p key pair and derives the peer ID
// from it. Called once at node startup; the result is not written to disk.
func New() (*Identity, error) {
	priv, pub, err := crypto.GenerateEd25519Key(rand.Reader)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "generate node identity key pair")
	}

	id, err := peer.IDFromPublicKey(pub)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "derive peer ID")
	}

	return &Identity{PrivateKey: priv, PublicKey: pub, PeerID: id}, nil
}
