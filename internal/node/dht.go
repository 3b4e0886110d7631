package node

import (
	"context"

	"github.com/libp2p/go-libp2p/core/peer"
	multiaddr "github.com/multiformats/go-multiaddr"

	"github.com/dreamware/dhtstore/internal/dhtnet"
)

// DHT is the subset of *dhtnet.Adapter the event loop depends on. Extracting
// it as an interface lets tests substitute a fake adapter instead of
// standing up a real libp2p host.
type DHT interface {
	Events() <-chan dhtnet.Event
	PutRecord(ctx context.Context, key string, value []byte, quorum int)
	GetRecord(ctx context.Context, key string, quorum int)
	Listen(addr string) error
	Peers() *dhtnet.PeerRegistry
	PeerID() peer.ID
	Addrs() []multiaddr.Multiaddr
}
