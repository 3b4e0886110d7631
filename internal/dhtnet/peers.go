package dhtnet

import (
	"sync"

	"github.com/libp2p/go-libp2p/core/peer"
)

// PeerRegistry is an event-driven map of currently connected peers, fed by
// the adapter's connectivity events. It replaces polling an HTTP health
// endpoint with simply recording what the libp2p swarm already tells us.
type PeerRegistry struct {
	mu    sync.RWMutex
	peers map[peer.ID]struct{}
}

// NewPeerRegistry returns an empty PeerRegistry.
func NewPeerRegistry() *PeerRegistry {
	return &PeerRegistry{peers: make(map[peer.ID]struct{})}
}

// Add records id as connected.
func (r *PeerRegistry) Add(id peer.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peers[id] = struct{}{}
}

// Remove records id as no longer connected.
func (r *PeerRegistry) Remove(id peer.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.peers, id)
}

// List returns the currently connected peer IDs in no particular order.
func (r *PeerRegistry) List() []peer.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]peer.ID, 0, len(r.peers))
	for id := range r.peers {
		out = append(out, id)
	}
	return out
}

// Count returns the number of currently connected peers.
func (r *PeerRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}
