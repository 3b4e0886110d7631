package dhtnet

import (
	"context"
	"time"

	ds "github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/libp2p/go-libp2p"
	dht "github.com/libp2p/go-libp2p-kad-dht"
	"github.com/libp2p/go-libp2p/core/event"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/p2p/discovery/mdns"
	multiaddr "github.com/multiformats/go-multiaddr"
	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/dreamware/dhtstore/internal/identity"
)

// Namespace is the record-key namespace this application registers with the
// DHT's validator. go-libp2p-kad-dht rejects keys outside any registered
// namespace, so every key this node stores or fetches is wrapped in it.
const Namespace = "dhtstore"

// DiscoveryServiceTag is the mDNS service name nodes advertise and look for
// on the local network.
const DiscoveryServiceTag = "dhtstore-node"

// DefaultListenAddr is used when the operator gives no explicit listen
// address, matching the protocol's wildcard default.
const DefaultListenAddr = "/ip4/0.0.0.0/tcp/0"

// OpTimeout bounds a single PutValue or GetValue call. It is applied inside
// the goroutine that makes the call, not by the caller of PutRecord/
// GetRecord: those calls return immediately, so any deadline the caller set
// on its own context would expire before the background call ever finishes.
const OpTimeout = 30 * time.Second

// passthroughValidator accepts any record under Namespace. The core has no
// need for the DHT's built-in record-ownership validation: authorization is
// handled entirely by internal/auth before a put ever reaches the adapter.
type passthroughValidator struct{}

func (passthroughValidator) Validate(string, []byte) error { return nil }

func (passthroughValidator) Select(_ string, values [][]byte) (int, error) {
	return 0, nil
}

// namespacedKey returns the DHT record key for application key k.
func namespacedKey(k string) string {
	return "/" + Namespace + "/" + k
}

// Adapter wraps a libp2p host, its Kademlia DHT, and local mDNS discovery,
// translating the library's synchronous calls and event bus into the
// single Events() completion stream the Node Event Loop selects on.
type Adapter struct {
	host   host.Host
	table  *dht.IpfsDHT
	mdns   mdns.Service
	events chan Event
	peers  *PeerRegistry
	log    *log.Entry
}

// New constructs the host and DHT bound to id's key pair, listening on
// listenAddr (DefaultListenAddr if empty), and starts local peer discovery.
func New(ctx context.Context, id *identity.Identity, listenAddr string) (*Adapter, error) {
	if listenAddr == "" {
		listenAddr = DefaultListenAddr
	}

	h, err := libp2p.New(
		libp2p.Identity(id.PrivateKey),
		libp2p.ListenAddrStrings(listenAddr),
	)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "construct libp2p host")
	}

	store := dssync.MutexWrap(ds.NewMapDatastore())
	table, err := dht.New(ctx, h,
		dht.Datastore(store),
		dht.Mode(dht.ModeServer),
		dht.NamespacedValidator(Namespace, passthroughValidator{}),
	)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "construct kademlia dht")
	}

	if err := table.Bootstrap(ctx); err != nil {
		return nil, pkgerrors.Wrap(err, "bootstrap kademlia dht")
	}

	a := &Adapter{
		host:   h,
		table:  table,
		events: make(chan Event, 64),
		peers:  NewPeerRegistry(),
		log:    log.WithField("component", "dhtnet"),
	}

	disc := mdns.NewMdnsService(h, DiscoveryServiceTag, &discoveryNotifee{adapter: a})
	if err := disc.Start(); err != nil {
		return nil, pkgerrors.Wrap(err, "start mdns discovery")
	}
	a.mdns = disc

	a.watchEventBus()

	return a, nil
}

// discoveryNotifee feeds mDNS-discovered peers directly into the DHT's
// routing table by connecting to them.
type discoveryNotifee struct {
	adapter *Adapter
}

func (n *discoveryNotifee) HandlePeerFound(pi peer.AddrInfo) {
	if err := n.adapter.host.Connect(context.Background(), pi); err != nil {
		n.adapter.log.WithError(err).WithField("peer", pi.ID).Warn("failed to connect to discovered peer")
	}
}

// watchEventBus subscribes to the host's connectivity and address events
// and republishes them as Events on the adapter's completion stream.
func (a *Adapter) watchEventBus() {
	connSub, err := a.host.EventBus().Subscribe(new(event.EvtPeerConnectednessChanged))
	if err != nil {
		a.log.WithError(err).Warn("failed to subscribe to connectedness events")
	} else {
		go func() {
			for raw := range connSub.Out() {
				evt := raw.(event.EvtPeerConnectednessChanged)
				switch evt.Connectedness {
				case network.Connected:
					a.peers.Add(evt.Peer)
					a.publish(Event{Kind: EventConnectionEstablished, Peer: evt.Peer})
				case network.NotConnected:
					a.peers.Remove(evt.Peer)
					a.publish(Event{Kind: EventConnectionClosed, Peer: evt.Peer})
				}
			}
		}()
	}

	addrSub, err := a.host.EventBus().Subscribe(new(event.EvtLocalAddressesUpdated))
	if err != nil {
		a.log.WithError(err).Warn("failed to subscribe to listen address events")
		return
	}
	go func() {
		for raw := range addrSub.Out() {
			evt := raw.(event.EvtLocalAddressesUpdated)
			for _, updated := range evt.Current {
				if updated.Action != event.Added {
					continue
				}
				a.publish(Event{Kind: EventNewListenAddr, Addr: updated.Address.String()})
			}
		}
	}()
}

func (a *Adapter) publish(e Event) {
	a.events <- e
}

// Events returns the channel of completion and informational events. The
// Node Event Loop selects on this channel alongside operator input.
func (a *Adapter) Events() <-chan Event {
	return a.events
}

// Listen binds an additional listen address, requested via the operator's
// "listen" command.
func (a *Adapter) Listen(addr string) error {
	maddr, err := multiaddr.NewMultiaddr(addr)
	if err != nil {
		return pkgerrors.Wrapf(err, "parse multiaddress %q", addr)
	}
	return a.host.Network().Listen(maddr)
}

// PutRecord stores value at key with the given write quorum. The result
// arrives asynchronously as an EventPutRecordOK or EventPutRecordErr Event.
//
// go-libp2p-kad-dht has no write-quorum knob equivalent to the original's
// Quorum::N(3): it replicates internally to its own configured factor. The
// requested quorum is logged for observability, not independently verified.
func (a *Adapter) PutRecord(ctx context.Context, key string, value []byte, quorum int) {
	a.log.WithFields(log.Fields{"key": key, "quorum": quorum}).Debug("submitting put")
	go func() {
		opCtx, cancel := context.WithTimeout(ctx, OpTimeout)
		defer cancel()
		err := a.table.PutValue(opCtx, namespacedKey(key), value)
		if err != nil {
			a.publish(Event{Kind: EventPutRecordErr, Key: key, Err: err})
			return
		}
		a.publish(Event{Kind: EventPutRecordOK, Key: key})
	}()
}

// GetRecord looks up key with the given read quorum. The result arrives
// asynchronously as an EventGetRecordOK or EventGetRecordErr Event.
func (a *Adapter) GetRecord(ctx context.Context, key string, quorum int) {
	a.log.WithFields(log.Fields{"key": key, "quorum": quorum}).Debug("submitting get")
	go func() {
		opCtx, cancel := context.WithTimeout(ctx, OpTimeout)
		defer cancel()
		value, err := a.table.GetValue(opCtx, namespacedKey(key), dht.Quorum(quorum))
		if err != nil {
			a.publish(Event{Kind: EventGetRecordErr, Key: key, Err: err})
			return
		}
		a.publish(Event{Kind: EventGetRecordOK, Key: key, Value: value})
	}()
}

// Peers returns the peer registry tracking currently connected peers.
func (a *Adapter) Peers() *PeerRegistry {
	return a.peers
}

// PeerID returns this node's own peer identifier.
func (a *Adapter) PeerID() peer.ID {
	return a.host.ID()
}

// Addrs returns the multiaddresses this host is currently listening on.
func (a *Adapter) Addrs() []multiaddr.Multiaddr {
	return a.host.Addrs()
}

// Close shuts down discovery, the DHT, and the underlying host.
func (a *Adapter) Close() error {
	if a.mdns != nil {
		_ = a.mdns.Close()
	}
	if err := a.table.Close(); err != nil {
		return pkgerrors.Wrap(err, "close dht")
	}
	return pkgerrors.Wrap(a.host.Close(), "close host")
}
