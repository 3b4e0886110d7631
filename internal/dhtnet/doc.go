// Package dhtnet is the DHT Adapter: a thin wrapper around go-libp2p and
// go-libp2p-kad-dht that exposes put/get/listen plus a single completion
// event stream, mirroring the asynchronous Swarm event loop this node's
// design is built around.
//
// go-libp2p-kad-dht's PutValue and GetValue are synchronous calls. The
// adapter reproduces the asynchronous shape the Node Event Loop expects by
// running each call in its own goroutine and publishing a completion Event
// on a shared channel once it returns. Connectivity and listen-address
// changes are similarly translated from the host's event bus into Events,
// so the event loop has one channel to select on regardless of source.
//
// Records are namespaced under "/dhtstore/" before being handed to the DHT:
// go-libp2p-kad-dht validates keys against a registered namespace and
// rejects anything else by default, so a permissive validator is registered
// for this application's own namespace at construction time.
package dhtnet
