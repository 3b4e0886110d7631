package dhtnet

import "github.com/libp2p/go-libp2p/core/peer"

// EventKind identifies the shape of an Event, mirroring the completion
// stream this node's design is built around: informational connectivity
// events plus outbound-query-completed events for gets and puts.
type EventKind int

const (
	// EventNewListenAddr reports a new address the local host is reachable on.
	EventNewListenAddr EventKind = iota
	// EventConnectionEstablished reports a newly connected peer.
	EventConnectionEstablished
	// EventConnectionClosed reports a peer that is no longer connected.
	EventConnectionClosed
	// EventGetRecordOK carries a successfully retrieved record.
	EventGetRecordOK
	// EventGetRecordErr reports a failed retrieval.
	EventGetRecordErr
	// EventPutRecordOK reports a successfully stored record.
	EventPutRecordOK
	// EventPutRecordErr reports a failed store.
	EventPutRecordErr
)

// Event is a single completion or informational event surfaced by the
// adapter. Only the fields relevant to Kind are populated.
type Event struct {
	Kind EventKind

	// Addr is set on EventNewListenAddr.
	Addr string

	// Peer is set on EventConnectionEstablished and EventConnectionClosed.
	Peer peer.ID

	// Key is the storage key involved in a get/put completion.
	Key string

	// Value is the retrieved record's bytes, set on EventGetRecordOK.
	Value []byte

	// Err is the failure reason, set on the two error kinds.
	Err error
}
