package node

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/dreamware/dhtstore/internal/auth"
	"github.com/dreamware/dhtstore/internal/chunk"
	"github.com/dreamware/dhtstore/internal/dhtnet"
	"github.com/dreamware/dhtstore/internal/identity"
	"github.com/dreamware/dhtstore/internal/signer"
)

// Node is the central coordinator: one identity, one DHT adapter, one user
// directory. It runs a single cooperative loop over operator input and
// adapter completion events. There is no package-level mutable state, so
// tests construct independent Nodes freely.
type Node struct {
	Identity  *identity.Identity
	Adapter   DHT
	Directory *auth.Directory

	// Out receives all operator-facing textual output. Defaults to
	// os.Stdout; tests substitute a buffer.
	Out io.Writer

	log *log.Entry
}

// New constructs a Node around the given identity, adapter, and directory.
func New(id *identity.Identity, adapter DHT, dir *auth.Directory) *Node {
	return &Node{
		Identity:  id,
		Adapter:   adapter,
		Directory: dir,
		Out:       os.Stdout,
		log:       log.WithField("component", "node"),
	}
}

func (n *Node) printf(format string, args ...any) {
	fmt.Fprintf(n.Out, format+"\n", args...)
}

// Run drives the event loop: it selects between lines arriving on `lines`
// (already tokenized operator input, one command per line) and completion
// events from the adapter, until `lines` is closed, the adapter's event
// channel is closed, or a command requests exit. It returns when the loop
// terminates.
func (n *Node) Run(lines <-chan string) {
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return
			}
			if n.handleCommand(line) {
				return
			}
		case evt, ok := <-n.Adapter.Events():
			if !ok {
				return
			}
			n.handleEvent(evt)
		}
	}
}

// handleCommand dispatches a single whitespace-tokenized operator command.
// It returns true if the loop should terminate (an "exit" command).
func (n *Node) handleCommand(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "register":
		n.cmdRegister(fields[1:])
	case "put":
		n.cmdPut(fields[1:])
	case "get":
		n.cmdGet(fields[1:])
	case "permission":
		n.cmdPermission(fields[1:])
	case "sign":
		n.cmdSign(fields[1:])
	case "listen":
		n.cmdListen(fields[1:])
	case "peers":
		n.cmdPeers()
	case "info":
		n.cmdInfo()
	case "help":
		n.printHelp()
	case "exit":
		return true
	default:
		n.printf("Unknown command %q; type 'help' for the command list", fields[0])
	}
	return false
}

func (n *Node) printHelp() {
	n.printf(`Commands:
  register <username> [--admin]
  put <key> <value> <pk_hex> <sig_hex>
  put -f <key> <file_path> <pk_hex> <sig_hex>
  get <key> <pk_hex> <sig_hex>
  get -f <key> <pk_hex> <sig_hex>
  sign <username> <message>
  permission <key> <pk_hex>
  listen <multi_address>
  peers
  info
  help
  exit`)
}

func (n *Node) cmdRegister(args []string) {
	if len(args) < 1 {
		n.printf("usage: register <username> [--admin]")
		return
	}
	username := args[0]
	isAdmin := len(args) >= 2 && args[1] == "--admin"

	pub, err := n.Directory.Register(username, isAdmin)
	if err != nil {
		n.printf("Registration failed for %q: %v", username, err)
		return
	}
	n.printf("Registered %q with public key %s", username, hexEncode(pub))
}

func (n *Node) cmdPut(args []string) {
	if len(args) >= 1 && args[0] == "-f" {
		n.cmdPutFile(args[1:])
		return
	}
	if len(args) != 4 {
		n.printf("usage: put <key> <value> <pk_hex> <sig_hex>")
		return
	}
	key, value, pkHex, sigHex := args[0], args[1], args[2], args[3]

	pub, sig, ok := n.decodeAuth(pkHex, sigHex)
	if !ok {
		return
	}
	if !n.authorize(key, pub, sig) {
		return
	}

	// PutRecord's own goroutine outlives this call, so it gets an
	// undeadlined parent context rather than one this function would
	// cancel on return.
	n.Adapter.PutRecord(context.Background(), key, []byte(value), chunk.WriteQuorum)
	n.printf("Submitted put for key %q", key)
}

func (n *Node) cmdPutFile(args []string) {
	if len(args) != 4 {
		n.printf("usage: put -f <key> <file_path> <pk_hex> <sig_hex>")
		return
	}
	key, path, pkHex, sigHex := args[0], args[1], args[2], args[3]

	pub, sig, ok := n.decodeAuth(pkHex, sigHex)
	if !ok {
		return
	}
	if !n.authorize(key, pub, sig) {
		return
	}

	records, err := chunk.EncodeFile(key, path)
	if err != nil {
		n.printf("Failed to read file %q: %v", path, err)
		return
	}

	for _, r := range records {
		n.Adapter.PutRecord(context.Background(), r.Key, r.Value, chunk.WriteQuorum)
	}
	n.printf("Submitted %d chunk(s) and metadata for file key %q", len(records)-1, key)
}

func (n *Node) cmdGet(args []string) {
	isFile := len(args) >= 1 && args[0] == "-f"
	if isFile {
		args = args[1:]
	}
	if len(args) != 3 {
		n.printf("usage: get [-f] <key> <pk_hex> <sig_hex>")
		return
	}
	key, pkHex, sigHex := args[0], args[1], args[2]

	pub, sig, ok := n.decodeAuth(pkHex, sigHex)
	if !ok {
		return
	}
	if !n.authorize(key, pub, sig) {
		return
	}

	// A file retrieval begins with a lookup of the total-chunk metadata
	// record, not the bare key; the completion path (handleRetrieved)
	// takes it from there one chunk lookup at a time.
	lookupKey := key
	if isFile {
		lookupKey = chunk.TotalKey(key)
	}

	n.Adapter.GetRecord(context.Background(), lookupKey, 1)
	n.printf("Submitted get for key %q", key)
}

func (n *Node) cmdPermission(args []string) {
	if len(args) != 2 {
		n.printf("usage: permission <key> <pk_hex>")
		return
	}
	key, pkHex := args[0], args[1]

	pub, err := hexDecode(pkHex)
	if err != nil {
		n.printf("Invalid public key format")
		return
	}
	n.Directory.AddKeyPermission(key, pub)
	n.printf("Granted permission on key %q to %s", key, pkHex)
}

func (n *Node) cmdSign(args []string) {
	if len(args) < 2 {
		n.printf("usage: sign <username> <message>")
		return
	}
	username := args[0]
	message := strings.Join(args[1:], " ")

	pub, sig, err := signer.Sign(username, []byte(message))
	if err != nil {
		n.printf("Signing failed for %q: %v", username, err)
		return
	}
	n.printf("Public key: %s", hexEncode(pub))
	n.printf("Signature: %s", hexEncode(sig))
}

func (n *Node) cmdListen(args []string) {
	if len(args) != 1 {
		n.printf("usage: listen <multi_address>")
		return
	}
	if err := n.Adapter.Listen(args[0]); err != nil {
		n.printf("Failed to listen on %q: %v", args[0], err)
		return
	}
	n.printf("Listening on %q", args[0])
}

func (n *Node) cmdPeers() {
	peers := n.Adapter.Peers().List()
	if len(peers) == 0 {
		n.printf("No connected peers")
		return
	}
	for _, p := range peers {
		n.printf("%s", p.String())
	}
}

func (n *Node) cmdInfo() {
	n.printf("Peer ID: %s", n.Adapter.PeerID().String())
	for _, a := range n.Adapter.Addrs() {
		n.printf("Listening on: %s/p2p/%s", a.String(), n.Adapter.PeerID().String())
	}
}

// decodeAuth hex-decodes pkHex and sigHex, reporting a fixed diagnostic
// string on malformed input.
func (n *Node) decodeAuth(pkHex, sigHex string) (pub, sig []byte, ok bool) {
	pub, err := hexDecode(pkHex)
	if err != nil {
		n.printf("Invalid public key format")
		return nil, nil, false
	}
	sig, err = hexDecode(sigHex)
	if err != nil {
		n.printf("Invalid signature format")
		return nil, nil, false
	}
	return pub, sig, true
}

// authorize runs the authenticate-then-permission-check pair every
// mutating or reading command requires, signing over the raw key bytes.
func (n *Node) authorize(key string, pub, sig []byte) bool {
	if !n.Directory.Authenticate(pub, sig, []byte(key)) {
		n.printf("Authentication failed for key: %s", key)
		return false
	}
	if !n.Directory.CheckKeyPermission(key, pub) {
		n.printf("Permission denied for key: %s", key)
		return false
	}
	return true
}

// handleEvent processes one completion or informational event from the
// adapter, including the chunked-retrieval key-shape classification.
func (n *Node) handleEvent(evt dhtnet.Event) {
	switch evt.Kind {
	case dhtnet.EventNewListenAddr:
		n.log.WithField("addr", evt.Addr).Info("new listen address")
	case dhtnet.EventConnectionEstablished:
		n.log.WithField("peer", evt.Peer).Info("connection established")
	case dhtnet.EventConnectionClosed:
		n.log.WithField("peer", evt.Peer).Info("connection closed")
	case dhtnet.EventPutRecordOK:
		n.log.WithField("key", evt.Key).Debug("put acknowledged")
	case dhtnet.EventPutRecordErr:
		n.printf("Failed to store key: %s", evt.Key)
	case dhtnet.EventGetRecordErr:
		n.printf("Failed to retrieve key: %s", evt.Key)
	case dhtnet.EventGetRecordOK:
		n.handleRetrieved(evt.Key, evt.Value)
	}
}

// handleRetrieved classifies a retrieved record by its key shape and
// advances the file-reassembly state machine, or reports a traditional
// key-value pair directly to the operator.
func (n *Node) handleRetrieved(key string, value []byte) {
	classified := chunk.Classify(key)

	switch classified.Shape {
	case chunk.ShapeTraditional:
		n.printf("Retrieved traditional key-value pair: Key = '%s', Value = '%s'", key, string(value))

	case chunk.ShapeTotal:
		total, err := strconv.Atoi(strings.TrimSpace(string(value)))
		if err != nil {
			n.printf("Malformed total-chunk value for key: %s", key)
			return
		}
		if total == 0 {
			n.printf("Total chunk number is 0")
			return
		}
		n.Adapter.GetRecord(context.Background(), chunk.ChunkKey(classified.FileKey, 0, total), 1)

	case chunk.ShapeChunk:
		if classified.Index < 0 || classified.Index >= classified.Total {
			n.log.WithField("key", key).Warn("dropped chunk record with index outside its total")
			return
		}
		if err := n.writeChunk(classified.FileKey, classified.Index, value); err != nil {
			n.printf("Failed to write chunk %d for file %q: %v", classified.Index, classified.FileKey, err)
			return
		}
		if classified.Index+1 < classified.Total {
			n.Adapter.GetRecord(context.Background(), chunk.ChunkKey(classified.FileKey, classified.Index+1, classified.Total), 1)
			return
		}
		n.printf("File %q fully retrieved as ./%s.txt", classified.FileKey, classified.FileKey)

	case chunk.ShapeInvalid:
		n.log.WithField("key", key).Warn("dropped record with unrecognized key shape")
	}
}

// writeChunk appends value to ./<fileKey>.txt, truncating first if index is
// the first chunk.
func (n *Node) writeChunk(fileKey string, index int, value []byte) error {
	flags := os.O_WRONLY | os.O_CREATE
	if index == 0 {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	f, err := os.OpenFile(fileKey+".txt", flags, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(value)
	return err
}
