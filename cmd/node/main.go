// Package main implements the dhtstore node: an operator-driven peer in a
// local-network distributed hash table that stores small values and files
// under caller-chosen keys, behind a signature-and-ACL authorization layer.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│                  Node                    │
//	├─────────────────────────────────────────┤
//	│  Operator Surface (stdin REPL):         │
//	│    register, put, put -f, get, get -f   │
//	│    sign, permission, listen             │
//	│    peers, info, help, exit              │
//	├─────────────────────────────────────────┤
//	│  Components:                            │
//	│    internal/identity  - node key pair   │
//	│    internal/dhtnet    - DHT adapter     │
//	│    internal/auth      - directory & ACL │
//	│    internal/node      - event loop      │
//	└─────────────────────────────────────────┘
//
// Configuration:
//   - NODE_LISTEN: libp2p listen multiaddress (default: /ip4/0.0.0.0/tcp/0)
//
// Example usage:
//
//	NODE_LISTEN=/ip4/0.0.0.0/tcp/4001 ./node
//	> register alice
//	> permission foo <pk_hex>
//	> sign alice foo
//	> put foo hello <pk_hex> <sig_hex>
//	> get foo <pk_hex> <sig_hex>
package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/dreamware/dhtstore/internal/auth"
	"github.com/dreamware/dhtstore/internal/dhtnet"
	"github.com/dreamware/dhtstore/internal/identity"
	"github.com/dreamware/dhtstore/internal/node"
)

// logFatal is a variable to allow mocking log.Fatal in tests.
var logFatal = log.Fatalf

func main() {
	listen := getenv("NODE_LISTEN", dhtnet.DefaultListenAddr)

	id, err := identity.New()
	if err != nil {
		logFatal("failed to generate node identity: %v", err)
	}

	ctx := context.Background()
	adapter, err := dhtnet.New(ctx, id, listen)
	if err != nil {
		logFatal("failed to initialize DHT adapter: %v", err)
	}
	defer adapter.Close()

	directory := auth.NewDirectory()
	n := node.New(id, adapter, directory)

	log.WithFields(log.Fields{
		"peer_id": adapter.PeerID().String(),
		"listen":  listen,
	}).Info("node started")

	n.Run(node.ReadLines(os.Stdin))

	log.Info("node stopped")
}

// getenv retrieves an environment variable with a default fallback value.
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
