// Package identity generates the node's own libp2p key pair and derived
// peer ID at process start.
//
// Node identity is never persisted: each start generates a fresh key pair,
// so a node has no durable identity across restarts.
package identity
