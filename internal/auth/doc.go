// Package auth implements the user directory and per-key access control list
// that authenticate and authorize every mutating or reading DHT command.
//
// A Directory holds registered users (username, public key, admin flag) and
// an ACL mapping each storage key to the set of public keys authorized on
// it. Registration generates a fresh Ed25519 key pair, writes the private
// key to disk under ./private_keys/, and keeps only the public half and the
// username in memory. Signature verification and permission checks are
// independent: a command must pass both before the Node Event Loop submits
// anything to the DHT.
package auth
