// Package signer implements the client signing tool: given a username and a
// message, it loads that user's private key from disk and produces a
// detached Ed25519 signature plus the matching public key.
//
// This is the only legitimate producer of signatures accepted by
// internal/auth. It is used both by the standalone cmd/sign binary and by
// the node's own interactive "sign" operator command; both call paths share
// this package so the on-disk key format and error taxonomy are defined
// exactly once.
package signer
