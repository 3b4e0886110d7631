// Package main implements the standalone client signing tool: given a
// registered username and a message, it loads that user's private key from
// ./private_keys/ and prints the public key and a detached Ed25519
// signature over the message, both hex-encoded.
//
// This binary is the only legitimate producer of signatures accepted by the
// node's signature-and-ACL layer. It is intentionally a separate process
// from the node so that, for true offline signing, a private key never
// needs to cross the node boundary; the node's own "sign" command shares
// this exact code path for local convenience.
//
// Example usage:
//
//	./sign alice foo
//	public_key: a1b2c3...
//	signature:  d4e5f6...
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/dreamware/dhtstore/internal/signer"
)

func main() {
	app := cli.NewApp()
	app.Name = "sign"
	app.Usage = "sign a message with a registered user's private key"
	app.ArgsUsage = "<username> <message>"
	app.Action = cmdSign

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func cmdSign(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.NewExitError("usage: sign <username> <message>", 1)
	}

	username := c.Args().Get(0)
	// Joined the same way the node's in-process "sign" command joins its
	// remaining fields, so a multi-word message hashes identically either way.
	message := strings.Join(c.Args().Tail(), " ")

	pub, sig, err := signer.Sign(username, []byte(message))
	if err != nil {
		switch err {
		case signer.ErrNotRegistered:
			return cli.NewExitError(fmt.Sprintf("user %q is not registered", username), 1)
		default:
			return cli.NewExitError(fmt.Sprintf("failed to read private key: %v", err), 1)
		}
	}

	fmt.Printf("public_key: %x\n", pub)
	fmt.Printf("signature:  %x\n", sig)
	return nil
}
