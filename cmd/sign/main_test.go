package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/urfave/cli"

	"github.com/dreamware/dhtstore/internal/auth"
	"github.com/dreamware/dhtstore/internal/signer"
)

func withTempCwd(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func newContext(t *testing.T, args []string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := set.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestCmdSignNotRegistered(t *testing.T) {
	withTempCwd(t)

	err := cmdSign(newContext(t, []string{"nobody", "foo"}))
	if err == nil {
		t.Fatal("expected an error for an unregistered user")
	}
}

func TestCmdSignMissingArgs(t *testing.T) {
	withTempCwd(t)

	err := cmdSign(newContext(t, []string{"alice"}))
	if err == nil {
		t.Fatal("expected an error when the message argument is missing")
	}
}

func TestCmdSignSuccess(t *testing.T) {
	withTempCwd(t)

	d := auth.NewDirectory()
	if _, err := d.Register("alice", false); err != nil {
		t.Fatal(err)
	}

	if err := cmdSign(newContext(t, []string{"alice", "foo"})); err != nil {
		t.Fatalf("cmdSign failed: %v", err)
	}
}

// TestCmdSignMultiWordMessageMatchesSigner confirms a multi-word message
// argument is joined with spaces, the same way the node's in-process "sign"
// command joins its own remaining fields, so the two produce identical
// signatures over the same message.
func TestCmdSignMultiWordMessageMatchesSigner(t *testing.T) {
	withTempCwd(t)

	d := auth.NewDirectory()
	if _, err := d.Register("alice", false); err != nil {
		t.Fatal(err)
	}

	sig := captureSignatureLine(t, func() {
		if err := cmdSign(newContext(t, []string{"alice", "hello", "world"})); err != nil {
			t.Fatalf("cmdSign failed: %v", err)
		}
	})

	_, wantSig, err := signer.Sign("alice", []byte("hello world"))
	if err != nil {
		t.Fatal(err)
	}
	want := fmt.Sprintf("%x", wantSig)
	if sig != want {
		t.Fatalf("got signature %q, want %q (message not joined the same way)", sig, want)
	}
}

// captureSignatureLine runs fn with os.Stdout redirected and returns the
// hex signature printed on the "signature:" line.
func captureSignatureLine(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	old := os.Stdout
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = old

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "signature:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "signature:"))
		}
	}
	t.Fatal("no signature line found in output")
	return ""
}
