package signer

import (
	"crypto/ed25519"
	"os"
	"testing"

	"github.com/dreamware/dhtstore/internal/auth"
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
	t.Cleanup(func() {
		_ = os.Chdir(old)
	})
}

func TestSignRoundTrip(t *testing.T) {
	withTempCwd(t)
	d := auth.NewDirectory()

	pub, err := d.Register("alice", false)
	if err != nil {
		t.Fatal(err)
	}

	message := []byte("foo")
	gotPub, sig, err := Sign("alice", message)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if string(gotPub) != string(pub) {
		t.Error("Sign returned a public key different from the one Register produced")
	}
	if !d.Authenticate(gotPub, sig, message) {
		t.Error("Authenticate rejected the signature Sign produced")
	}
}

func TestSignNotRegistered(t *testing.T) {
	withTempCwd(t)

	_, _, err := Sign("nobody", []byte("foo"))
	if err != ErrNotRegistered {
		t.Fatalf("got err %v, want ErrNotRegistered", err)
	}
}

func TestSignCorruptKeyFile(t *testing.T) {
	withTempCwd(t)

	if err := os.MkdirAll(auth.PrivateKeyDir, 0o700); err != nil {
		t.Fatal(err)
	}
	path := auth.PrivateKeyDir + "/alice.private_key"
	if err := os.WriteFile(path, []byte("too short"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, _, err := Sign("alice", []byte("foo"))
	if err != ErrPrivateKeyRead {
		t.Fatalf("got err %v, want ErrPrivateKeyRead", err)
	}
}

func TestSignDifferentMessagesDifferentSignatures(t *testing.T) {
	withTempCwd(t)
	d := auth.NewDirectory()
	if _, err := d.Register("alice", false); err != nil {
		t.Fatal(err)
	}

	_, sig1, err := Sign("alice", []byte("foo"))
	if err != nil {
		t.Fatal(err)
	}
	_, sig2, err := Sign("alice", []byte("bar"))
	if err != nil {
		t.Fatal(err)
	}
	if string(sig1) == string(sig2) {
		t.Error("signatures over different messages were identical")
	}
	if len(sig1) != ed25519.SignatureSize {
		t.Errorf("signature length = %d, want %d", len(sig1), ed25519.SignatureSize)
	}
}
