package identity

import "testing"

func TestNewProducesDistinctIdentities(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if a.PeerID == b.PeerID {
		t.Fatal("two calls to New produced the same peer ID")
	}
	if a.PeerID.String() == "" {
		t.Fatal("peer ID string representation is empty")
	}
}

func TestNewPublicKeyMatchesPeerID(t *testing.T) {
	id, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !id.PeerID.MatchesPublicKey(id.PublicKey) {
		t.Fatal("peer ID does not match the generated public key")
	}
}
