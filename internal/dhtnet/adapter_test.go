package dhtnet

import "testing"

func TestNamespacedKey(t *testing.T) {
	got := namespacedKey("foo")
	want := "/dhtstore/foo"
	if got != want {
		t.Fatalf("namespacedKey(%q) = %q, want %q", "foo", got, want)
	}
}

func TestPassthroughValidatorAcceptsAnything(t *testing.T) {
	v := passthroughValidator{}
	if err := v.Validate("/dhtstore/foo", []byte("anything")); err != nil {
		t.Errorf("Validate returned an error: %v", err)
	}
	idx, err := v.Select("/dhtstore/foo", [][]byte{[]byte("a"), []byte("b")})
	if err != nil {
		t.Errorf("Select returned an error: %v", err)
	}
	if idx != 0 {
		t.Errorf("Select returned index %d, want 0", idx)
	}
}
