package main

import (
	"os"
	"testing"
)

func TestGetenv(t *testing.T) {
	const key = "DHTSTORE_TEST_GETENV"

	os.Unsetenv(key)
	if got := getenv(key, "default"); got != "default" {
		t.Errorf("getenv with unset var = %q, want %q", got, "default")
	}

	os.Setenv(key, "custom")
	defer os.Unsetenv(key)
	if got := getenv(key, "default"); got != "custom" {
		t.Errorf("getenv with set var = %q, want %q", got, "custom")
	}
}
