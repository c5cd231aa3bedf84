package services

import (
	"errors"
	"testing"
)

func TestWrapPreservesMarker(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrUpstream, "fetch", "GET", "all servers failed", cause)

	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream classification, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to survive, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsToPersistence(t *testing.T) {
	err := Wrap(nil, "pls", "write", "", errors.New("disk full"))
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence fallback, got %v", err)
	}
}

func TestWrapDetailJoinsParts(t *testing.T) {
	err := Wrap(ErrDecode, "logo", "", "unsupported format", nil)
	want := "decode failed: logo: unsupported format"
	if err.Error() != want {
		t.Fatalf("Wrap() = %q, want %q", err.Error(), want)
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(ErrTimeout, "", "", "", nil)
	if err.Error() != "timeout: service failure" {
		t.Fatalf("Wrap() = %q", err.Error())
	}
}
