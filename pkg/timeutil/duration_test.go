package timeutil

import (
	"testing"
	"time"
)

func TestParseWindowDefault(t *testing.T) {
	dur, label, err := ParseWindow("", DefaultUndoWindow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dur != 15*time.Second {
		t.Fatalf("expected 15s, got %v", dur)
	}
	if label != "15s" {
		t.Fatalf("expected label 15s, got %s", label)
	}
}

func TestParseWindowComposite(t *testing.T) {
	dur, label, err := ParseWindow("1h30m15s", DefaultMinGap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Hour + 30*time.Minute + 15*time.Second
	if dur != want {
		t.Fatalf("expected %v, got %v", want, dur)
	}
	if label != "1h30m15s" {
		t.Fatalf("unexpected label: %s", label)
	}
}

func TestParseWindowCanonicalizes(t *testing.T) {
	_, label, err := ParseWindow("90 mins", DefaultMinGap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "1h30m" {
		t.Fatalf("expected 1h30m, got %s", label)
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3d", "0s"} {
		if _, _, err := ParseWindow(in, DefaultMinGap); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}
