package texprinter

import (
	"errors"
	"testing"
)

func TestLocalName(t *testing.T) {
	cases := []struct {
		url      string
		expected string
	}{
		{"https://i.stack.imgur.com/abc.png", "abc.png"},
		{"http://example.com/a/b/c/d.jpg?x=1", "d.jpg?x=1"},
		{"plain.png", "plain.png"},
		{"http://example.com/dir/", "image"},
	}
	for _, tc := range cases {
		first := LocalName(tc.url)
		second := LocalName(tc.url)
		if first != tc.expected {
			t.Fatalf("LocalName(%q): expected %q got %q", tc.url, tc.expected, first)
		}
		if first != second {
			t.Fatalf("LocalName(%q) not stable: %q vs %q", tc.url, first, second)
		}
	}
}

func TestNewImageReference(t *testing.T) {
	ref := NewImageReference("https://i.stack.imgur.com/xyz.png", "a duck")
	if ref.LocalName != "xyz.png" || ref.AltText != "a duck" {
		t.Fatalf("unexpected reference %+v", ref)
	}
}

func TestLoopGuard(t *testing.T) {
	g := NewLoopGuard()
	for i := 0; i < loopGuardCeiling; i++ {
		if err := g.Tick(); err != nil {
			t.Fatalf("unexpected trip at tick %d: %v", i+1, err)
		}
	}
	err := g.Tick()
	if !errors.Is(err, ErrLoopGuard) {
		t.Fatalf("expected ErrLoopGuard got %v", err)
	}
	if g.Ticks() != loopGuardCeiling+1 {
		t.Fatalf("expected %d ticks got %d", loopGuardCeiling+1, g.Ticks())
	}
}
