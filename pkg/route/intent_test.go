package route

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		segments []string
		expected Intent
	}{
		{[]string{"alice.sol", "ABC123"}, ShortnameAddressIntent{Shortname: "alice.sol", Address: "ABC123"}},
		{[]string{"alice.sol"}, ShortnameIntent{Shortname: "alice.sol"}},
		{[]string{"ABC123"}, AddressIntent{Address: "ABC123"}},
	}

	for _, tc := range cases {
		intent, err := Classify(tc.segments)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", tc.segments, err)
		}
		if intent != tc.expected {
			t.Fatalf("expected %#v for %v, got %#v", tc.expected, tc.segments, intent)
		}
	}
}

func TestClassifyNoMatch(t *testing.T) {
	inputs := [][]string{
		nil,
		{},
		{"a", "b", "c"},
		{"alice.eth"},
		{"alice.sol", "not-base58!"},
		{"ABC123", "alice.sol"},
		{"a.b.sol"},
		{""},
	}
	for _, segments := range inputs {
		if _, err := Classify(segments); !errors.Is(err, ErrNoMatch) {
			t.Fatalf("expected ErrNoMatch for %v, got %v", segments, err)
		}
	}
}

func TestIntentPath(t *testing.T) {
	if got := (ShortnameAddressIntent{Shortname: "alice.sol", Address: "ABC"}).Path(); got != "alice.sol/ABC" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestSplitPath(t *testing.T) {
	segments := SplitPath("/alice.sol/ABC/")
	if len(segments) != 2 || segments[0] != "alice.sol" || segments[1] != "ABC" {
		t.Fatalf("unexpected segments %v", segments)
	}
	if SplitPath("/") != nil {
		t.Fatal("expected no segments for root")
	}
}
