package assets

import (
	"testing"

	"github.com/etched-id/etched-go/pkg/das"
)

func TestIsVerified(t *testing.T) {
	cases := []struct {
		name     string
		creators []das.Creator
		expected bool
	}{
		{"single verified", []das.Creator{{Address: "A", Verified: true}}, true},
		{"all verified", []das.Creator{{Address: "A", Verified: true}, {Address: "B", Verified: true}}, true},
		{"one unverified", []das.Creator{{Address: "A", Verified: true}, {Address: "B", Verified: false}}, false},
		{"unverified first", []das.Creator{{Address: "A", Verified: false}, {Address: "B", Verified: true}}, false},
		{"no creators", nil, false},
	}

	for _, tc := range cases {
		asset := &das.Asset{Creators: tc.creators}
		if IsVerified(asset) != tc.expected {
			t.Fatalf("%s: expected %v", tc.name, tc.expected)
		}
	}
	if IsVerified(nil) {
		t.Fatal("nil asset must not be verified")
	}
}
