package types

import (
	"errors"
	"testing"
)

func TestParseAddress_Encodings(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Address
	}{
		{"plain", "  Storgatan 1,  Stockholm ", "Storgatan 1, Stockholm"},
		{"json string", `"Storgatan 1, Stockholm"`, "Storgatan 1, Stockholm"},
		{"double encoded", `"\"Storgatan 1, Stockholm\""`, "Storgatan 1, Stockholm"},
		{"object", `{"formatted_address":"Storgatan 1, Stockholm","lat":59.3}`, "Storgatan 1, Stockholm"},
		{"object in string", `"{\"formatted_address\":\"Storgatan 1, Stockholm\"}"`, "Storgatan 1, Stockholm"},
		{"empty", "", ""},
		{"null", "null", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAddressString(tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParseAddress_ObjectWithoutFormattedAddress(t *testing.T) {
	_, err := ParseAddressString(`{"street":"Storgatan 1"}`)
	if !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestParseAddress_MalformedJSON(t *testing.T) {
	if _, err := ParseAddressString(`{"formatted_address":`); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestAddressKey(t *testing.T) {
	a := NewAddress("Storgatan 1, STOCKHOLM")
	b := Address("  storgatan   1, stockholm")
	if a.Key() != b.Key() {
		t.Fatalf("keys differ: %q vs %q", a.Key(), b.Key())
	}
	if !a.SameAs(b) {
		t.Fatal("expected SameAs to hold")
	}
	if Address("").SameAs(Address(" ")) {
		t.Fatal("empty addresses must never match")
	}
}
