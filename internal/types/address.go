// README: Canonical address value; all raw address encodings are parsed once at ingestion.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAddress is returned when a stored address cannot be decoded.
var ErrInvalidAddress = errors.New("invalid address")

// maxAddressNesting bounds how many layers of JSON string encoding are unwrapped.
const maxAddressNesting = 3

// Address is a trimmed, whitespace-collapsed formatted address.
type Address string

// NewAddress normalizes a plain formatted-address string.
func NewAddress(s string) Address {
	return Address(strings.Join(strings.Fields(s), " "))
}

// ParseAddress accepts a plain string, a JSON string (possibly encoded twice)
// or a JSON object carrying formatted_address.
func ParseAddress(raw []byte) (Address, error) {
	return parseAddress(strings.TrimSpace(string(raw)), 0)
}

// ParseAddressString is ParseAddress for values already read as text.
func ParseAddressString(s string) (Address, error) {
	return ParseAddress([]byte(s))
}

func parseAddress(s string, depth int) (Address, error) {
	if s == "" || s == "null" {
		return "", nil
	}
	if depth > maxAddressNesting {
		return "", fmt.Errorf("%w: too deeply nested", ErrInvalidAddress)
	}
	switch s[0] {
	case '"':
		var inner string
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
		}
		return parseAddress(strings.TrimSpace(inner), depth+1)
	case '{':
		var obj struct {
			FormattedAddress string `json:"formatted_address"`
		}
		if err := json.Unmarshal([]byte(s), &obj); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
		}
		if strings.TrimSpace(obj.FormattedAddress) == "" {
			return "", fmt.Errorf("%w: missing formatted_address", ErrInvalidAddress)
		}
		return NewAddress(obj.FormattedAddress), nil
	default:
		return NewAddress(s), nil
	}
}

// Key is the comparison key: case-folded with whitespace collapsed.
func (a Address) Key() string {
	return strings.ToLower(strings.Join(strings.Fields(string(a)), " "))
}

func (a Address) IsZero() bool { return a.Key() == "" }

func (a Address) String() string { return string(a) }

// SameAs reports whether two addresses refer to the same place textually.
func (a Address) SameAs(b Address) bool {
	return !a.IsZero() && a.Key() == b.Key()
}
