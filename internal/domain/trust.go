package domain

import (
	"encoding/json"
	"fmt"
)

// Trust is a tri-state flag: unknown, untrusted or trusted.
type Trust int8

const (
	TrustUnknown   Trust = 0
	TrustUntrusted Trust = 1
	TrustTrusted   Trust = 2
)

// Valid reports whether t is one of the three defined states
func (t Trust) Valid() bool {
	return t >= TrustUnknown && t <= TrustTrusted
}

// Bool returns nil for unknown, otherwise a pointer to the flag value
func (t Trust) Bool() *bool {
	switch t {
	case TrustTrusted:
		v := true
		return &v
	case TrustUntrusted:
		v := false
		return &v
	}
	return nil
}

// TrustFromBool maps nil to unknown
func TrustFromBool(b *bool) Trust {
	if b == nil {
		return TrustUnknown
	}
	if *b {
		return TrustTrusted
	}
	return TrustUntrusted
}

func (t Trust) String() string {
	switch t {
	case TrustUnknown:
		return "unknown"
	case TrustUntrusted:
		return "untrusted"
	case TrustTrusted:
		return "trusted"
	}
	return fmt.Sprintf("Trust(%d)", int8(t))
}

// MarshalJSON encodes the flag as true, false or null
func (t Trust) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid trust value %d", int8(t))
	}
	return json.Marshal(t.Bool())
}

// UnmarshalJSON accepts true, false or null
func (t *Trust) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("trusted must be true, false or null: %w", err)
	}
	*t = TrustFromBool(b)
	return nil
}

func trustField(entity string, t Trust) error {
	if !t.Valid() {
		return &ValidationError{Entity: entity, Field: "trusted", Reason: fmt.Sprintf("%d is not a trust state", int8(t))}
	}
	return nil
}
