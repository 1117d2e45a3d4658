package domain

import (
	"fmt"
	"net"
	"net/netip"
	"strings"
	"unicode/utf8"
)

// Column widths carried over from the inventory schema
const (
	MaxNameLen        = 255
	MaxHostnameLen    = 4096
	MaxAssetTagLen    = 4096
	MaxOrgAssetTagLen = 18
	MaxDNSServers     = 3
)

func required(entity, field, value string, max int) error {
	if value == "" {
		return &ConstraintError{Entity: entity, Field: field, Reason: "is required"}
	}
	return maxLen(entity, field, value, max)
}

func maxLen(entity, field, value string, max int) error {
	if n := utf8.RuneCountInString(value); max > 0 && n > max {
		return &ConstraintError{
			Entity: entity,
			Field:  field,
			Reason: fmt.Sprintf("length %d exceeds %d", n, max),
		}
	}
	return nil
}

func nonNegative(entity, field string, v *int) error {
	if v != nil && *v < 0 {
		return &ConstraintError{Entity: entity, Field: field, Reason: fmt.Sprintf("%d is negative", *v)}
	}
	return nil
}

// CanonicalIP parses an IPv4 or IPv6 literal and returns its canonical
// text form.
func CanonicalIP(value string) (string, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(value))
	if err != nil {
		return "", err
	}
	return addr.String(), nil
}

// CanonicalMAC parses a hardware address and returns it in lower-case
// colon-separated form.
func CanonicalMAC(value string) (string, error) {
	hw, err := net.ParseMAC(strings.TrimSpace(value))
	if err != nil {
		return "", err
	}
	return hw.String(), nil
}

// ipField canonicalizes a required IP field in place
func ipField(entity, field string, value *string) error {
	if *value == "" {
		return &ConstraintError{Entity: entity, Field: field, Reason: "is required"}
	}
	return optionalIPField(entity, field, value)
}

func optionalIPField(entity, field string, value *string) error {
	if *value == "" {
		return nil
	}
	ip, err := CanonicalIP(*value)
	if err != nil {
		return &ValidationError{Entity: entity, Field: field, Reason: fmt.Sprintf("%q is not an IP address", *value)}
	}
	*value = ip
	return nil
}

func macField(entity, field string, value *string) error {
	if *value == "" {
		return &ConstraintError{Entity: entity, Field: field, Reason: "is required"}
	}
	return optionalMACField(entity, field, value)
}

func optionalMACField(entity, field string, value *string) error {
	if *value == "" {
		return nil
	}
	mac, err := CanonicalMAC(*value)
	if err != nil {
		return &ValidationError{Entity: entity, Field: field, Reason: fmt.Sprintf("%q is not a MAC address", *value)}
	}
	*value = mac
	return nil
}

// firstErr returns the first non-nil error
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
