package intel

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// InRange checks if IPv4 address belongs to the given CIDR block. Both
// address and base address of the block are converted into big-endian
// uint32 and compared under the mask of prefix length.
//
// IPv6 is not supported here: special IPv6 ranges are detected with
// HasIPv6Prefix on their textual form.
func InRange(address, cidr string) (bool, error) {
	addr, err := ipv4ToUint32(address)
	if err != nil {
		return false, err
	}

	base, prefix, err := parseIPv4CIDR(cidr)
	if err != nil {
		return false, err
	}

	mask := prefixMask(prefix)

	return addr&mask == base&mask, nil
}

// HasIPv6Prefix checks if lowercased textual form of the address starts
// with a given prefix. This is an approximation of IPv6 CIDR matching
// which is good enough for special-purpose ranges like fe80::/10 or
// 2001:db8::/32 written in their canonical form.
func HasIPv6Prefix(address, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(address), strings.ToLower(prefix))
}

// ParseIP converts a valid address into net.IP. Unlike net.ParseIP it
// accepts IPv4 octets with leading zeroes (08.8.8.8) as Classify does.
// Returns nil if address is not valid.
func ParseIP(address string) net.IP {
	if !IsValidAddress(address) {
		return nil
	}

	if ipv4Regexp.MatchString(address) {
		value, err := ipv4ToUint32(address)
		if err != nil {
			return nil
		}

		return uint32ToIPv4(value)
	}

	return net.ParseIP(address)
}

// canonicalIPv4 returns dotted-decimal form without leading zeroes.
// Non-IPv4 addresses are returned as is.
func canonicalIPv4(address string) string {
	value, err := ipv4ToUint32(address)
	if err != nil {
		return address
	}

	return uint32ToIPv4(value).String()
}

func uint32ToIPv4(value uint32) net.IP {
	return net.IPv4(byte(value>>24), byte(value>>16), byte(value>>8), byte(value))
}

func parseIPv4CIDR(cidr string) (uint32, uint, error) {
	chunks := strings.SplitN(cidr, "/", 2)
	prefix := uint64(32)

	if len(chunks) == 2 {
		value, err := strconv.ParseUint(chunks[1], 10, 8)
		if err != nil || value > 32 {
			return 0, 0, fmt.Errorf("incorrect prefix length of %s: %w", cidr, ErrInvalidCIDR)
		}

		prefix = value
	}

	base, err := ipv4ToUint32(chunks[0])
	if err != nil {
		return 0, 0, fmt.Errorf("incorrect base address of %s: %w", cidr, ErrInvalidCIDR)
	}

	return base, uint(prefix), nil
}

func prefixMask(prefix uint) uint32 {
	if prefix == 0 {
		return 0
	}

	return ^uint32(0) << (32 - prefix)
}

func ipv4ToUint32(address string) (uint32, error) {
	octets := strings.Split(address, ".")
	if len(octets) != 4 {
		return 0, fmt.Errorf("%q is not ipv4: %w", address, ErrInvalidAddress)
	}

	var rv uint32

	for _, v := range octets {
		octet, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("%q has incorrect octet %q: %w", address, v, ErrInvalidAddress)
		}

		rv = rv<<8 | uint32(octet)
	}

	return rv, nil
}
