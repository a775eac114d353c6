package intel

import "errors"

var (
	// ErrInvalidAddress is returned if a string is neither IPv4 nor
	// IPv6 literal.
	ErrInvalidAddress = errors.New("invalid ip address")

	// ErrInvalidCIDR is returned if a CIDR block cannot be parsed as
	// base/prefix.
	ErrInvalidCIDR = errors.New("invalid cidr")
)
