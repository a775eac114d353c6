package intel

import (
	"fmt"
	"regexp"
	"strings"
)

// Category is a class of IP address from the point of view of
// geolocation.
type Category string

// A list of supported categories. Exactly one is assigned to each
// classified address.
const (
	CategoryPublic        Category = "public"
	CategoryPrivate       Category = "private"
	CategoryLoopback      Category = "loopback"
	CategoryLinkLocal     Category = "link_local"
	CategoryMulticast     Category = "multicast"
	CategoryReserved      Category = "reserved"
	CategoryDocumentation Category = "documentation"
	CategoryBroadcast     Category = "broadcast"
)

const ipv4Broadcast = "255.255.255.255"

var (
	ipv4Regexp = regexp.MustCompile(`^(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`)

	ipv6Regexp = regexp.MustCompile(`^(` +
		`([0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}|` +
		`([0-9a-fA-F]{1,4}:){1,7}:|` +
		`([0-9a-fA-F]{1,4}:){1,6}:[0-9a-fA-F]{1,4}|` +
		`([0-9a-fA-F]{1,4}:){1,5}(:[0-9a-fA-F]{1,4}){1,2}|` +
		`([0-9a-fA-F]{1,4}:){1,4}(:[0-9a-fA-F]{1,4}){1,3}|` +
		`([0-9a-fA-F]{1,4}:){1,3}(:[0-9a-fA-F]{1,4}){1,4}|` +
		`([0-9a-fA-F]{1,4}:){1,2}(:[0-9a-fA-F]{1,4}){1,5}|` +
		`[0-9a-fA-F]{1,4}:((:[0-9a-fA-F]{1,4}){1,6})|` +
		`:((:[0-9a-fA-F]{1,4}){1,7}|:)|` +
		`fe80:(:[0-9a-fA-F]{0,4}){0,4}%[0-9a-zA-Z]{1,}|` +
		`::(ffff(:0{1,4}){0,1}:){0,1}((25[0-5]|(2[0-4]|1{0,1}[0-9]){0,1}[0-9])\.){3}(25[0-5]|(2[0-4]|1{0,1}[0-9]){0,1}[0-9])|` +
		`([0-9a-fA-F]{1,4}:){1,4}:((25[0-5]|(2[0-4]|1{0,1}[0-9]){0,1}[0-9])\.){3}(25[0-5]|(2[0-4]|1{0,1}[0-9]){0,1}[0-9])` +
		`)$`)
)

// AddressClassification is a verdict of Classify. It is a value type:
// it is never mutated after creation.
type AddressClassification struct {
	Address             string   `json:"ip"`
	Version             int      `json:"ip_version"`
	Category            Category `json:"type"`
	GeolocationEligible bool     `json:"can_geolocate"`
	MatchedRange        string   `json:"network_range,omitempty"`
	Message             string   `json:"message"`
	SpecialPurpose      string   `json:"special_purpose,omitempty"`
}

// SpecialNotice contains human readable hints for addresses which
// cannot be geolocated.
type SpecialNotice struct {
	Usage    string `json:"usage,omitempty"`
	RFC      string `json:"rfc,omitempty"`
	Location string `json:"location,omitempty"`
}

// SpecialNotice returns hints on what given address class is used for.
// Public addresses and exotic categories have no hints.
func (a AddressClassification) SpecialNotice() SpecialNotice {
	switch a.Category {
	case CategoryDocumentation:
		return SpecialNotice{
			Usage: "Used in documentation and examples only. Never appears on the Internet.",
			RFC:   "RFC 5737 (IPv4) or RFC 3849 (IPv6)",
		}
	case CategoryPrivate:
		return SpecialNotice{
			Usage: "Used within private networks. Not routable on the Internet.",
			RFC:   "RFC 1918 (IPv4) or RFC 4193 (IPv6)",
		}
	case CategoryLoopback:
		return SpecialNotice{
			Usage:    "Loopback address. Routes traffic to the local machine.",
			Location: "localhost (your computer)",
		}
	case CategoryLinkLocal:
		return SpecialNotice{
			Usage: "Link-local address. Used for local network only.",
		}
	}

	return SpecialNotice{}
}

// IsValidAddress checks if a string is IPv4 or IPv6 literal.
func IsValidAddress(address string) bool {
	return ipv4Regexp.MatchString(address) || ipv6Regexp.MatchString(address)
}

// Classify assigns a category to the address and decides if it makes
// sense to geolocate it. Only public addresses are eligible.
//
// Ranges are checked in a fixed order, first match wins.
func Classify(address string) (AddressClassification, error) {
	switch {
	case ipv4Regexp.MatchString(address):
		return classifyIPv4(address)
	case ipv6Regexp.MatchString(address):
		return classifyIPv6(address), nil
	}

	return AddressClassification{}, fmt.Errorf("cannot classify %q: %w", address, ErrInvalidAddress)
}

func classifyIPv4(address string) (AddressClassification, error) {
	for _, rule := range ipv4SpecialRanges {
		for _, cidr := range rule.ranges {
			matched, err := InRange(address, cidr)
			if err != nil {
				return AddressClassification{}, fmt.Errorf("cannot classify %q: %w", address, ErrInvalidAddress)
			}

			if matched {
				return AddressClassification{
					Address:        address,
					Version:        4,
					Category:       rule.category,
					MatchedRange:   cidr,
					Message:        rule.message,
					SpecialPurpose: rule.purpose,
				}, nil
			}
		}
	}

	// 255.255.255.255 is caught by 240.0.0.0/4 above, order is kept as is.
	if address == ipv4Broadcast {
		return AddressClassification{
			Address:        address,
			Version:        4,
			Category:       CategoryBroadcast,
			Message:        "Broadcast address",
			SpecialPurpose: "Broadcast",
		}, nil
	}

	return AddressClassification{
		Address:             address,
		Version:             4,
		Category:            CategoryPublic,
		GeolocationEligible: true,
		Message:             "Public IP address",
	}, nil
}

func classifyIPv6(address string) AddressClassification {
	lowered := strings.ToLower(address)

	if lowered == "::1" || lowered == "0:0:0:0:0:0:0:1" {
		return AddressClassification{
			Address:        address,
			Version:        6,
			Category:       CategoryLoopback,
			Message:        "IPv6 loopback address (::1)",
			SpecialPurpose: "Loopback",
		}
	}

	for _, rule := range ipv6SpecialPrefixes {
		for _, prefix := range rule.prefixes {
			if HasIPv6Prefix(lowered, prefix) {
				return AddressClassification{
					Address:        address,
					Version:        6,
					Category:       rule.category,
					MatchedRange:   rule.network,
					Message:        rule.message,
					SpecialPurpose: rule.purpose,
				}
			}
		}
	}

	return AddressClassification{
		Address:             address,
		Version:             6,
		Category:            CategoryPublic,
		GeolocationEligible: true,
		Message:             "Public IPv6 address",
	}
}
