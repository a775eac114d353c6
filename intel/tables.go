package intel

import "regexp"

type ipv4SpecialRange struct {
	category Category
	ranges   []string
	message  string
	purpose  string
}

type ipv6SpecialPrefix struct {
	category Category
	prefixes []string
	network  string
	message  string
	purpose  string
}

// order matters: documentation ranges are checked before the rest
var ipv4SpecialRanges = []ipv4SpecialRange{
	{
		category: CategoryDocumentation,
		ranges:   []string{"192.0.2.0/24", "198.51.100.0/24", "203.0.113.0/24"},
		message:  "Reserved for documentation/testing (RFC 5737)",
		purpose:  "TEST-NET",
	},
	{
		category: CategoryPrivate,
		ranges:   []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"},
		message:  "Private network IP address (RFC 1918)",
		purpose:  "Private Network",
	},
	{
		category: CategoryLoopback,
		ranges:   []string{"127.0.0.0/8"},
		message:  "Loopback address (localhost)",
		purpose:  "Loopback",
	},
	{
		category: CategoryLinkLocal,
		ranges:   []string{"169.254.0.0/16"},
		message:  "Link-local address (APIPA)",
		purpose:  "Link-Local",
	},
	{
		category: CategoryMulticast,
		ranges:   []string{"224.0.0.0/4"},
		message:  "Multicast address",
		purpose:  "Multicast",
	},
	{
		category: CategoryReserved,
		ranges:   []string{"240.0.0.0/4"},
		message:  "Reserved for future use",
		purpose:  "Reserved",
	},
}

var ipv6SpecialPrefixes = []ipv6SpecialPrefix{
	{
		category: CategoryLinkLocal,
		prefixes: []string{"fe80:"},
		network:  "fe80::/10",
		message:  "IPv6 link-local address",
		purpose:  "Link-Local",
	},
	{
		category: CategoryPrivate,
		prefixes: []string{"fc", "fd"},
		network:  "fc00::/7",
		message:  "IPv6 unique local address",
		purpose:  "Private/ULA",
	},
	{
		category: CategoryMulticast,
		prefixes: []string{"ff"},
		network:  "ff00::/8",
		message:  "IPv6 multicast address",
		purpose:  "Multicast",
	},
	{
		category: CategoryDocumentation,
		prefixes: []string{"2001:db8:"},
		network:  "2001:db8::/32",
		message:  "IPv6 documentation address (RFC 3849)",
		purpose:  "Documentation",
	},
}

var vpnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bvpn\b`),
	regexp.MustCompile(`(?i)nordvpn`),
	regexp.MustCompile(`(?i)expressvpn`),
	regexp.MustCompile(`(?i)surfshark`),
	regexp.MustCompile(`(?i)cyberghost`),
	regexp.MustCompile(`(?i)purevpn`),
	regexp.MustCompile(`(?i)hotspot.*shield`),
	regexp.MustCompile(`(?i)tunnelbear`),
	regexp.MustCompile(`(?i)windscribe`),
	regexp.MustCompile(`(?i)protonvpn`),
	regexp.MustCompile(`(?i)\bproxy\b`),
	regexp.MustCompile(`(?i)proxies`),
	regexp.MustCompile(`(?i)anonymous.*proxy`),
	regexp.MustCompile(`(?i)tor.*exit`),
	regexp.MustCompile(`(?i)tor.*relay`),
	regexp.MustCompile(`(?i)\bhosting\b`),
	regexp.MustCompile(`(?i)datacenter`),
	regexp.MustCompile(`(?i)data.*center`),
	regexp.MustCompile(`(?i)cloud.*hosting`),
	regexp.MustCompile(`(?i)digital.*ocean`),
	regexp.MustCompile(`(?i)amazon.*aws`),
	regexp.MustCompile(`(?i)google.*cloud`),
	regexp.MustCompile(`(?i)microsoft.*azure`),
	regexp.MustCompile(`(?i)linode`),
	regexp.MustCompile(`(?i)vultr`),
	regexp.MustCompile(`(?i)\bovh\b`),
	regexp.MustCompile(`(?i)hetzner`),
	regexp.MustCompile(`(?i)scaleway`),
}

var hostingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)hosting`),
	regexp.MustCompile(`(?i)datacenter`),
	regexp.MustCompile(`(?i)cloud`),
	regexp.MustCompile(`(?i)server`),
	regexp.MustCompile(`(?i)vps`),
}

var suspiciousASNs = map[string]struct{}{
	"AS6939":  {},
	"AS209":   {},
	"AS174":   {},
	"AS3356":  {},
	"AS1299":  {},
	"AS701":   {},
	"AS14061": {},
	"AS20473": {},
	"AS63949": {},
	"AS16276": {},
	"AS24940": {},
	"AS16509": {},
	"AS8075":  {},
	"AS51167": {},
	"AS8100":  {},
	"AS12876": {},
}

var knownVPNASNs = map[string]string{
	"AS6939":  "Hurricane Electric (VPN Infrastructure)",
	"AS14061": "DigitalOcean (VPN Hosting)",
	"AS20473": "Choopa/Vultr (VPN Hosting)",
	"AS63949": "Linode (VPN Hosting)",
	"AS16276": "OVH SAS (VPN Hosting)",
	"AS24940": "Hetzner Online (VPN Hosting)",
	"AS51167": "Contabo (VPN Hosting)",
	"AS12876": "Scaleway (VPN Hosting)",
}

var legitimateDNSASNs = map[string]struct{}{
	"AS15169": {}, // Google
	"AS13335": {}, // Cloudflare
	"AS36692": {}, // OpenDNS
	"AS19281": {}, // Quad9
	"AS1101":  {}, // IBM Quad9
}

// lowercased substrings of ISP names
var legitimateProviders = []string{
	"google",
	"cloudflare",
	"opendns",
	"quad9",
	"amazon cloudfront",
}

var torExitNodes = map[string]struct{}{
	"185.220.101.1":  {},
	"185.220.101.2":  {},
	"185.220.102.8":  {},
	"185.100.87.202": {},
	"199.249.230.68": {},
	"45.141.215.100": {},
	"199.87.154.255": {},
	"23.129.64.1":    {},
	"162.247.74.200": {},
}

var asnOrganizations = map[string]string{
	"AS15169": "Google LLC",
	"AS13335": "Cloudflare Inc",
	"AS8075":  "Microsoft Corporation",
	"AS16509": "Amazon.com Inc",
	"AS32934": "Meta Platforms Inc",
	"AS714":   "Apple Inc",
	"AS36459": "GitHub Inc",
	"AS2906":  "Netflix Inc",
	"AS14061": "DigitalOcean LLC",
	"AS20473": "Choopa LLC",
	"AS63949": "Linode LLC",
	"AS16276": "OVH SAS",
	"AS24940": "Hetzner Online GmbH",
	"AS51167": "Contabo GmbH",
	"AS12876": "Scaleway S.A.S.",
	"AS55836": "Reliance Jio Infocomm Limited",
	"AS9498":  "Bharti Airtel Ltd",
}
