package intel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/EvilSuperstars/go-cidrman"
	"github.com/asergeyev/nradix"
)

// ThreatType is a kind of malicious activity associated with a network.
type ThreatType string

// Threat types of the static threat table.
const (
	ThreatTorExit       ThreatType = "tor_exit"
	ThreatCommercialVPN ThreatType = "commercial_vpn"
	ThreatMalwareC2     ThreatType = "malware_c2"
	ThreatBotnet        ThreatType = "botnet"
	ThreatScanner       ThreatType = "scanner"
)

const (
	threatDetectedScore     = 60
	threatDefaultConfidence = 70
	threatTorConfidence     = 90
)

// ThreatReport is a result of threat table lookup.
type ThreatReport struct {
	Detected   bool       `json:"threat_detected"`
	Type       ThreatType `json:"threat_type,omitempty"`
	Score      int        `json:"threat_score"`
	Confidence int        `json:"confidence"`
	IsTor      bool       `json:"is_tor"`
	IsVPN      bool       `json:"is_vpn"`
}

// ThreatTable is a radix tree of IPv4 networks with known bad
// reputation. It is read-only after creation.
type ThreatTable struct {
	tree *nradix.Tree
}

// Lookup returns a threat report for the address. The most specific
// network wins. IPv6 addresses and addresses out of the table get an
// empty report.
func (t *ThreatTable) Lookup(address string) ThreatReport {
	rv := ThreatReport{
		Confidence: threatDefaultConfidence,
	}

	if _, err := ipv4ToUint32(address); err != nil {
		return rv
	}

	value, err := t.tree.FindCIDR(canonicalIPv4(address))
	if err != nil || value == nil {
		return rv
	}

	rv.Type = value.(ThreatType)
	rv.Detected = true
	rv.Score = threatDetectedScore

	switch rv.Type {
	case ThreatTorExit:
		rv.IsTor = true
		rv.Confidence = threatTorConfidence
	case ThreatCommercialVPN:
		rv.IsVPN = true
	}

	return rv
}

// NewThreatTable builds a table from threat type to IPv4 networks.
// Adjacent networks of the same type are merged.
func NewThreatTable(networks map[ThreatType][]string) (*ThreatTable, error) {
	tree := nradix.NewTree(0)
	types := make([]string, 0, len(networks))

	for k := range networks {
		types = append(types, string(k))
	}

	sort.Strings(types)

	for _, name := range types {
		merged, err := cidrman.MergeCIDRs(networks[ThreatType(name)])
		if err != nil {
			return nil, fmt.Errorf("cannot merge networks of %s: %w", name, err)
		}

		for _, cidr := range merged {
			if err := tree.AddCIDR(cidr, ThreatType(name)); err != nil {
				return nil, fmt.Errorf("cannot add %s of %s: %w", cidr, name, err)
			}
		}
	}

	return &ThreatTable{tree: tree}, nil
}

var defaultThreatTable = func() *ThreatTable {
	table, err := NewThreatTable(defaultThreatNetworks)
	if err != nil {
		panic(err)
	}

	return table
}()

// LookupThreat checks the address against built-in threat table.
func LookupThreat(address string) ThreatReport {
	return defaultThreatTable.Lookup(address)
}

// DefaultThreatTable returns a table of built-in networks.
func DefaultThreatTable() *ThreatTable {
	return defaultThreatTable
}

// DefaultThreatNetworks returns a copy of built-in networks. It is
// useful to extend built-in table with custom networks.
func DefaultThreatNetworks() map[ThreatType][]string {
	rv := make(map[ThreatType][]string, len(defaultThreatNetworks))

	for k, v := range defaultThreatNetworks {
		rv[k] = append([]string(nil), v...)
	}

	return rv
}

// ParseThreatType returns a known threat type by its name.
func ParseThreatType(name string) (ThreatType, bool) {
	switch value := ThreatType(strings.ToLower(strings.TrimSpace(name))); value {
	case ThreatTorExit, ThreatCommercialVPN, ThreatMalwareC2, ThreatBotnet, ThreatScanner:
		return value, true
	}

	return "", false
}

var defaultThreatNetworks = map[ThreatType][]string{
	ThreatTorExit: {
		"185.220.0.0/16",
		"185.100.0.0/16",
		"109.70.0.0/16",
		"199.249.0.0/16",
		"45.141.0.0/16",
		"185.220.101.0/24",
		"185.220.102.0/24",
		"199.87.154.0/24",
		"104.244.72.0/24",
		"23.129.64.0/24",
		"185.165.169.0/24",
		"94.230.208.0/24",
		"162.247.74.0/24",
		"198.98.51.0/24",
		"104.244.77.0/24",
		"199.195.250.0/24",
	},
	ThreatCommercialVPN: {
		"104.238.0.0/16",
		"107.189.0.0/16",
	},
	ThreatMalwareC2: {
		"185.234.218.0/24",
		"185.159.158.0/24",
		"89.187.161.0/24",
		"185.220.103.0/24",
		"104.244.73.0/24",
		"199.87.155.0/24",
	},
	ThreatBotnet: {
		"89.248.165.0/24",
		"185.234.219.0/24",
		"89.248.166.0/24",
		"104.248.50.0/24",
		"185.159.159.0/24",
	},
	ThreatScanner: {
		"104.248.49.0/24",
		"185.234.221.0/24",
		"89.248.168.0/24",
		"104.248.52.0/24",
		"185.159.161.0/24",
	},
}
