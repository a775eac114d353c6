package csvdb

import (
	"net"

	cidrman "github.com/EvilSuperstars/go-cidrman"

	"github.com/9seconds/ipintel/intel"
	"github.com/juju/errors"
)

// Record presents an extracted data from CSV record.
type Record struct {
	Threat   intel.ThreatType
	StartIP  string
	FinishIP string
}

// GetSubnets returns non-overlapping subnets of the given Record.
func (r *Record) GetSubnets() (subnets []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			switch x := rec.(type) {
			case string:
				err = errors.Annotate(errors.New(x), "incorrect subnets")
			case error:
				err = errors.Annotate(x, "incorrect subnets")
			}
		}
	}()

	subnets, err = cidrman.IPRangeToCIDRs(r.StartIP, r.FinishIP)

	return
}

// NewRecord creates new CSV record.
func NewRecord(threat, startIP, finishIP string) (*Record, error) {
	threatType, ok := intel.ParseThreatType(threat)
	if !ok {
		return nil, errors.Errorf("unknown threat type %s", threat)
	}

	if !ipOk(startIP) {
		return nil, errors.New("start IP is not correct")
	}

	if !ipOk(finishIP) {
		return nil, errors.New("finish IP is not correct")
	}

	return &Record{threatType, startIP, finishIP}, nil
}

// NewCIDRRecord creates new CSV record from a network like
// 192.168.0.0/24.
func NewCIDRRecord(threat, cidr string) (*Record, error) {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil || network.IP.To4() == nil {
		return nil, errors.Errorf("incorrect network %s", cidr)
	}

	first := network.IP.To4()
	last := make(net.IP, len(first))

	for i := range first {
		last[i] = first[i] | ^network.Mask[i]
	}

	return NewRecord(threat, first.String(), last.String())
}

func ipOk(ip string) bool {
	parsed := net.ParseIP(ip)

	return parsed != nil && parsed.To4() != nil
}
