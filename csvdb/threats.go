package csvdb

import (
	"io"

	"github.com/9seconds/ipintel/intel"
	"github.com/juju/errors"
)

// MakeThreatRecord accepts rows either like 'cidr,threat_type' or like
// 'start_ip,finish_ip,threat_type'.
func MakeThreatRecord(data []string) (*Record, error) {
	switch len(data) {
	case 2:
		return NewCIDRRecord(data[1], data[0])
	case 3:
		return NewRecord(data[2], data[0], data[1])
	}

	return nil, errors.Errorf("unexpected number of columns %d", len(data))
}

// ReadThreatNetworks reads CSV threat list and adds its networks into
// given map. It returns a number of rows which were skipped.
func ReadThreatNetworks(reader io.Reader, networks map[intel.ThreatType][]string) (int, error) {
	csvReader := NewCSVReader(reader, MakeThreatRecord)

	for {
		record, err := csvReader.Read()

		switch {
		case err == io.EOF:
			return csvReader.Skipped(), nil
		case err != nil:
			return csvReader.Skipped(), err
		case record == nil:
			continue
		}

		subnets, err := record.GetSubnets()
		if err != nil {
			return csvReader.Skipped(), errors.Annotatef(err, "cannot convert %s-%s", record.StartIP, record.FinishIP)
		}

		networks[record.Threat] = append(networks[record.Threat], subnets...)
	}
}
