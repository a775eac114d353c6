package providers

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/9seconds/ipintel/intel"
	"github.com/9seconds/ipintel/lookup"
	"github.com/oschwald/geoip2-golang"
	"github.com/spf13/afero"
)

const mmdbConfidence = 0.8

type mmdbProvider struct {
	cityReader   *geoip2.Reader
	asnReader    *geoip2.Reader
	readersMutex sync.RWMutex
}

func (m *mmdbProvider) Name() string {
	return NameMMDB
}

func (m *mmdbProvider) Shutdown() {
	m.readersMutex.Lock()
	defer m.readersMutex.Unlock()

	if m.cityReader != nil {
		m.cityReader.Close()
		m.cityReader = nil
	}

	if m.asnReader != nil {
		m.asnReader.Close()
		m.asnReader = nil
	}
}

func (m *mmdbProvider) Lookup(ctx context.Context, ip net.IP) (lookup.ProviderLookupResult, error) {
	m.readersMutex.RLock()
	defer m.readersMutex.RUnlock()

	rv := lookup.ProviderLookupResult{}

	if m.cityReader == nil {
		return rv, ErrDatabaseIsNotReadyYet
	}

	record, err := m.cityReader.City(ip)
	if err != nil {
		return rv, fmt.Errorf("cannot lookup this ip address: %w", err)
	}

	if record.Country.IsoCode == "" {
		return rv, ErrUnknownIP
	}

	rv.CountryCode = intel.Alpha2ToCountryCode(record.Country.IsoCode)
	rv.City = record.City.Names["en"]
	rv.PostalCode = record.Postal.Code
	rv.Latitude = record.Location.Latitude
	rv.Longitude = record.Location.Longitude
	rv.Timezone = record.Location.TimeZone
	rv.IsProxy = record.Traits.IsAnonymousProxy
	rv.Confidence = mmdbConfidence

	if len(record.Subdivisions) > 0 {
		rv.Region = record.Subdivisions[0].Names["en"]
		rv.RegionCode = record.Subdivisions[0].IsoCode
	}

	if m.asnReader == nil {
		return rv, nil
	}

	asnRecord, err := m.asnReader.ASN(ip)
	if err != nil {
		return rv, fmt.Errorf("cannot lookup asn of this ip address: %w", err)
	}

	if asnRecord.AutonomousSystemNumber != 0 {
		rv.ASN = "AS" + strconv.FormatUint(uint64(asnRecord.AutonomousSystemNumber), 10)
		rv.ISP = asnRecord.AutonomousSystemOrganization
		rv.Organization = asnRecord.AutonomousSystemOrganization
	}

	return rv, nil
}

func openMMDB(fs afero.Fs, path string) (*geoip2.Reader, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	reader, err := geoip2.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize a reader of %s: %w", path, err)
	}

	return reader, nil
}

// NewMMDB returns a provider which works with local MaxMind databases.
// city_path parameter is mandatory, asn_path is optional. Paths are
// resolved with a given filesystem.
func NewMMDB(fs afero.Fs, parameters map[string]string) (lookup.Provider, error) {
	cityPath := parameters["city_path"]
	if cityPath == "" {
		return nil, ErrDatabasePathIsRequired
	}

	cityReader, err := openMMDB(fs, cityPath)
	if err != nil {
		return nil, err
	}

	rv := &mmdbProvider{
		cityReader: cityReader,
	}

	if asnPath := parameters["asn_path"]; asnPath != "" {
		asnReader, err := openMMDB(fs, asnPath)
		if err != nil {
			cityReader.Close()

			return nil, err
		}

		rv.asnReader = asnReader
	}

	return rv, nil
}
