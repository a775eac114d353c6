package lookup

import "github.com/9seconds/ipintel/intel"

// ProviderLookupResult is a normalized answer of a single provider.
// Empty strings and zero values mean that provider knows nothing
// about this attribute.
type ProviderLookupResult struct {
	CountryCode intel.CountryCode
	Region      string
	RegionCode  string
	City        string
	PostalCode  string
	Latitude    float64
	Longitude   float64
	Timezone    string

	ISP          string
	Organization string
	ASN          string
	Hostname     string

	IsProxy   bool
	IsHosting bool
	IsMobile  bool

	// Confidence is a self-assessment of the provider in [0, 1].
	Confidence float64
}

// Country is a description of the resolved country.
type Country struct {
	Alpha2Code   string `json:"alpha2_code"`
	Alpha3Code   string `json:"alpha3_code"`
	CommonName   string `json:"common_name"`
	OfficialName string `json:"official_name"`
}

// Location is a merged geolocation of the address.
type Location struct {
	Country    Country            `json:"country"`
	Continent  string             `json:"continent"`
	Currency   string             `json:"currency"`
	Region     string             `json:"region"`
	RegionCode string             `json:"region_code"`
	City       string             `json:"city"`
	PostalCode string             `json:"postal_code"`
	Latitude   float64            `json:"latitude"`
	Longitude  float64            `json:"longitude"`
	Timezone   string             `json:"timezone"`
	Accuracy   intel.AccuracyInfo `json:"accuracy"`
}

// Network describes an operator of the address.
type Network struct {
	ISP          string           `json:"isp"`
	Organization string           `json:"organization"`
	ASN          string           `json:"asn"`
	ASNumber     uint64           `json:"asn_number"`
	Hostname     string           `json:"hostname,omitempty"`
	Connection   intel.Connection `json:"connection"`
}

// Security is a set of heuristic verdicts.
type Security struct {
	Features intel.FeatureBag   `json:"features"`
	Risk     intel.RiskVerdict  `json:"risk"`
	Threat   intel.ThreatReport `json:"threat"`
}

// ProviderDetail is a short summary of what a single provider has
// responded.
type ProviderDetail struct {
	ProviderName string            `json:"provider_name"`
	CountryCode  intel.CountryCode `json:"country_code"`
	City         string            `json:"city"`
	ISP          string            `json:"isp"`
	Failed       bool              `json:"failed"`
}

// Report is a result of address inspection. Location, Network,
// Security and Compliance are nil for addresses which cannot be
// geolocated.
type Report struct {
	IP             string                      `json:"ip"`
	Classification intel.AddressClassification `json:"classification"`
	Notice         *intel.SpecialNotice        `json:"notice,omitempty"`
	Location       *Location                   `json:"location,omitempty"`
	Network        *Network                    `json:"network,omitempty"`
	Security       *Security                   `json:"security,omitempty"`
	Compliance     *intel.GDPR                 `json:"compliance,omitempty"`
	Device         *intel.DeviceInfo           `json:"device,omitempty"`
	Details        []ProviderDetail            `json:"details,omitempty"`
}

// OK tells if report has resolved country.
func (r *Report) OK() bool {
	return r.Location != nil && r.Location.Country.Alpha2Code != ""
}

// Geolocated is true if upstream providers were asked about this
// address.
func (r *Report) Geolocated() bool {
	return r.Classification.GeolocationEligible
}

// BatchItem is a result of inspection of a single address of the batch.
type BatchItem struct {
	Address string  `json:"address"`
	Report  *Report `json:"report,omitempty"`
	Err     error   `json:"-"`
}
