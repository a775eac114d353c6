package providers

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/9seconds/ipintel/intel"
	"github.com/9seconds/ipintel/lookup"
)

const ipapiCoConfidence = 0.9

type ipapiCoResponse struct {
	Error       bool              `json:"error"`
	Reason      string            `json:"reason"`
	CountryCode intel.CountryCode `json:"country_code"`
	Region      string            `json:"region"`
	RegionCode  string            `json:"region_code"`
	City        string            `json:"city"`
	Postal      string            `json:"postal"`
	Latitude    float64           `json:"latitude"`
	Longitude   float64           `json:"longitude"`
	Timezone    string            `json:"timezone"`
	Org         string            `json:"org"`
	ASN         string            `json:"asn"`
}

type ipapiCoProvider struct {
	apiKey string
	client lookup.HTTPClient
}

func (i ipapiCoProvider) Name() string {
	return NameIPAPICo
}

func (i ipapiCoProvider) Lookup(ctx context.Context, ip net.IP) (lookup.ProviderLookupResult, error) {
	result := lookup.ProviderLookupResult{}
	endpoint := "https://ipapi.co/" + ip.String() + "/json/"

	if i.apiKey != "" {
		endpoint += "?" + url.Values{"key": []string{i.apiKey}}.Encode()
	}

	jsonResponse := ipapiCoResponse{}

	if err := getJSON(ctx, i.client, endpoint, nil, &jsonResponse); err != nil {
		return result, err
	}

	if jsonResponse.Error {
		return result, fmt.Errorf("%w: %s", ErrProviderFailed, jsonResponse.Reason)
	}

	result.CountryCode = jsonResponse.CountryCode
	result.Region = jsonResponse.Region
	result.RegionCode = jsonResponse.RegionCode
	result.City = jsonResponse.City
	result.PostalCode = jsonResponse.Postal
	result.Latitude = jsonResponse.Latitude
	result.Longitude = jsonResponse.Longitude
	result.Timezone = jsonResponse.Timezone
	result.ISP = jsonResponse.Org
	result.Organization = jsonResponse.Org
	result.ASN = jsonResponse.ASN
	result.Confidence = ipapiCoConfidence

	return result, nil
}

// NewIPAPICo returns a new instance of ipapi.co provider. api_key
// parameter is optional.
func NewIPAPICo(client lookup.HTTPClient, parameters map[string]string) lookup.Provider {
	return ipapiCoProvider{
		apiKey: parameters["api_key"],
		client: client,
	}
}
