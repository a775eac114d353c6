package providers

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/9seconds/ipintel/intel"
	"github.com/9seconds/ipintel/lookup"
)

const (
	ipapiComFreeEndpoint = "http://ip-api.com/json/"
	ipapiComProEndpoint  = "https://pro.ip-api.com/json/"
	ipapiComFields       = "status,message,countryCode,region,regionName,city,zip,lat,lon,timezone,isp,org,as,reverse,mobile,proxy,hosting"
	ipapiComConfidence   = 0.95
)

type ipapiComResponse struct {
	Status      string            `json:"status"`
	Message     string            `json:"message"`
	CountryCode intel.CountryCode `json:"countryCode"`
	Region      string            `json:"region"`
	RegionName  string            `json:"regionName"`
	City        string            `json:"city"`
	Zip         string            `json:"zip"`
	Lat         float64           `json:"lat"`
	Lon         float64           `json:"lon"`
	Timezone    string            `json:"timezone"`
	ISP         string            `json:"isp"`
	Org         string            `json:"org"`
	AS          string            `json:"as"`
	Reverse     string            `json:"reverse"`
	Mobile      bool              `json:"mobile"`
	Proxy       bool              `json:"proxy"`
	Hosting     bool              `json:"hosting"`
}

type ipapiComProvider struct {
	endpoint string
	apiKey   string
	client   lookup.HTTPClient
}

func (i ipapiComProvider) Name() string {
	return NameIPAPICom
}

func (i ipapiComProvider) Lookup(ctx context.Context, ip net.IP) (lookup.ProviderLookupResult, error) {
	result := lookup.ProviderLookupResult{}
	query := url.Values{}

	query.Set("fields", ipapiComFields)

	if i.apiKey != "" {
		query.Set("key", i.apiKey)
	}

	jsonResponse := ipapiComResponse{}

	if err := getJSON(ctx, i.client, i.endpoint+ip.String()+"?"+query.Encode(), nil, &jsonResponse); err != nil {
		return result, err
	}

	if jsonResponse.Status != "success" {
		return result, fmt.Errorf("%w: %s", ErrProviderFailed, jsonResponse.Message)
	}

	asn, _, _ := strings.Cut(jsonResponse.AS, " ")

	result.CountryCode = jsonResponse.CountryCode
	result.Region = jsonResponse.RegionName
	result.RegionCode = jsonResponse.Region
	result.City = jsonResponse.City
	result.PostalCode = jsonResponse.Zip
	result.Latitude = jsonResponse.Lat
	result.Longitude = jsonResponse.Lon
	result.Timezone = jsonResponse.Timezone
	result.ISP = jsonResponse.ISP
	result.Organization = jsonResponse.Org
	result.ASN = asn
	result.Hostname = jsonResponse.Reverse
	result.IsProxy = jsonResponse.Proxy
	result.IsHosting = jsonResponse.Hosting
	result.IsMobile = jsonResponse.Mobile
	result.Confidence = ipapiComConfidence

	return result, nil
}

// NewIPAPICom returns a new instance of ip-api.com provider. Free
// endpoint is used by default. If api_key parameter is set, pro
// endpoint is used.
func NewIPAPICom(client lookup.HTTPClient, parameters map[string]string) lookup.Provider {
	rv := ipapiComProvider{
		endpoint: ipapiComFreeEndpoint,
		apiKey:   parameters["api_key"],
		client:   client,
	}

	if rv.apiKey != "" {
		rv.endpoint = ipapiComProEndpoint
	}

	return rv
}
