package providers

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/9seconds/ipintel/intel"
	"github.com/9seconds/ipintel/lookup"
)

const ipinfoConfidence = 0.85

type ipinfoResponse struct {
	Hostname string            `json:"hostname"`
	City     string            `json:"city"`
	Region   string            `json:"region"`
	Country  intel.CountryCode `json:"country"`
	Loc      string            `json:"loc"`
	Org      string            `json:"org"`
	Postal   string            `json:"postal"`
	Timezone string            `json:"timezone"`
	Bogon    bool              `json:"bogon"`
}

type ipinfoProvider struct {
	authToken string
	client    lookup.HTTPClient
}

func (i ipinfoProvider) Name() string {
	return NameIPInfo
}

func (i ipinfoProvider) Lookup(ctx context.Context, ip net.IP) (lookup.ProviderLookupResult, error) {
	result := lookup.ProviderLookupResult{}
	jsonResponse := ipinfoResponse{}
	headers := map[string]string{
		"Authorization": "Bearer " + i.authToken,
	}

	if err := getJSON(ctx, i.client, "https://ipinfo.io/"+ip.String(), headers, &jsonResponse); err != nil {
		return result, err
	}

	if jsonResponse.Bogon {
		return result, fmt.Errorf("%w: bogon address", ErrProviderFailed)
	}

	result.CountryCode = jsonResponse.Country
	result.Region = jsonResponse.Region
	result.City = jsonResponse.City
	result.PostalCode = jsonResponse.Postal
	result.Timezone = jsonResponse.Timezone
	result.Hostname = jsonResponse.Hostname
	result.Confidence = ipinfoConfidence

	if lat, lon, ok := strings.Cut(jsonResponse.Loc, ","); ok {
		result.Latitude, _ = strconv.ParseFloat(lat, 64)
		result.Longitude, _ = strconv.ParseFloat(lon, 64)
	}

	// org is 'AS14618 Amazon.com, Inc.'
	if asn, _ := intel.ParseASN(jsonResponse.Org); asn != "" {
		_, name, _ := strings.Cut(jsonResponse.Org, " ")

		result.ASN = asn
		result.ISP = strings.TrimSpace(name)
	} else {
		result.ISP = jsonResponse.Org
	}

	result.Organization = result.ISP

	return result, nil
}

// NewIPInfo returns a new instance of ipinfo.io provider. auth_token
// parameter is mandatory.
func NewIPInfo(client lookup.HTTPClient, parameters map[string]string) (lookup.Provider, error) {
	token := parameters["auth_token"]
	if token == "" {
		return nil, ErrAuthTokenIsRequired
	}

	return ipinfoProvider{
		authToken: token,
		client:    client,
	}, nil
}
