package providers_test

import (
	"context"
	"net"
	"net/http"
	"testing"

	"github.com/9seconds/ipintel/lookup"
	"github.com/9seconds/ipintel/providers"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"
)

type MockedIPAPICoTestSuite struct {
	MockedProviderTestSuite

	prov lookup.Provider
}

func (suite *MockedIPAPICoTestSuite) SetupTest() {
	suite.MockedProviderTestSuite.SetupTest()

	suite.prov = providers.NewIPAPICo(suite.http, map[string]string{})
}

func (suite *MockedIPAPICoTestSuite) TestName() {
	suite.Equal(providers.NameIPAPICo, suite.prov.Name())
}

func (suite *MockedIPAPICoTestSuite) TestLookupFailed() {
	httpmock.RegisterResponder("GET",
		"https://ipapi.co/8.8.8.8/json/",
		httpmock.NewStringResponder(http.StatusTooManyRequests, ""))

	_, err := suite.prov.Lookup(context.Background(), net.ParseIP("8.8.8.8"))

	suite.Error(err)
}

func (suite *MockedIPAPICoTestSuite) TestLookupErrorFlag() {
	httpmock.RegisterResponder("GET",
		"https://ipapi.co/10.0.0.1/json/",
		httpmock.NewStringResponder(http.StatusOK, `{
  "ip": "10.0.0.1",
  "error": true,
  "reason": "Reserved IP Address",
  "reserved": true
}`))

	_, err := suite.prov.Lookup(context.Background(), net.ParseIP("10.0.0.1"))

	suite.ErrorIs(err, providers.ErrProviderFailed)
}

func (suite *MockedIPAPICoTestSuite) TestLookupOk() {
	httpmock.RegisterResponder("GET",
		"https://ipapi.co/8.8.8.8/json/",
		httpmock.NewStringResponder(http.StatusOK, `{
  "ip": "8.8.8.8",
  "network": "8.8.8.0/24",
  "version": "IPv4",
  "city": "Mountain View",
  "region": "California",
  "region_code": "CA",
  "country_code": "US",
  "country_name": "United States",
  "postal": "94043",
  "latitude": 37.42301,
  "longitude": -122.083352,
  "timezone": "America/Los_Angeles",
  "currency": "USD",
  "asn": "AS15169",
  "org": "GOOGLE"
}`))

	result, err := suite.prov.Lookup(context.Background(), net.ParseIP("8.8.8.8"))

	suite.NoError(err)
	suite.Equal("US", result.CountryCode.String())
	suite.Equal("California", result.Region)
	suite.Equal("CA", result.RegionCode)
	suite.Equal("Mountain View", result.City)
	suite.Equal("94043", result.PostalCode)
	suite.Equal("AS15169", result.ASN)
	suite.Equal("GOOGLE", result.ISP)
	suite.InDelta(0.9, result.Confidence, 0.0001)
}

func (suite *MockedIPAPICoTestSuite) TestAPIKey() {
	prov := providers.NewIPAPICo(suite.http, map[string]string{
		"api_key": "secret",
	})

	httpmock.RegisterResponderWithQuery("GET",
		"https://ipapi.co/8.8.8.8/json/",
		"key=secret",
		httpmock.NewStringResponder(http.StatusOK, `{"country_code": "US"}`))

	result, err := prov.Lookup(context.Background(), net.ParseIP("8.8.8.8"))

	suite.NoError(err)
	suite.Equal("US", result.CountryCode.String())
}

type IntegrationIPAPICoTestSuite struct {
	ProviderTestSuite

	prov lookup.Provider
}

func (suite *IntegrationIPAPICoTestSuite) SetupTest() {
	suite.ProviderTestSuite.SetupTest()

	suite.prov = providers.NewIPAPICo(suite.http, map[string]string{})
}

func (suite *IntegrationIPAPICoTestSuite) TestLookup() {
	result, err := suite.prov.Lookup(context.Background(), net.ParseIP("8.8.8.8"))

	suite.NoError(err)
	suite.Equal("US", result.CountryCode.String())
}

func TestIPAPICo(t *testing.T) {
	suite.Run(t, &MockedIPAPICoTestSuite{})
}

func TestIntegrationIPAPICo(t *testing.T) {
	skipIntegration(t)

	suite.Run(t, &IntegrationIPAPICoTestSuite{})
}
