package providers_test

import (
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/9seconds/ipintel/lookup"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"
)

type ProviderTestSuite struct {
	suite.Suite

	http lookup.HTTPClient
}

func (suite *ProviderTestSuite) SetupTest() {
	suite.http = lookup.NewHTTPClient(&http.Client{},
		"test-agent",
		time.Millisecond,
		100,
		100,
		time.Minute,
		time.Minute)
}

type MockedProviderTestSuite struct {
	ProviderTestSuite
}

func (suite *MockedProviderTestSuite) SetupSuite() {
	httpmock.Activate()
}

func (suite *MockedProviderTestSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (suite *MockedProviderTestSuite) TearDownTest() {
	httpmock.Reset()
}

func skipIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipped because of the short mode")
	}

	if os.Getenv("IPINTEL_INTEGRATION_TESTS") == "" {
		t.Skip("Set IPINTEL_INTEGRATION_TESTS to run integration tests")
	}
}
