package intel_test

import (
	"testing"

	"github.com/9seconds/ipintel/intel"
	"github.com/stretchr/testify/suite"
)

type ExtractFeaturesTestSuite struct {
	suite.Suite
}

func (suite *ExtractFeaturesTestSuite) TestEmptyMetadata() {
	bag := intel.ExtractFeatures("1.2.3.4", intel.Metadata{})

	suite.False(bag.VPNDetected)
	suite.False(bag.IsTor)
	suite.False(bag.IsHosting)
	suite.False(bag.IsProxy)
	suite.Empty(bag.MatchedFactors)
	suite.NotNil(bag.MatchedFactors)
	suite.Equal(intel.DefaultConfidence, bag.Confidence)
}

func (suite *ExtractFeaturesTestSuite) TestVPNPatternMatch() {
	bag := intel.ExtractFeatures("1.2.3.4", intel.Metadata{
		ISP: "NordVPN Services",
	})

	suite.True(bag.VPNDetected)
	suite.Equal([]string{intel.FactorVPNPatternMatch}, bag.MatchedFactors)
	suite.GreaterOrEqual(bag.Confidence, 0.75)
}

func (suite *ExtractFeaturesTestSuite) TestVPNPatternMatchIsAppendedOnce() {
	bag := intel.ExtractFeatures("1.2.3.4", intel.Metadata{
		ISP:      "ExpressVPN anonymous proxy",
		Hostname: "exit.tor-relay.example.com",
	})

	suite.True(bag.VPNDetected)
	suite.Equal([]string{intel.FactorVPNPatternMatch}, bag.MatchedFactors)
}

func (suite *ExtractFeaturesTestSuite) TestHostnameMatch() {
	bag := intel.ExtractFeatures("1.2.3.4", intel.Metadata{
		ISP:      "Some Telecom",
		Hostname: "node-17.windscribe.com",
	})

	suite.True(bag.VPNDetected)
	suite.True(bag.HasFactor(intel.FactorVPNPatternMatch))
}

func (suite *ExtractFeaturesTestSuite) TestTorExitNode() {
	bag := intel.ExtractFeatures("185.220.101.1", intel.Metadata{})

	suite.True(bag.IsTor)
	suite.True(bag.VPNDetected)
	suite.True(bag.HasFactor(intel.FactorTorExitNode))
	suite.GreaterOrEqual(bag.Confidence, 0.95)
}

func (suite *ExtractFeaturesTestSuite) TestTorExitNodeWithLeadingZeroes() {
	bag := intel.ExtractFeatures("185.220.101.001", intel.Metadata{})

	suite.True(bag.IsTor)
	suite.Equal([]string{intel.FactorTorExitNode}, bag.MatchedFactors)
}

func (suite *ExtractFeaturesTestSuite) TestFactorsOrder() {
	bag := intel.ExtractFeatures("185.220.101.1", intel.Metadata{
		ISP: "NordVPN hosting",
		ASN: "AS174",
	})

	suite.Equal([]string{
		intel.FactorTorExitNode,
		intel.FactorVPNPatternMatch,
		intel.FactorSuspiciousASN,
		intel.FactorHostingProvider,
	}, bag.MatchedFactors)
}

func (suite *ExtractFeaturesTestSuite) TestSuspiciousASN() {
	bag := intel.ExtractFeatures("1.2.3.4", intel.Metadata{
		ISP: "Some Transit",
		ASN: "AS174",
	})

	suite.True(bag.VPNDetected)
	suite.Equal([]string{intel.FactorSuspiciousASN}, bag.MatchedFactors)
	suite.InDelta(0.70, bag.Confidence, 1e-9)
}

func (suite *ExtractFeaturesTestSuite) TestKnownVPNASN() {
	bag := intel.ExtractFeatures("1.2.3.4", intel.Metadata{
		ISP: "Example Networks",
		ASN: "as14061",
	})

	suite.True(bag.VPNDetected)
	suite.Equal([]string{intel.FactorSuspiciousASN, intel.FactorKnownVPNASN}, bag.MatchedFactors)
	suite.Equal("DigitalOcean (VPN Hosting)", bag.VPNServiceName)
	suite.InDelta(0.80, bag.Confidence, 1e-9)
}

func (suite *ExtractFeaturesTestSuite) TestConfidenceNeverDecreases() {
	bag := intel.ExtractFeatures("185.220.101.1", intel.Metadata{
		ISP: "Tor exit relay",
		ASN: "AS14061",
	})

	suite.GreaterOrEqual(bag.Confidence, 0.95)
	suite.Equal([]string{
		intel.FactorTorExitNode,
		intel.FactorVPNPatternMatch,
		intel.FactorSuspiciousASN,
		intel.FactorKnownVPNASN,
	}, bag.MatchedFactors)
}

func (suite *ExtractFeaturesTestSuite) TestHostingProvider() {
	bag := intel.ExtractFeatures("1.2.3.4", intel.Metadata{
		ISP: "Acme VPS",
	})

	suite.True(bag.IsHosting)
	suite.False(bag.VPNDetected)
	suite.Equal([]string{intel.FactorHostingProvider}, bag.MatchedFactors)
	suite.Equal(intel.DefaultConfidence, bag.Confidence)
}

func (suite *ExtractFeaturesTestSuite) TestIdempotent() {
	meta := intel.Metadata{ISP: "NordVPN", ASN: "AS16276", Hostname: "x.example"}

	suite.Equal(
		intel.ExtractFeatures("5.6.7.8", meta),
		intel.ExtractFeatures("5.6.7.8", meta))
}

func TestExtractFeatures(t *testing.T) {
	suite.Run(t, &ExtractFeaturesTestSuite{})
}

// The legitimate service rule intentionally discards verdicts of all
// previous rules. These tests pin this behavior.
type LegitimateServiceOverrideTestSuite struct {
	suite.Suite
}

func (suite *LegitimateServiceOverrideTestSuite) TestGoogle() {
	bag := intel.ExtractFeatures("8.8.8.8", intel.Metadata{
		ISP: "Google LLC",
		ASN: "AS15169",
	})

	suite.False(bag.VPNDetected)
	suite.Equal([]string{intel.FactorLegitimateService}, bag.MatchedFactors)
	suite.InDelta(0.90, bag.Confidence, 1e-9)
}

func (suite *LegitimateServiceOverrideTestSuite) TestDropsEarlierVerdicts() {
	bag := intel.ExtractFeatures("185.220.101.1", intel.Metadata{
		ISP: "Quad9 VPN proxy",
		ASN: "AS6939",
	})

	suite.False(bag.VPNDetected)
	suite.True(bag.IsTor)
	suite.Equal([]string{intel.FactorLegitimateService}, bag.MatchedFactors)
	suite.InDelta(0.90, bag.Confidence, 1e-9)
}

func (suite *LegitimateServiceOverrideTestSuite) TestByASN() {
	bag := intel.ExtractFeatures("9.9.9.9", intel.Metadata{
		ISP: "Some VPN",
		ASN: "AS19281",
	})

	suite.False(bag.VPNDetected)
	suite.Equal([]string{intel.FactorLegitimateService}, bag.MatchedFactors)
}

func (suite *LegitimateServiceOverrideTestSuite) TestHostingSurvives() {
	bag := intel.ExtractFeatures("34.1.2.3", intel.Metadata{
		ISP: "Google Cloud Hosting",
		ASN: "AS15169",
	})

	suite.False(bag.VPNDetected)
	suite.True(bag.IsHosting)
	suite.Equal([]string{
		intel.FactorLegitimateService,
		intel.FactorHostingProvider,
	}, bag.MatchedFactors)
}

func (suite *LegitimateServiceOverrideTestSuite) TestRequiresISPAndASN() {
	bag := intel.ExtractFeatures("8.8.8.8", intel.Metadata{
		ISP: "Google LLC",
	})

	suite.False(bag.HasFactor(intel.FactorLegitimateService))
	suite.Equal(intel.DefaultConfidence, bag.Confidence)

	bag = intel.ExtractFeatures("8.8.8.8", intel.Metadata{
		ASN: "AS15169",
	})

	suite.False(bag.HasFactor(intel.FactorLegitimateService))
}

func TestLegitimateServiceOverride(t *testing.T) {
	suite.Run(t, &LegitimateServiceOverrideTestSuite{})
}
