package intel_test

import (
	"net"
	"testing"

	"github.com/9seconds/ipintel/intel"
	"github.com/stretchr/testify/suite"
)

type InRangeTestSuite struct {
	suite.Suite
}

func (suite *InRangeTestSuite) TestMatch() {
	testData := map[string]string{
		"10.1.2.3":        "10.0.0.0/8",
		"172.31.255.255":  "172.16.0.0/12",
		"192.168.0.1":     "192.168.0.0/16",
		"1.2.3.4":         "0.0.0.0/0",
		"8.8.8.8":         "8.8.8.8",
		"255.255.255.255": "240.0.0.0/4",
	}

	for addr, cidr := range testData {
		addr := addr
		cidr := cidr

		suite.T().Run(addr+" in "+cidr, func(t *testing.T) {
			ok, err := intel.InRange(addr, cidr)

			if suite.NoError(err) {
				suite.True(ok)
			}
		})
	}
}

func (suite *InRangeTestSuite) TestNoMatch() {
	testData := map[string]string{
		"172.32.0.1":  "172.16.0.0/12",
		"11.0.0.1":    "10.0.0.0/8",
		"8.8.8.9":     "8.8.8.8/32",
		"192.169.0.1": "192.168.0.0/16",
	}

	for addr, cidr := range testData {
		ok, err := intel.InRange(addr, cidr)

		suite.NoError(err)
		suite.False(ok, addr)
	}
}

func (suite *InRangeTestSuite) TestIncorrectAddress() {
	for _, v := range []string{"", "1.2.3", "1.2.3.256", "a.b.c.d", "::1"} {
		_, err := intel.InRange(v, "10.0.0.0/8")

		suite.ErrorIs(err, intel.ErrInvalidAddress, v)
	}
}

func (suite *InRangeTestSuite) TestIncorrectCIDR() {
	for _, v := range []string{"10.0.0.0/33", "10.0.0.0/x", "10.0.0/8", "/8"} {
		_, err := intel.InRange("10.0.0.1", v)

		suite.ErrorIs(err, intel.ErrInvalidCIDR, v)
	}
}

func (suite *InRangeTestSuite) TestIPv6Prefix() {
	suite.True(intel.HasIPv6Prefix("FE80::1", "fe80:"))
	suite.True(intel.HasIPv6Prefix("2001:DB8::1", "2001:db8:"))
	suite.False(intel.HasIPv6Prefix("2001:4860::1", "2001:db8:"))
}

func (suite *InRangeTestSuite) TestParseIP() {
	testData := map[string]string{
		"8.8.8.8":         "8.8.8.8",
		"08.8.8.8":        "8.8.8.8",
		"1.2.3.04":        "1.2.3.4",
		"010.000.000.001": "10.0.0.1",
		"2001:4860::8888": "2001:4860::8888",
		"::1":             "::1",
	}

	for addr, expected := range testData {
		suite.True(net.ParseIP(expected).Equal(intel.ParseIP(addr)), addr)
	}
}

func (suite *InRangeTestSuite) TestParseIPIncorrect() {
	for _, v := range []string{"", "1.2.3", "1.2.3.256", "a.b.c.d", "localhost"} {
		suite.Nil(intel.ParseIP(v), v)
	}
}

func (suite *InRangeTestSuite) TestLeadingZeroes() {
	ok, err := intel.InRange("010.0.0.1", "10.0.0.0/8")

	suite.NoError(err)
	suite.True(ok)
}

func TestInRange(t *testing.T) {
	suite.Run(t, &InRangeTestSuite{})
}
