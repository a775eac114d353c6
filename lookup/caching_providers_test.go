package lookup_test

import (
	"context"
	"io"
	"net"
	"os"
	"testing"
	"time"

	"github.com/9seconds/ipintel/intel"
	"github.com/9seconds/ipintel/lookup"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CachingProviderBaseTestSuite struct {
	suite.Suite

	p              *lookup.CachingProvider
	cache          lookup.Cache
	mockedProvider *ProviderMock
	logMock        *LoggerMock
}

func (suite *CachingProviderBaseTestSuite) SetupTest() {
	suite.mockedProvider = &ProviderMock{}
	suite.logMock = &LoggerMock{}

	suite.mockedProvider.On("Name").Return("cached").Maybe()
}

func (suite *CachingProviderBaseTestSuite) TearDownTest() {
	suite.mockedProvider.AssertExpectations(suite.T())
	suite.logMock.AssertExpectations(suite.T())
}

func (suite *CachingProviderBaseTestSuite) TestLookup() {
	call := suite.mockedProvider.On("Lookup", mock.Anything, mock.Anything)

	call.Return(lookup.ProviderLookupResult{
		City:        "Nizhny Novgorod",
		CountryCode: intel.Alpha2ToCountryCode("ru"),
		ASN:         "AS12389",
	}, nil)
	call.Once()

	ctx := context.Background()
	ip := net.ParseIP("80.80.81.81")

	result1, err := suite.p.Lookup(ctx, ip)

	suite.NoError(err)

	// ristretto is eventually consistent
	time.Sleep(100 * time.Millisecond)

	result2, err := suite.p.Lookup(ctx, ip)

	suite.NoError(err)
	suite.Equal(result1, result2)
	suite.Equal("RU", result2.CountryCode.String())
	suite.Equal(lookup.CacheStats{Hits: 1, Misses: 1}, suite.p.CacheStats())
}

func (suite *CachingProviderBaseTestSuite) TestErrorsAreNotCached() {
	suite.mockedProvider.
		On("Lookup", mock.Anything, mock.Anything).
		Return(lookup.ProviderLookupResult{}, io.EOF).
		Twice()

	ctx := context.Background()
	ip := net.ParseIP("80.80.81.82")

	_, err := suite.p.Lookup(ctx, ip)

	suite.ErrorIs(err, io.EOF)

	time.Sleep(100 * time.Millisecond)

	_, err = suite.p.Lookup(ctx, ip)

	suite.ErrorIs(err, io.EOF)
}

type RistrettoCachingProviderTestSuite struct {
	CachingProviderBaseTestSuite
}

func (suite *RistrettoCachingProviderTestSuite) SetupTest() {
	suite.CachingProviderBaseTestSuite.SetupTest()

	cache, err := lookup.NewRistrettoCache(100)
	suite.Require().NoError(err)

	suite.p = lookup.NewCachingProvider(suite.mockedProvider, cache, time.Minute, suite.logMock, nil)
}

type LRUCachingProviderTestSuite struct {
	CachingProviderBaseTestSuite
}

func (suite *LRUCachingProviderTestSuite) SetupTest() {
	suite.CachingProviderBaseTestSuite.SetupTest()

	suite.p = lookup.NewCachingProvider(suite.mockedProvider,
		lookup.NewLRUCache(100, time.Minute), time.Minute, suite.logMock, nil)
}

type RedisCachingProviderTestSuite struct {
	CachingProviderBaseTestSuite
}

func (suite *RedisCachingProviderTestSuite) SetupTest() {
	suite.CachingProviderBaseTestSuite.SetupTest()

	client, err := lookup.NewRedisClient(context.Background(), os.Getenv("IPINTEL_TEST_REDIS_URL"))
	suite.Require().NoError(err)

	client.FlushDB(context.Background())

	suite.p = lookup.NewCachingProvider(suite.mockedProvider,
		lookup.NewRedisCache(client), time.Minute, suite.logMock, nil)
}

type BrokenCacheTestSuite struct {
	CachingProviderBaseTestSuite

	cacheMock *CacheMock
}

func (suite *BrokenCacheTestSuite) SetupTest() {
	suite.CachingProviderBaseTestSuite.SetupTest()

	suite.cacheMock = &CacheMock{}
	suite.p = lookup.NewCachingProvider(suite.mockedProvider, suite.cacheMock, 0, suite.logMock, nil)
}

func (suite *BrokenCacheTestSuite) TestLookup() {
	suite.cacheMock.
		On("Get", mock.Anything, "cached:80.80.81.81").
		Return(lookup.ProviderLookupResult{}, false, io.ErrUnexpectedEOF)
	suite.cacheMock.
		On("Set", mock.Anything, "cached:80.80.81.81", mock.Anything, lookup.DefaultCacheTTL).
		Return(io.ErrClosedPipe)
	suite.mockedProvider.
		On("Lookup", mock.Anything, mock.Anything).
		Return(lookup.ProviderLookupResult{City: "Perm"}, nil).
		Once()
	suite.logMock.On("CacheError", "cached", io.ErrUnexpectedEOF).Once()
	suite.logMock.On("CacheError", "cached", io.ErrClosedPipe).Once()

	result, err := suite.p.Lookup(context.Background(), net.ParseIP("80.80.81.81"))

	suite.NoError(err)
	suite.Equal("Perm", result.City)
	suite.cacheMock.AssertExpectations(suite.T())
}

func (suite *BrokenCacheTestSuite) TestErrorsAreNotCached() {
	suite.T().Skip("cache is broken anyway")
}

func TestRistrettoCachingProvider(t *testing.T) {
	suite.Run(t, &RistrettoCachingProviderTestSuite{})
}

func TestLRUCachingProvider(t *testing.T) {
	suite.Run(t, &LRUCachingProviderTestSuite{})
}

func TestRedisCachingProvider(t *testing.T) {
	if os.Getenv("IPINTEL_TEST_REDIS_URL") == "" {
		t.Skip("IPINTEL_TEST_REDIS_URL is not set")
	}

	suite.Run(t, &RedisCachingProviderTestSuite{})
}

func TestBrokenCache(t *testing.T) {
	suite.Run(t, &BrokenCacheTestSuite{})
}
