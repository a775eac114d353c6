package lookup_test

import (
	"context"
	"net"
	"time"

	"github.com/9seconds/ipintel/lookup"
	"github.com/stretchr/testify/mock"
)

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) Lookup(ctx context.Context, ip net.IP) (lookup.ProviderLookupResult, error) {
	args := m.Called(ctx, ip)

	return args.Get(0).(lookup.ProviderLookupResult), args.Error(1)
}

func (m *ProviderMock) Name() string {
	return m.Called().String(0)
}

type ShutdownProviderMock struct {
	ProviderMock
}

func (m *ShutdownProviderMock) Shutdown() {
	m.Called()
}

type LoggerMock struct {
	mock.Mock
}

func (m *LoggerMock) LookupError(ip net.IP, name string, err error) {
	m.Called(ip, name, err)
}

func (m *LoggerMock) CacheError(name string, err error) {
	m.Called(name, err)
}

func (m *LoggerMock) Inspected(report *lookup.Report) {
	m.Called(report)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(ctx context.Context, key string) (lookup.ProviderLookupResult, bool, error) {
	args := m.Called(ctx, key)

	return args.Get(0).(lookup.ProviderLookupResult), args.Bool(1), args.Error(2)
}

func (m *CacheMock) Set(ctx context.Context, key string, value lookup.ProviderLookupResult, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}
