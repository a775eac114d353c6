package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/9seconds/ipintel/lookup"
	"github.com/9seconds/ipintel/providers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
)

type ServerTestSuite struct {
	suite.Suite

	conf     *config
	engine   *lookup.Engine
	registry *prometheus.Registry
	logs     *bytes.Buffer
}

func (suite *ServerTestSuite) SetupTest() {
	suite.conf = &config{
		Metrics: configMetrics{
			Enabled: true,
		},
	}
	suite.registry = makeMetricsRegistry()
	suite.logs = &bytes.Buffer{}

	metrics, err := lookup.NewMetrics(suite.registry)
	suite.Require().NoError(err)

	cache, closeCache, err := makeCache(context.Background(), &config{Cache: configCache{Backend: cacheBackendLRU}})
	suite.Require().NoError(err)

	suite.T().Cleanup(closeCache)

	provs := []lookup.Provider{
		lookup.NewCachingProvider(providers.NewFallback(), cache, 0, newLogger(suite.logs, true), metrics),
	}

	suite.engine, err = lookup.NewEngine(provs, newLogger(suite.logs, true), lookup.EngineOptions{
		WorkerPoolSize: 2,
		Metrics:        metrics,
	})
	suite.Require().NoError(err)
}

func (suite *ServerTestSuite) TearDownTest() {
	suite.engine.Shutdown()
}

func (suite *ServerTestSuite) Do(handler http.Handler, req *http.Request) (int, string) {
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)

	body, _ := io.ReadAll(resp.Body)

	return resp.Code, string(body)
}

func (suite *ServerTestSuite) TestInspectAndMetrics() {
	handler := makeServer(suite.conf, suite.engine, suite.registry)

	code, body := suite.Do(handler, httptest.NewRequest("GET", "/api?ip=1.1.1.1", nil))

	suite.Equal(http.StatusOK, code)
	suite.Contains(body, "San Francisco")

	code, _ = suite.Do(handler, httptest.NewRequest("GET", "/api?ip=1.1.1.1", nil))

	suite.Equal(http.StatusOK, code)

	code, body = suite.Do(handler, httptest.NewRequest("GET", "/metrics", nil))

	suite.Equal(http.StatusOK, code)
	suite.Contains(body, "ipintel_inspections_total")
	suite.Contains(body, "ipintel_cache_requests_total")
	suite.Contains(body, "go_goroutines")

	suite.Contains(suite.logs.String(), `"event_name":"inspect"`)
	suite.Contains(suite.logs.String(), `"ip":"1.1.1.1"`)
}

func (suite *ServerTestSuite) TestMetricsDisabled() {
	suite.conf.Metrics.Enabled = false

	handler := makeServer(suite.conf, suite.engine, suite.registry)
	code, _ := suite.Do(handler, httptest.NewRequest("GET", "/metrics", nil))

	suite.Equal(http.StatusNotFound, code)
}

func (suite *ServerTestSuite) TestBasicAuth() {
	suite.conf.BasicAuth = configBasicAuth{
		User:     "user",
		Password: "password",
	}

	handler := makeServer(suite.conf, suite.engine, suite.registry)

	code, _ := suite.Do(handler, httptest.NewRequest("GET", "/health", nil))

	suite.Equal(http.StatusUnauthorized, code)

	req := httptest.NewRequest("GET", "/health", nil)
	req.SetBasicAuth("user", "password")

	code, body := suite.Do(handler, req)

	suite.Equal(http.StatusOK, code)
	suite.JSONEq(`{"status": "ok"}`, body)
}

func (suite *ServerTestSuite) TestLookupErrorLogged() {
	handler := makeServer(suite.conf, suite.engine, suite.registry)

	code, _ := suite.Do(handler, httptest.NewRequest("GET", "/?ip=9.9.9.9", nil))

	suite.Equal(http.StatusNotFound, code)
	suite.Contains(suite.logs.String(), `"event_name":"lookup"`)
	suite.Contains(suite.logs.String(), `"provider":"fallback"`)
}

func TestServer(t *testing.T) {
	suite.Run(t, &ServerTestSuite{})
}

type RunServerTestSuite struct {
	suite.Suite

	conf *config
}

func (suite *RunServerTestSuite) SetupTest() {
	suite.conf = &config{
		Listen:        "127.0.0.1:0",
		RootDirectory: suite.T().TempDir(),
		Cache: configCache{
			Backend: cacheBackendLRU,
		},
		Providers: []configProvider{
			{Name: providers.NameFallback},
		},
	}
}

func (suite *RunServerTestSuite) TestStopsOnContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	suite.NoError(runServer(ctx, suite.conf, newLogger(&nopWriter{}, false)))
}

func (suite *RunServerTestSuite) TestMissingThreatList() {
	suite.conf.ThreatList = "missing.csv"

	err := runServer(context.Background(), suite.conf, newLogger(&nopWriter{}, false))

	suite.ErrorContains(err, "cannot initialize threat table")
}

func (suite *RunServerTestSuite) TestUnknownProvider() {
	suite.conf.Providers = []configProvider{{Name: "unknown"}}

	err := runServer(context.Background(), suite.conf, newLogger(&nopWriter{}, false))

	suite.ErrorContains(err, "cannot initialize providers")
}

func TestRunServer(t *testing.T) {
	suite.Run(t, &RunServerTestSuite{})
}
