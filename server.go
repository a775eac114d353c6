package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestTimeout = time.Minute

func makeMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return registry
}

func makeServer(conf *config, engine http.Handler, registry *prometheus.Registry) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(requestTimeout))

	if conf.BasicAuth.Enabled() {
		router.Use(func(next http.Handler) http.Handler {
			return &basicAuthMiddleware{
				handler:  next,
				user:     []byte(conf.BasicAuth.User),
				password: []byte(conf.BasicAuth.Password),
			}
		})
	}

	if conf.Metrics.Enabled && registry != nil {
		router.Method(http.MethodGet, conf.GetMetricsPath(),
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	router.Mount("/", engine)

	return router
}
