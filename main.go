package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/9seconds/ipintel/intel"
	"github.com/9seconds/ipintel/lookup"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

const (
	version = "1.0.0"

	shutdownTimeout = 10 * time.Second
)

var (
	app = kingpin.New(
		"ipintel",
		"IP intelligence service: geolocation, network and risk attributes of IP addresses")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("IPINTEL_DEBUG").
		Bool()

	serveCommand = app.Command("serve", "Run HTTP server.").Default()
	configFile   = serveCommand.Arg("config-path", "Path to the config (hjson or toml).").
			Required().
			File()

	classifyCommand   = app.Command("classify", "Classify addresses offline and print JSON.")
	classifyAddresses = classifyCommand.Arg("ip", "IP addresses to classify.").
				Required().
				Strings()
)

type classifyResult struct {
	intel.AddressClassification
	Notice   intel.SpecialNotice `json:"notice"`
	Features *intel.FeatureBag   `json:"features,omitempty"`
	Risk     *intel.RiskVerdict  `json:"risk,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func main() {
	app.Version(version)

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	switch command {
	case classifyCommand.FullCommand():
		mainClassify()
	default:
		if err := mainServe(); err != nil {
			log.Fatal().Err(err).Msg("cannot run")
		}
	}
}

func mainClassify() {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetEscapeHTML(false)

	for _, address := range *classifyAddresses {
		classification, err := intel.Classify(address)
		if err != nil {
			encoder.Encode(classifyResult{ // nolint: errcheck
				AddressClassification: intel.AddressClassification{Address: address},
				Error:                 err.Error(),
			})

			continue
		}

		result := classifyResult{
			AddressClassification: classification,
			Notice:                classification.SpecialNotice(),
		}

		if classification.GeolocationEligible {
			features := intel.ExtractFeatures(address, intel.Metadata{})
			risk := intel.Score(features)
			result.Features = &features
			result.Risk = &risk
		}

		encoder.Encode(result) // nolint: errcheck
	}
}

func mainServe() error {
	logger := newStderrLogger(*debug)
	conf, err := parseConfig((*configFile).Name(), *configFile)

	(*configFile).Close()

	if err != nil {
		return fmt.Errorf("cannot parse config: %w", err)
	}

	ctx, cancel := makeRootContext()
	defer cancel()

	return runServer(ctx, conf, logger)
}

// runServer blocks until context is closed or server fails. All
// resources are released before it returns.
func runServer(ctx context.Context, conf *config, logger lookup.Logger) error {
	var (
		err      error
		registry *prometheus.Registry
		metrics  *lookup.Metrics
	)

	if conf.Metrics.Enabled {
		registry = makeMetricsRegistry()

		metrics, err = lookup.NewMetrics(registry)
		if err != nil {
			return fmt.Errorf("cannot initialize metrics: %w", err)
		}
	}

	cache, closeCache, err := makeCache(ctx, conf)
	if err != nil {
		return fmt.Errorf("cannot initialize cache: %w", err)
	}

	defer closeCache()

	providers, err := makeProviders(conf, cache, logger, metrics)
	if err != nil {
		return fmt.Errorf("cannot initialize providers: %w", err)
	}

	threats, skipped, err := makeThreatTable(makeRootFs(conf), conf.ThreatList)
	if err != nil {
		return fmt.Errorf("cannot initialize threat table: %w", err)
	}

	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Str("path", conf.ThreatList).Msg("Some rows of threat list were skipped")
	}

	engine, err := lookup.NewEngine(providers, logger, lookup.EngineOptions{
		WorkerPoolSize: conf.GetWorkerPoolSize(),
		Metrics:        metrics,
		ThreatTable:    threats,
	})
	if err != nil {
		return fmt.Errorf("cannot initialize engine: %w", err)
	}

	defer engine.Shutdown()

	srv := &http.Server{
		Addr:              conf.GetListen(),
		Handler:           makeServer(conf, engine, registry),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		srv.Shutdown(shutdownCtx) // nolint: errcheck
	}()

	log.Info().Str("listen", conf.GetListen()).Str("version", version).Msg("Starting server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server has failed: %w", err)
	}

	return nil
}
