package main

import (
	"io"
	"net"
	"os"

	"github.com/9seconds/ipintel/lookup"
	"github.com/rs/zerolog"
)

type logger struct {
	lookupLog  zerolog.Logger
	cacheLog   zerolog.Logger
	inspectLog zerolog.Logger
}

func (l *logger) LookupError(ip net.IP, name string, err error) {
	l.lookupLog.Error().Str("provider", name).Stringer("ip", ip).Err(err).Msg("")
}

func (l *logger) CacheError(name string, err error) {
	l.cacheLog.Warn().Str("provider", name).Err(err).Msg("")
}

func (l *logger) Inspected(report *lookup.Report) {
	event := l.inspectLog.Debug().
		Str("ip", report.IP).
		Str("category", string(report.Classification.Category))

	if report.Location != nil {
		event = event.Str("country", report.Location.Country.Alpha2Code)
	}

	if report.Security != nil {
		event = event.
			Str("risk_level", string(report.Security.Risk.Level)).
			Float64("risk_score", report.Security.Risk.Score)
	}

	event.Msg("")
}

func newLogger(writer io.Writer, debug bool) *logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	newLog := func(eventName string) zerolog.Logger {
		return zerolog.New(writer).
			Level(level).
			With().
			Timestamp().
			Str("event_name", eventName).
			Logger()
	}

	return &logger{
		lookupLog:  newLog("lookup"),
		cacheLog:   newLog("cache"),
		inspectLog: newLog("inspect"),
	}
}

func newStderrLogger(debug bool) lookup.Logger {
	return newLogger(os.Stderr, debug)
}
