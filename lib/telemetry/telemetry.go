package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"
	"yorkgrades/lib/configutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

const ConfigFile = "yorkgrades.json5"

type OtlpConnConfig struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func (c OtlpConnConfig) enabled() bool {
	return c.GrpcEndpoint != "" || c.HttpEndpoint != ""
}

type OtlpConfig struct {
	Traces  OtlpConnConfig `json:"traces"`
	Metrics OtlpConnConfig `json:"metrics"`
}

// Config only controls diagnostics, it never changes what gets scraped or
// printed.
type Config struct {
	Debug       bool       `json:"debug"`
	HttpDumpDir string     `json:"http_dump_dir"`
	Otlp        OtlpConfig `json:"otlp"`
}

// LoadConfig reads yorkgrades.json5 from the working directory. A missing or
// unreadable file is the same as an empty config.
func LoadConfig() Config {
	cfg, err := configutil.ReadConfig[Config](ConfigFile)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}
	}
	if err != nil {
		slog.Warn("ignoring diagnostics config", "file", ConfigFile, "err", err)
		return Config{}
	}
	return cfg
}

type Telemetry struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

func (t Telemetry) Shutdown(ctx context.Context) error {
	errlist := []error{}
	if t.TracerProvider != nil {
		err := t.TracerProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	if t.MeterProvider != nil {
		err := t.MeterProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

// Setup installs global tracer and meter providers for whichever OTLP
// exporters are configured, the no-op globals are left alone otherwise.
func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	var tel Telemetry
	if !config.Otlp.Traces.enabled() && !config.Otlp.Metrics.enabled() {
		return tel, nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := newResource(serviceName)
	if err != nil {
		return tel, err
	}

	if config.Otlp.Traces.enabled() {
		tel.TracerProvider, err = newTraceProvider(ctx, r, config.Otlp.Traces)
		if err != nil {
			return tel, err
		}
		otel.SetTracerProvider(tel.TracerProvider)
	}

	if config.Otlp.Metrics.enabled() {
		tel.MeterProvider, err = newMetricProvider(ctx, r, config.Otlp.Metrics)
		if err != nil {
			return tel, err
		}
		otel.SetMeterProvider(tel.MeterProvider)
	}

	return tel, nil
}

var setupTestEnvironments = map[string]bool{}

// sets up telemetry in a testing environment, ensuring that it isn't
// set up more than once
func SetupForTesting(t testing.TB, serviceName string) func() {
	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	config := LoadConfig()
	InitSlog(config.Debug)
	tel, err := Setup(context.Background(), serviceName, config)
	if err != nil {
		t.Fatal(err)
	}
	return func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	}
}
