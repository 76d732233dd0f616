package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetupWithoutExporters(t *testing.T) {
	tel, err := Setup(context.Background(), "test", Config{Debug: true})
	if err != nil {
		t.Fatal(err)
	}
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func chdir(t testing.TB, dir string) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	err = os.Chdir(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Chdir(wd)
	})
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(`{
		debug: true,
		http_dump_dir: "dumps",
		otlp: {
			traces: { http_endpoint: "http://localhost:4318/v1/traces" },
		},
	}`), 0600)
	if err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg := LoadConfig()
	require.True(t, cfg.Debug)
	require.Equal(t, "dumps", cfg.HttpDumpDir)
	require.True(t, cfg.Otlp.Traces.enabled())
	require.False(t, cfg.Otlp.Metrics.enabled())
}

func TestLoadConfigIgnoresParents(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(`{ debug: true }`), 0600)
	if err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(dir, "nested")
	err = os.Mkdir(nested, 0700)
	if err != nil {
		t.Fatal(err)
	}
	chdir(t, nested)

	require.Equal(t, Config{}, LoadConfig())
}

func TestLoadConfigMalformed(t *testing.T) {
	testCases := []struct {
		name     string
		contents string
	}{
		{name: "truncated", contents: `{ debug: `},
		{name: "wrong type", contents: `{ debug: "yes", http_dump_dir: "dumps" }`},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			dir := t.TempDir()
			err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(test.contents), 0600)
			if err != nil {
				t.Fatal(err)
			}
			chdir(t, dir)

			require.Equal(t, Config{}, LoadConfig())
		})
	}
}

func TestInstrumentResty(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		provider.Shutdown(context.Background())
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	client := resty.New()
	InstrumentResty(client, "telemetry_test")

	_, err := client.R().Get(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.R().
		SetFormData(map[string]string{"password": "hunter2"}).
		Post(server.URL)
	if err != nil {
		t.Fatal(err)
	}

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "http GET", spans[0].Name())
	require.Equal(t, "http POST", spans[1].Name())

	for _, span := range spans {
		for _, attr := range span.Attributes() {
			require.False(
				t,
				strings.Contains(attr.Value.Emit(), "hunter2"),
				"attribute %s leaks form data", attr.Key,
			)
		}
	}
}

func TestInstrumentRestyError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		provider.Shutdown(context.Background())
	})

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := resty.New()
	InstrumentResty(client, "telemetry_test")

	_, err := client.R().Get(url)
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
}
