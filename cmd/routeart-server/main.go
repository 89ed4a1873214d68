// Command routeart-server runs the GPS-art route generation HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/gpsartgen/routeart/generator"
	"github.com/gpsartgen/routeart/httpapi"
	"github.com/gpsartgen/routeart/options"
	"github.com/gpsartgen/routeart/rgcache"
	"github.com/gpsartgen/routeart/roadgraph"
)

func main() {
	settings := parseFlags()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(settings, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func parseFlags() options.Settings {
	s := options.DefaultSettings()

	flag.StringVar(&s.BindHost, "host", s.BindHost, "HTTP bind host")
	flag.IntVar(&s.BindPort, "port", s.BindPort, "HTTP bind port")
	flag.StringVar(&s.DataRoot, "data-root", s.DataRoot, "directory containing SVG templates")
	flag.StringVar(&s.CacheDir, "cache-dir", s.CacheDir, "directory for persisted road-graph cache files")
	flag.StringVar(&s.OutputDir, "output-dir", s.OutputDir, "directory generated GeoJSON routes are written to")
	flag.Parse()

	return s
}

func run(s options.Settings, logger *slog.Logger) error {
	for _, dir := range []string{s.DataRoot, s.CacheDir, s.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %q: %w", dir, err)
		}
	}

	cache, err := rgcache.New(rgcache.DefaultSize)
	if err != nil {
		return fmt.Errorf("building road-graph cache: %w", err)
	}

	rc := &generator.RouteContext{
		Templates: fileTemplateSource{dir: s.DataRoot},
		Roads:     unconfiguredRoadGraphProvider{},
		Output:    fileOutputSink{dir: s.OutputDir},
		Cache:     cache,
	}

	handler := httpapi.NewHandler(rc, logger)
	router := httpapi.NewRouter(handler)

	addr := fmt.Sprintf("%s:%d", s.BindHost, s.BindPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "data_root", s.DataRoot, "output_dir", s.OutputDir)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	}
}

// fileTemplateSource loads SVG template bytes from a flat directory keyed
// by file name.
type fileTemplateSource struct {
	dir string
}

func (f fileTemplateSource) LoadTemplate(ctx context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(f.dir, name))
}

// fileOutputSink writes generated GeoJSON to a flat directory under a
// random file name.
type fileOutputSink struct {
	dir string
}

func (f fileOutputSink) SaveGeoJSON(ctx context.Context, data []byte) (string, error) {
	path := filepath.Join(f.dir, uuid.NewString()+".geojson")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	return path, nil
}

// unconfiguredRoadGraphProvider is the default RoadGraphProvider: acquiring
// a real road network (from an Overpass mirror, a local OSM extract, or a
// persisted cache file) is out of this service's scope, so this stub
// reports GraphUnavailable until an operator wires in a real provider.
type unconfiguredRoadGraphProvider struct{}

func (unconfiguredRoadGraphProvider) GetGraph(ctx context.Context, lat, lng, radiusM float64) (*roadgraph.Graph, error) {
	return nil, fmt.Errorf("no road-graph provider configured for (%.5f, %.5f, %.0fm)", lat, lng, radiusM)
}
