package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/shopfront/shopfront/internal/adapter/inbound/http"
	"github.com/shopfront/shopfront/internal/adapter/outbound/backend"
	"github.com/shopfront/shopfront/internal/adapter/outbound/state"
	"github.com/shopfront/shopfront/internal/config"
	"github.com/shopfront/shopfront/internal/domain/cart"
	"github.com/shopfront/shopfront/internal/domain/session"
	"github.com/shopfront/shopfront/internal/service"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the gateway server",
	Long: `Start the Shopfront gateway server.

The gateway loads the persisted cart and credential, validates any stored
login against the backend, and serves the storefront API on the configured
address.

Examples:
  # Start with config file settings
  shopfront start

  # Start with a specific config file
  shopfront --config /path/to/config.yaml start`,
	RunE: runStart,
}

var devMode bool

func init() {
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable development mode (verbose logging)")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	// Load configuration (without validation, so CLI flags can override first)
	cfg, err := config.LoadConfigRaw()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if devMode {
		cfg.DevMode = true
	}

	// CLI flag overrides the state path from config.
	if stateFilePath != "" {
		cfg.State.Path = stateFilePath
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Create signal context for graceful shutdown.
	// stop() restores default signal handling so a second Ctrl+C does a hard kill.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()

	logLevel := parseLogLevel(cfg.Server.LogLevel)
	if cfg.DevMode {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	logger.Debug("log level configured", "level", cfg.Server.LogLevel, "effective", logLevel.String())

	if configFile := config.ConfigFileUsed(); configFile != "" {
		logger.Info("loaded config", "file", configFile)
	}

	if err := run(ctx, cfg, logger); err != nil {
		return err
	}

	logger.Info("shopfront stopped")
	return nil
}

// run wires all components together and blocks until shutdown.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Optional trace export for backend requests.
	if cfg.Tracing.Enabled {
		shutdown, err := setupTracing(ctx)
		if err != nil {
			return fmt.Errorf("failed to set up tracing: %w", err)
		}
		defer shutdown()
		logger.Info("tracing enabled", "exporter", "stdout")
	}

	// Client state: the durable cart and credential slot.
	stateStore, err := newStateStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	if closer, ok := stateStore.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	manager, err := state.NewManager(stateStore, logger)
	if err != nil {
		return fmt.Errorf("failed to load client state: %w", err)
	}
	logger.Info("client state loaded",
		"backend", cfg.State.Backend,
		"path", cfg.State.Path,
	)

	// Backend client. The manager doubles as the credential source so
	// every request carries the current bearer token.
	client := backend.NewClient(cfg.Backend.URL, manager,
		backend.WithTimeout(cfg.BackendTimeout()),
		backend.WithLogger(logger),
	)
	logger.Info("backend configured", "url", cfg.Backend.URL, "timeout", cfg.BackendTimeout())

	// Cart rehydrates from the persisted lines.
	cartStore := cart.NewStore(manager, logger)

	// Session validates any stored credential against the backend.
	// A backend outage degrades to anonymous instead of failing the boot.
	sessionStore := session.NewStore(client, manager, logger)
	sessionStore.Bootstrap(ctx)
	_, sessionStatus := sessionStore.Current()
	logger.Info("session bootstrapped", "status", sessionStatus)

	catalogService := service.NewCatalogService(client, logger)
	checkoutService := service.NewCheckoutService(cartStore, sessionStore, client, logger)
	orderService := service.NewOrderService(client, sessionStore, logger)
	adminService := service.NewAdminService(client, sessionStore, logger)
	uploadService := service.NewUploadService(cfg.Uploads.Dir, cfg.MaxUploadBytes(), sessionStore, logger)

	handler := http.NewHandler(
		catalogService,
		cartStore,
		sessionStore,
		checkoutService,
		orderService,
		adminService,
		uploadService,
		nil, // metrics attached by the transport
	)

	healthChecker := http.NewHealthChecker(stateStore, sessionStore, Version)

	transport := http.NewTransport(handler,
		http.WithAddr(cfg.Server.HTTPAddr),
		http.WithAllowedOrigins(cfg.Server.AllowedOrigins),
		http.WithImagesDir(cfg.Uploads.Dir),
		http.WithLogger(logger),
		http.WithHealthChecker(healthChecker),
	)

	logger.Info("shopfront starting",
		"version", Version,
		"dev_mode", cfg.DevMode,
		"http_addr", cfg.Server.HTTPAddr,
		"state_backend", cfg.State.Backend,
		"session", sessionStatus,
	)
	printBanner(Version, cfg.Server.HTTPAddr, cfg.Backend.URL, cfg.DevMode)

	return transport.Start(ctx)
}

// newStateStore opens the persistence backend selected in config.
func newStateStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (state.Store, error) {
	switch cfg.State.Backend {
	case "sqlite":
		return state.NewSQLiteStateStore(cfg.State.Path, logger)
	case "redis":
		return state.NewRedisStateStore(ctx, cfg.State.RedisAddr, logger)
	default:
		return state.NewFileStateStore(cfg.State.Path, logger), nil
	}
}

// setupTracing installs a stdout span exporter and returns a shutdown func.
func setupTracing(ctx context.Context) (func(), error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "shopfront"),
		)),
	)
	otel.SetTracerProvider(tp)

	return func() { _ = tp.Shutdown(ctx) }, nil
}

// parseLogLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// printBanner prints a formatted startup banner to stderr.
func printBanner(version, httpAddr, backendURL string, devMode bool) {
	const (
		reset = "\033[0m"
		bold  = "\033[1m"
		cyan  = "\033[36m"
		green = "\033[32m"
		dim   = "\033[2m"
	)

	apiURL := fmt.Sprintf("http://%s/api", httpAddr)
	if strings.HasPrefix(httpAddr, ":") {
		apiURL = fmt.Sprintf("http://localhost%s/api", httpAddr)
	}

	modeStr := green + "production" + reset
	if devMode {
		modeStr = "development"
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  %s%sShopfront %s%s\n", bold, cyan, version, reset)
	fmt.Fprintf(os.Stderr, "  %s─────────────────────────────────────%s\n", dim, reset)
	fmt.Fprintf(os.Stderr, "  %-10s %s\n", "API:", apiURL)
	fmt.Fprintf(os.Stderr, "  %-10s %s\n", "Backend:", backendURL)
	fmt.Fprintf(os.Stderr, "  %-10s %s\n", "Mode:", modeStr)
	fmt.Fprintf(os.Stderr, "  %s─────────────────────────────────────%s\n", dim, reset)
	fmt.Fprintf(os.Stderr, "\n")
}
