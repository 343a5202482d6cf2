package serverrun

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"vidscribe/internal/cmdrun"
	"vidscribe/internal/config"
	"vidscribe/internal/logging"
	"vidscribe/internal/preflight"
	"vidscribe/internal/services"
	"vidscribe/internal/staging"
	"vidscribe/internal/transport"
)

// Transport names.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Options configures server process runtime behavior.
type Options struct {
	Version string
	// Stdin and Stdout carry the stdio transport. Nil selects the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	// Banner receives the HTTP startup banner. Nil selects stderr.
	Banner io.Writer
	// Runner overrides process execution, mainly for tests.
	Runner cmdrun.Runner
}

// Run serves the protocol on the configured transport until ctx is done,
// the process is signalled, or (for stdio) input ends.
func Run(cmdCtx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.Runner == nil {
		opts.Runner = cmdrun.ExecRunner{}
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	maxAge := time.Duration(cfg.Staging.StaleAfterHours) * time.Hour
	staging.CleanStale(signalCtx, cfg.Paths.WorkDir, maxAge, logger)
	logDependencySnapshot(logger, cfg)
	for _, r := range preflight.Failed(preflight.RunAll(cfg)) {
		logger.Warn("preflight check failed",
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String("check", r.Name),
			logging.String("path", r.Path),
			logging.String("detail", r.Detail),
		)
	}

	var err error
	switch cfg.Server.Transport {
	case TransportHTTP:
		err = runHTTP(signalCtx, cfg, logger, opts)
	case TransportStdio, "":
		err = runStdio(signalCtx, cfg, logger, opts)
	default:
		return fmt.Errorf("unsupported transport %q", cfg.Server.Transport)
	}
	logger.Info("server shutting down", logging.String("transport", cfg.Server.Transport))
	return err
}

func runStdio(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) error {
	in := opts.Stdin
	if in == nil {
		in = os.Stdin
	}
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	sessionID := uuid.NewString()
	sessionLogger := logger.With(logging.String(logging.FieldSessionID, sessionID))
	components := Build(cfg, opts.Runner, sessionLogger, opts.Version)

	err := transport.ServeStdio(services.WithSessionID(ctx, sessionID), components.Dispatcher, in, out, logger)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func runHTTP(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) error {
	factory := func(_ context.Context, sessionID string) (transport.Handler, error) {
		sessionLogger := logger.With(logging.String(logging.FieldSessionID, sessionID))
		return Build(cfg, opts.Runner, sessionLogger, opts.Version).Dispatcher, nil
	}
	server := transport.NewHTTPServer(cfg.Server.Bind, factory,
		transport.WithToken(cfg.Server.Token),
		transport.WithIdleTimeout(time.Duration(cfg.Server.SessionIdleMinutes)*time.Minute),
		transport.WithHTTPLogger(logger),
	)
	if err := server.Listen(); err != nil {
		return err
	}

	banner := opts.Banner
	if banner == nil {
		banner = os.Stderr
	}
	if err := WriteBanner(banner, cfg.Server.Name, server.Addr(), cfg.Server.Token != ""); err != nil {
		logger.Warn("write banner failed", logging.Error(err))
	}
	logger.Info("http transport ready",
		logging.String(logging.FieldEventType, "server_ready"),
		logging.String("url", EndpointURL(server.Addr())),
	)
	return server.Serve(ctx)
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	logger.Info("dependency snapshot",
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.Bool("ytdlp_available", binaryAvailable(cfg.Tools.YtDlp)),
		logging.String("ytdlp_binary", cfg.Tools.YtDlp),
		logging.Bool("ffmpeg_available", binaryAvailable(cfg.Tools.FFmpeg)),
		logging.String("ffmpeg_binary", cfg.Tools.FFmpeg),
		logging.Bool("whisper_cli_available", binaryAvailable(cfg.Tools.WhisperCLI)),
		logging.String("whisper_cli_binary", cfg.Tools.WhisperCLI),
		logging.String("models_dir", cfg.Paths.ModelsDir),
		logging.String("output_dir", cfg.Paths.OutputDir),
	)
}

func binaryAvailable(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}
