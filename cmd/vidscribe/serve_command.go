package main

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vidscribe/internal/config"
	"vidscribe/internal/logging"
	"vidscribe/internal/serverrun"
)

type serveOptions struct {
	transport string
	host      string
	port      int
	token     string
}

func (o *serveOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.transport, "transport", "t", "", "Transport to serve (stdio or http)")
	flags.StringVar(&o.host, "host", "", "Host address for the HTTP transport")
	flags.IntVarP(&o.port, "port", "p", 0, "Port for the HTTP transport")
	flags.StringVar(&o.token, "token", "", "Bearer token required by the HTTP transport")
}

// apply layers command line overrides onto cfg.
func (o *serveOptions) apply(cfg *config.Config) error {
	if transport := strings.ToLower(strings.TrimSpace(o.transport)); transport != "" {
		if transport != serverrun.TransportStdio && transport != serverrun.TransportHTTP {
			return fmt.Errorf("invalid transport %q (expected stdio or http)", o.transport)
		}
		cfg.Server.Transport = transport
	}
	if token := strings.TrimSpace(o.token); token != "" {
		cfg.Server.Token = token
	}
	if strings.TrimSpace(o.host) == "" && o.port == 0 {
		return nil
	}
	host, port, err := net.SplitHostPort(cfg.Server.Bind)
	if err != nil {
		return fmt.Errorf("parse bind address %q: %w", cfg.Server.Bind, err)
	}
	if h := strings.TrimSpace(o.host); h != "" {
		host = h
	}
	if o.port != 0 {
		if o.port < 0 || o.port > 65535 {
			return fmt.Errorf("invalid port %d", o.port)
		}
		port = strconv.Itoa(o.port)
	}
	cfg.Server.Bind = net.JoinHostPort(host, port)
	return nil
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the transcription tools over MCP (the default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, ctx, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, ctx *commandContext, opts *serveOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if err := opts.apply(cfg); err != nil {
		return err
	}
	logger, err := ctx.logger()
	if err != nil {
		return err
	}
	logger.Info("vidscribe starting",
		logging.String("version", version),
		logging.String("transport", cfg.Server.Transport),
		logging.String("config_path", ctx.configPath),
	)
	return serverrun.Run(cmd.Context(), cfg, logger, serverrun.Options{
		Version: version,
		Stdin:   cmd.InOrStdin(),
		Stdout:  cmd.OutOrStdout(),
		Banner:  cmd.ErrOrStderr(),
		Runner:  ctx.commandRunner(),
	})
}
