/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/kubescenarios/kubescenarios/pkg/catalog"
	"github.com/kubescenarios/kubescenarios/pkg/defaults"
	"github.com/kubescenarios/kubescenarios/pkg/logging"
	"github.com/kubescenarios/kubescenarios/pkg/serializer"
)

const (
	name           = "scenctl"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Flags shared across subcommands.
var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path or cm://namespace/name ConfigMap URI (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("Output format, one of: %s", strings.Join(serializer.SupportedFormats(), ", ")),
		Value:   string(serializer.FormatYAML),
	}

	dataFlag = &cli.StringFlag{
		Name:    "data",
		Usage:   "Directory of scenario documents layered over the embedded catalog",
		Sources: cli.EnvVars("SCENARIOS_DATA_DIR"),
	}

	kubeconfigFlag = &cli.StringFlag{
		Name:    "kubeconfig",
		Usage:   "Path to kubeconfig for cm:// URIs (default: in-cluster, then ~/.kube/config)",
		Sources: cli.EnvVars("KUBECONFIG"),
	}

	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level: debug, info, warn, error",
		Sources: cli.EnvVars("LOG_LEVEL"),
		Value:   "info",
	}
)

// rootCmd assembles the base command with all subcommands attached.
func rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               version,
		EnableShellCompletion: true,
		Usage:                 "Kubernetes troubleshooting scenario catalog",
		Description: fmt.Sprintf(`%s - Kubernetes troubleshooting scenario catalog

Version: %s
Commit:  %s
Built:   %s

Browse, search, lint, quiz on, and export a curated catalog of
"scenario and solution" documents covering Services, autoscaling,
volumes, quotas, scheduling, RBAC, probes, and node operations.`, name, version, commit, date),
		Flags: []cli.Flag{
			logLevelFlag,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting", "name", name, "version", version, "commit", commit, "date", date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			listCmd(),
			showCmd(),
			searchCmd(),
			lintCmd(),
			quizCmd(),
			exportCmd(),
		},
		Action: commandLister,
	}
}

// Execute runs the root command. It is called by main.main() and handles
// SIGINT/SIGTERM by canceling the command context.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandLister prints the visible subcommands. It is the action for the
// bare root command.
func commandLister(_ context.Context, cmd *cli.Command) error {
	if cmd == nil {
		return nil
	}

	fmt.Printf("%s - %s\n\nCommands:\n", cmd.Name, cmd.Usage)
	for _, sub := range cmd.Commands {
		if sub.Hidden {
			continue
		}
		fmt.Printf("  %-10s %s\n", sub.Name, sub.Usage)
	}
	fmt.Printf("\nRun '%s <command> --help' for details.\n", cmd.Name)
	return nil
}

// parseOutputFormat reads and validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	format := serializer.Format(cmd.String("format"))
	if format.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, supported values: %s",
			format, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return format, nil
}

// writeResult serializes v to the destination named by the shared --output
// and --format flags.
func writeResult(ctx context.Context, cmd *cli.Command, v any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	ser := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	defer func() {
		if closer, ok := ser.(serializer.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}
	}()

	return ser.Serialize(ctx, v)
}

// loadCatalog loads the scenario catalog, layering the --data directory over
// the embedded documents when one is given.
func loadCatalog(ctx context.Context, cmd *cli.Command) (*catalog.Catalog, error) {
	opts := catalog.Options{}

	if dir := cmd.String("data"); dir != "" {
		provider, err := catalog.NewDefaultLayeredProvider(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to layer data directory %q: %w", dir, err)
		}
		opts.Provider = provider
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.CatalogLoadTimeout)
	defer cancel()

	cat, err := catalog.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	slog.Debug("catalog loaded", "scenarios", cat.Len())
	return cat, nil
}
