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

	"github.com/urfave/cli/v3"

	"github.com/kubescenarios/kubescenarios/pkg/bundle"
	"github.com/kubescenarios/kubescenarios/pkg/catalog"
	"github.com/kubescenarios/kubescenarios/pkg/defaults"
	"github.com/kubescenarios/kubescenarios/pkg/oci"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:                  "export",
		EnableShellCompletion: true,
		Usage:                 "Export the catalog as a distributable bundle",
		Description: `Export the catalog as a self-contained bundle: one markdown document
per scenario, a browsable README index, the registry manifest, and a
machine-readable index.json.

The --output flag selects the destination. A plain path exports to a
local directory; an oci:// URI packages the bundle as an OCI artifact
and pushes it to a registry, so catalogs version and distribute like
images. When the URI has no tag, the CLI version is used.

# Examples

Export to a local directory:
  scenctl export --output ./dist

Publish to a registry:
  scenctl export --output oci://ghcr.io/kubescenarios/catalog:v1.4.0

Push to a local development registry over HTTP:
  scenctl export --output oci://localhost:5000/catalog --plain-http

Export an extended catalog:
  scenctl export --data ./my-scenarios --output ./dist`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory or oci://registry/repository[:tag] URI",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the registry connection",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS certificate verification for the registry connection",
			},
			dataFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, defaults.CLIExportTimeout)
			defer cancel()

			ref, err := resolveExportReference(cmd)
			if err != nil {
				return err
			}

			cat, err := loadCatalog(ctx, cmd)
			if err != nil {
				return err
			}

			if !ref.IsOCI {
				return exportToDir(ctx, cat, ref.LocalPath)
			}
			return exportToRegistry(ctx, cmd, cat, ref)
		},
	}
}

// resolveExportReference parses the --output target, applying the CLI
// version as the tag when an OCI reference carries none.
func resolveExportReference(cmd *cli.Command) (*oci.Reference, error) {
	ref, err := oci.ParseOutputTarget(cmd.String("output"))
	if err != nil {
		return nil, fmt.Errorf("invalid output target: %w", err)
	}
	if ref.IsOCI && ref.Tag == "" {
		ref = ref.WithTag(version)
	}
	return ref, nil
}

// exportToDir writes the catalog bundle to a local directory.
func exportToDir(ctx context.Context, cat *catalog.Catalog, dir string) error {
	out, err := bundle.New(bundle.WithVersion(version)).Export(ctx, cat, dir)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Println(out.Summary())

	if out.HasErrors() {
		for _, res := range out.Failed() {
			slog.Error("artifact failed", "type", res.Type, "files", res.Files, "error", res.Error)
		}
		return fmt.Errorf("export completed with %d failed artifact(s)", out.FailureCount())
	}
	return nil
}

// exportToRegistry stages the bundle in a scratch directory, then packages
// and pushes it as an OCI artifact.
func exportToRegistry(ctx context.Context, cmd *cli.Command, cat *catalog.Catalog, ref *oci.Reference) error {
	stageDir, err := os.MkdirTemp("", "scenctl-export-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(stageDir); err != nil {
			slog.Warn("failed to remove staging directory", "dir", stageDir, "error", err)
		}
	}()

	out, err := bundle.New(bundle.WithVersion(version)).Export(ctx, cat, stageDir)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if out.HasErrors() {
		for _, res := range out.Failed() {
			slog.Error("artifact failed", "type", res.Type, "files", res.Files, "error", res.Error)
		}
		return fmt.Errorf("refusing to push a partial bundle: %d artifact(s) failed", out.FailureCount())
	}

	result, err := oci.PackageAndPush(ctx, oci.OutputConfig{
		SourceDir:   stageDir,
		OutputDir:   stageDir,
		Reference:   ref,
		Version:     version,
		PlainHTTP:   cmd.Bool("plain-http"),
		InsecureTLS: cmd.Bool("insecure-tls"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Pushed catalog to %s (digest %s)\n", result.Reference, result.Digest)
	return nil
}
