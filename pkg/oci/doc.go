// Package oci packages catalog bundles as OCI artifacts and distributes
// them through OCI-compliant registries.
//
// A bundle becomes a single-layer artifact whose manifest carries
// ArtifactType ("application/vnd.kubescenarios.catalog"). The layer is a
// gzipped tar of the bundle directory, so any registry that stores container
// images can store and version catalogs. The type is not a runnable image;
// clients that do not recognize it should treat the artifact as an opaque
// blob.
//
// Publishing happens in two phases that can also run independently:
//
//	staged, err := oci.Package(ctx, oci.PackageOptions{
//	    SourceDir:  "./dist",
//	    OutputDir:  scratch,
//	    Registry:   "ghcr.io",
//	    Repository: "kubescenarios/catalog",
//	    Tag:        "v1.4.0",
//	})
//	if err != nil {
//	    return err
//	}
//	pushed, err := oci.PushFromStore(ctx, staged.StorePath, oci.PushOptions{
//	    Registry:   "ghcr.io",
//	    Repository: "kubescenarios/catalog",
//	    Tag:        "v1.4.0",
//	})
//
// Package writes an OCI Image Layout store that standard layout tooling can
// inspect; PushFromStore copies a tagged artifact from such a store to a
// remote repository. PackageAndPush chains the two for callers that resolved
// an output target with ParseOutputTarget, which classifies a target string
// as either an oci:// registry reference or a local directory.
//
// Registry credentials come from the ambient Docker configuration through
// the ORAS credential store. PushOptions.PlainHTTP and InsecureTLS exist for
// local development registries.
//
// Setting the org.opencontainers.image.created annotation to a fixed value
// makes packaging reproducible: the same source tree yields the same digest.
package oci
