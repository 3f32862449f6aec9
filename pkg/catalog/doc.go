// Package catalog loads and serves the embedded scenario catalog.
//
// The catalog is a read-only set of scenario documents (markdown with YAML
// front matter) registered in registry.yaml. Data access goes through a
// DataProvider so an external directory can overlay the embedded files:
//
//	provider := catalog.GetDataProvider()                    // embedded
//	layered, err := catalog.NewLayeredDataProvider(embedded, // external overlay
//	    catalog.LayeredProviderConfig{ExternalDir: dir})
//
// Loading parses every registered document into a scenario.Scenario and
// builds an id index:
//
//	cat, err := catalog.Load(ctx, catalog.Options{})
//	s, ok := cat.Get("service-loadbalancer")
//	hits := cat.List(&scenario.Query{Category: scenario.CategoryNetworking})
//
// A loaded Catalog is immutable; reloading (e.g. after a filesystem change)
// builds a new value and swaps it atomically at the call site.
package catalog
