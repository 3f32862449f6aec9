// Package scenario defines the scenario document model: parsing of markdown
// documents with YAML front matter, the typed classification enums, and the
// query filters used to select scenarios from a catalog.
//
// Document shape:
//
// Every scenario document is a markdown file with a front matter block
// followed by two level-2 sections:
//
//	---
//	id: service-loadbalancer
//	title: Exposing a web application to external traffic
//	category: networking
//	difficulty: beginner
//	kinds: [Service, Deployment]
//	kubernetesVersion: "1.24"
//	keywords: [loadbalancer, expose]
//	summary: Expose a Deployment externally with a LoadBalancer Service.
//	---
//
//	## Scenario
//
//	One paragraph describing the problem...
//
//	## Solution
//
//	Prose plus fenced yaml/bash snippets...
//
// Query matching:
//
// Queries filter scenarios with wildcard semantics: every populated query
// field must be satisfied by the scenario, and empty or "any" fields match
// anything. An empty query therefore matches every scenario:
//
//	q := Query{Category: CategoryNetworking} // wildcard for other fields
//	q.IsMatch(lbScenario)                    // true when categories agree
//
// The K8s field works as a capability filter: it names the caller's cluster
// version and excludes scenarios whose kubernetesVersion front matter
// requires something newer.
package scenario
