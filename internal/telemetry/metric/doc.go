// Package metric records login attempt metrics with Prometheus.
//
// The CLI is short-lived, so metrics are not scraped. When a textfile path is
// configured the registry is written in the node_exporter textfile format on
// exit.
package metric
