// Package services implements the driving ports: the query
// normaliser, the source registry, the aggregating search service,
// and the debounce watcher that coalesces rapid query changes.
package services
