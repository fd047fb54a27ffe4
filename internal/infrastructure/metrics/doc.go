// Package metrics exposes prometheus collectors for HTTP traffic, training jobs
// and chat generation.
package metrics
