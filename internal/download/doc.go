// Package download implements the per-request extraction pipeline built on top
// of the extractor, artifact selector and packager. It owns the request's
// working directory, bounds concurrent pipelines, and applies the extraction
// timeout.
package download
