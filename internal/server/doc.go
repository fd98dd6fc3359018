// Package server exposes the extraction pipeline over HTTP. It builds an
// explicit chi router at startup, maps pipeline failures to status codes and
// JSON error bodies, and streams packaged audio back as an attachment.
package server
