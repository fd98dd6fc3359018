// Package platform contains OS/filesystem integration for the service:
// request-scoped working directories with guaranteed, logged cleanup, and
// file name helpers shared by the extractor and packager.
package platform
